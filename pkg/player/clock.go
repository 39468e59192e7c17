package player

import (
	"context"
	"time"
)

// Clock paces frames on a virtual timeline: frame k is due at k*period after start,
// so a slow frame is caught up on instead of delaying every later one.
type Clock struct {
	start  time.Time
	period time.Duration
	frame  int64
	now    func() time.Time
	sleep  func(ctx context.Context, d time.Duration)
}

func NewClock(period time.Duration) *Clock {
	return newClock(period, time.Now, sleepCtx)
}

func newClock(period time.Duration, now func() time.Time, sleep func(context.Context, time.Duration)) *Clock {
	return &Clock{
		start:  now(),
		period: period,
		now:    now,
		sleep:  sleep,
	}
}

// Frame is the number of frames advanced past.
func (c *Clock) Frame() int64 {
	return c.frame
}

func (c *Clock) Elapsed() time.Duration {
	return c.now().Sub(c.start)
}

// Due is when the next frame should start, relative to the clock start.
func (c *Clock) Due() time.Duration {
	return time.Duration(c.frame) * c.period
}

// Advance counts one more frame and sleeps until the next one is due. It returns the
// time slept and whether the frame overran its slot.
func (c *Clock) Advance(ctx context.Context) (time.Duration, bool) {
	c.frame++
	remaining := c.Due() - c.Elapsed()
	if remaining <= 0 {
		return 0, remaining < 0
	}
	c.sleep(ctx, remaining)
	return remaining, false
}

func sleepCtx(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
	case <-ctx.Done():
	}
}
