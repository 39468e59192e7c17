package player

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/1F47E/go-dotreel/pkg/audio"
	"github.com/1F47E/go-dotreel/pkg/braille"
	"github.com/1F47E/go-dotreel/pkg/container"
	"github.com/1F47E/go-dotreel/pkg/frame"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/metrics"
)

// FrameSource yields decoded frames in order. container.Reader satisfies it.
type FrameSource interface {
	Next() (*frame.Bitmap, error)
}

type Options struct {
	Period     time.Duration
	ClearEvery int  // full clear every n frames, 0 disables
	ShowStats  bool // frame counter overlay in the top-left corner
}

type Stats struct {
	Frames    int
	Late      int
	Slept     time.Duration
	Truncated bool
}

// Session is the state of one playback, threaded through every step.
type Session struct {
	ctx   context.Context
	src   FrameSource
	out   *bufio.Writer
	clock *Clock
	audio *audio.Task
	// audio failure is reported once
	audioSeen bool
	// last size the terminal reported
	cols, rows int
	stats      Stats
}

type Player struct {
	term    Terminal
	opts    Options
	metrics *metrics.Metrics
	// clock factory, replaced in tests
	newClock func(time.Duration) *Clock
}

func New(term Terminal, opts Options, m *metrics.Metrics) *Player {
	if m == nil {
		m = metrics.New(nil)
	}
	return &Player{
		term:     term,
		opts:     opts,
		metrics:  m,
		newClock: NewClock,
	}
}

// Play draws frames from src until the stream ends, ctx is done or an error occurs.
// End of stream and a truncated last frame both end playback without an error.
// The cursor is restored on every return path.
func (p *Player) Play(ctx context.Context, src FrameSource, task *audio.Task) (stats Stats, err error) {
	log := logger.Log.WithField("scope", "player")

	s := &Session{
		ctx:   ctx,
		src:   src,
		out:   bufio.NewWriterSize(p.term, 64<<10),
		audio: task,
		cols:  defaultCols,
		rows:  defaultRows,
	}

	_, _ = s.out.WriteString(hideCursor + clearScreen)
	defer func() {
		RestoreCursor(s.out)
		if ferr := s.out.Flush(); ferr != nil && err == nil {
			err = ferr
		}
		stats = s.stats
	}()

	s.clock = p.newClock(p.opts.Period)
	for {
		if err := ctx.Err(); err != nil {
			log.Debugf("stopped at clock frame %d: %v", s.clock.Frame(), err)
			return s.stats, err
		}
		p.watchAudio(s)

		more, err := p.step(s)
		if err != nil {
			return s.stats, err
		}
		if !more {
			return s.stats, nil
		}
	}
}

// step decodes, draws and paces one frame.
func (p *Player) step(s *Session) (bool, error) {
	log := logger.Log.WithField("scope", "player")
	now := time.Now()

	b, err := s.src.Next()
	switch {
	case err == nil:
	case errors.Is(err, container.ErrEndOfStream):
		log.Infof("==== END ==== %d frames", s.stats.Frames)
		return false, nil
	case errors.Is(err, container.ErrTruncated):
		log.Warnf("stream ended mid-frame after %d frames: %v", s.stats.Frames, err)
		s.stats.Truncated = true
		return false, nil
	default:
		return false, fmt.Errorf("reading frame %d: %w", s.stats.Frames+1, err)
	}

	if cols, rows, err := p.term.Size(); err == nil && cols > 1 && rows > 1 {
		s.cols, s.rows = cols, rows
	}
	// keep the last column and row free so the trailing newline never scrolls
	grid := braille.Fit(b.Width, b.Height, s.cols-1, s.rows-1)
	text := braille.Render(b, grid)

	n := s.stats.Frames + 1
	_, _ = s.out.WriteString(cursorHome)
	if p.opts.ClearEvery > 0 && n%p.opts.ClearEvery == 0 {
		_, _ = s.out.WriteString(clearScreen)
	}
	_, _ = s.out.WriteString(text)
	_, _ = s.out.WriteString("\n")

	took := time.Since(now)
	if p.opts.ShowStats {
		fmt.Fprintf(s.out, "%s%7dframe | dur: %v", cursorHome, n, took.Round(time.Microsecond))
	}
	if err := s.out.Flush(); err != nil {
		return false, fmt.Errorf("writing frame %d: %w", n, err)
	}

	s.stats.Frames = n
	p.metrics.FramesRendered.Inc()
	p.metrics.RenderDuration.Observe(took.Seconds())

	slept, late := s.clock.Advance(s.ctx)
	s.stats.Slept += slept
	if late {
		s.stats.Late++
		p.metrics.FramesLate.Inc()
	}
	return true, nil
}

func (p *Player) watchAudio(s *Session) {
	if s.audio == nil || s.audioSeen {
		return
	}
	select {
	case <-s.audio.Done():
		s.audioSeen = true
		if err := s.audio.Err(); err != nil {
			p.metrics.AudioFailures.Inc()
			logger.Log.WithField("scope", "player").Warnf("audio stopped, video continues: %v", err)
		}
	default:
	}
}
