package core

import (
	"context"
	"errors"
	"runtime"
	"sync"

	"github.com/1F47E/go-dotreel/pkg/audio"
	"github.com/1F47E/go-dotreel/pkg/config"
	"github.com/1F47E/go-dotreel/pkg/job"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/metrics"
	"github.com/1F47E/go-dotreel/pkg/player"
	"github.com/1F47E/go-dotreel/pkg/storage"
	"github.com/1F47E/go-dotreel/pkg/workers"
)

var ErrNoFrames = errors.New("no frames encoded")

type Core struct {
	ctx     context.Context
	cfg     config.Config
	worker  *workers.Worker
	metrics *metrics.Metrics
	term    player.Terminal
	audio   audio.Player
}

type Option func(*Core)

func WithTerminal(t player.Terminal) Option {
	return func(c *Core) { c.term = t }
}

func WithAudioPlayer(p audio.Player) Option {
	return func(c *Core) { c.audio = p }
}

func NewCore(ctx context.Context, cfg config.Config, m *metrics.Metrics, opts ...Option) *Core {
	if m == nil {
		m = metrics.New(nil)
	}
	c := &Core{
		ctx:     ctx,
		cfg:     cfg,
		worker:  workers.NewWorker(ctx, uint8(cfg.Threshold), cfg.Invert),
		metrics: m,
		term:    player.Stdout(),
		audio:   audio.BeepPlayer{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *Core) workers() int {
	if c.cfg.Workers > 0 {
		return c.cfg.Workers
	}
	return runtime.NumCPU()
}

// loadFrames starts the worker pool over the given frame indices and returns one
// result channel per index, in the same order. The pool stops when all jobs are done
// or the core context ends.
func (c *Core) loadFrames(indices []int) []chan job.JobLoadRes {
	log := logger.Log.WithField("scope", "core load")

	// workers address results by frame number, so size for the highest one
	last := 0
	for _, idx := range indices {
		last = max(last, idx)
	}
	byIdx := make([]chan job.JobLoadRes, last)
	resChs := make([]chan job.JobLoadRes, len(indices))
	for i, idx := range indices {
		ch := make(chan job.JobLoadRes, 1)
		byIdx[idx-1] = ch
		resChs[i] = ch
	}

	n := c.workers()
	jobs := make(chan job.JobLoad, n) // buff by G count
	log.Debugf("Starting %d workers", n)
	wg := sync.WaitGroup{}
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			c.worker.WorkerLoad(id, jobs, byIdx)
		}(i + 1)
	}

	// send all the jobs
	go func() {
		defer close(jobs)
		for _, idx := range indices {
			select {
			case <-c.ctx.Done():
				return
			case jobs <- job.New(storage.FramePath(c.cfg.FramesDir, idx), idx):
			}
		}
	}()

	go func() {
		wg.Wait()
		log.Debug("All workers done")
	}()

	return resChs
}
