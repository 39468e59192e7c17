package core

import (
	"bufio"
	"context"
	"fmt"
	"os"

	"github.com/1F47E/go-dotreel/pkg/audio"
	"github.com/1F47E/go-dotreel/pkg/container"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/player"
)

// Decode plays the container at path in the terminal while the audio track plays
// alongside. Audio is started once and never waited on.
func (c *Core) Decode(path string) (player.Stats, error) {
	log := logger.Log.WithField("scope", "core decode")

	dict, err := container.LoadDictionary(c.cfg.Dictionary)
	if err != nil {
		return player.Stats{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return player.Stats{}, fmt.Errorf("opening container: %w", err)
	}
	defer f.Close()

	r, err := container.NewReader(bufio.NewReader(f), dict, c.cfg.AllowLegacy)
	if err != nil {
		return player.Stats{}, fmt.Errorf("%s: %w", path, err)
	}
	defer r.Close()
	log.Debugf("container %s: %s", path, r.Header())

	// audio stops with the video, or with the process
	audioCtx, cancel := context.WithCancel(c.ctx)
	defer cancel()
	task := audio.Start(audioCtx, c.audio, c.cfg.Audio)

	pl := player.New(c.term, player.Options{
		Period:     c.cfg.FramePeriod(),
		ClearEvery: c.cfg.ClearEvery,
		ShowStats:  c.cfg.ShowStats,
	}, c.metrics)

	stats, err := pl.Play(c.ctx, r, task)
	log.Debugf("played %d frames, %d late, slept %s", stats.Frames, stats.Late, stats.Slept)
	return stats, err
}
