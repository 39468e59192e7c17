package core

import (
	"errors"
	"fmt"
	"os"
	"time"

	p "github.com/1F47E/go-dotreel/pkg/core/progress"
	"github.com/1F47E/go-dotreel/pkg/container"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/metrics"
	"github.com/1F47E/go-dotreel/pkg/storage"
)

// Compress encodes frames 1..frameCount of the frames dir into the container at path.
// A frameCount of zero or less, or past the highest frame number found in the dir,
// uses that highest number.
//
// 1. load and threshold frames by workers, every result to its own channel
// 2. write payloads in frame order through one zstd session, skipping missing frames
// 3. move the finished container into place
func (c *Core) Compress(path string, frameCount int) error {
	log := logger.Log.WithField("scope", "core encode")
	started := time.Now()

	dict, err := container.LoadDictionary(c.cfg.Dictionary)
	if err != nil {
		return err
	}
	// also fails when the frames dir is missing
	found, err := storage.CountFrames(c.cfg.FramesDir)
	if err != nil {
		return err
	}
	// no frame past the highest one on disk can load
	if frameCount <= 0 || frameCount > found {
		frameCount = found
	}
	if frameCount == 0 {
		return fmt.Errorf("%w: %s has no numbered frames", ErrNoFrames, c.cfg.FramesDir)
	}
	log.Debugf("encoding %d frames from %s", frameCount, c.cfg.FramesDir)

	out, commit, err := storage.CreateOutput(path)
	if err != nil {
		return err
	}
	committed := false
	defer func() {
		if !committed {
			storage.Discard(out)
		}
	}()

	w, err := container.NewWriter(out, dict)
	if err != nil {
		return err
	}

	indices := make([]int, frameCount)
	for i := range indices {
		indices[i] = i + 1
	}
	resChs := c.loadFrames(indices)

	p.ProgressReset(frameCount, "Encoding... ")
	skipped := 0
	// ranging over channels because frames must be written in order
	for _, ch := range resChs {
		select {
		case <-c.ctx.Done():
			log.Debug("Encoder exit")
			return c.ctx.Err()
		case res := <-ch:
			p.Add(1)
			if res.Err != nil {
				skipped++
				reason := metrics.ReasonDecode
				if errors.Is(res.Err, os.ErrNotExist) {
					reason = metrics.ReasonMissing
				}
				c.metrics.FramesSkipped.WithLabelValues(reason).Inc()
				log.Warnf("frame %d skipped: %v", res.Idx, res.Err)
				continue
			}

			err := w.WriteFrame(res.Bitmap)
			if errors.Is(err, container.ErrFrameSize) {
				skipped++
				c.metrics.FramesSkipped.WithLabelValues(metrics.ReasonMismatch).Inc()
				log.Warnf("frame %d skipped: %v", res.Idx, err)
				continue
			}
			if err != nil {
				return err
			}
			c.metrics.FramesEncoded.Inc()
			log.Debugf("%s written", res.Print())
		}
	}
	p.Finish()

	if err := w.Close(); err != nil {
		return err
	}
	if w.Frames() == 0 {
		return fmt.Errorf("%w: all %d frames were skipped", ErrNoFrames, frameCount)
	}
	if err := commit(); err != nil {
		return fmt.Errorf("saving %s: %w", path, err)
	}
	committed = true

	log.Infof("Encoded %d frames (%d skipped, %s) into %s in %s",
		w.Frames(), skipped, w.Header(), path, time.Since(started).Round(time.Millisecond))
	return nil
}
