package core

import (
	"fmt"
	"time"

	"github.com/klauspost/compress/dict"
	"github.com/klauspost/compress/zstd"

	cfg "github.com/1F47E/go-dotreel/pkg/config"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/storage"
)

// TrainDictionary builds a zstd dictionary from up to DictSampleLimit payloads spread
// evenly over the frames dir and saves it to the configured dictionary path.
func (c *Core) TrainDictionary() error {
	log := logger.Log.WithField("scope", "core dict")
	started := time.Now()

	count, err := storage.CountFrames(c.cfg.FramesDir)
	if err != nil {
		return err
	}
	if count == 0 {
		return fmt.Errorf("%w: %s has no numbered frames", ErrNoFrames, c.cfg.FramesDir)
	}

	step := max(1, count/cfg.DictSampleLimit)
	var indices []int
	for idx := 1; idx <= count; idx += step {
		indices = append(indices, idx)
	}

	var samples [][]byte
	for _, ch := range c.loadFrames(indices) {
		select {
		case <-c.ctx.Done():
			return c.ctx.Err()
		case res := <-ch:
			if res.Err != nil {
				log.Debugf("frame %d not sampled: %v", res.Idx, res.Err)
				continue
			}
			samples = append(samples, res.Bitmap.Bits)
		}
	}
	if len(samples) == 0 {
		return fmt.Errorf("%w: no readable frames to sample", ErrNoFrames)
	}
	log.Infof("training dictionary on %d frames", len(samples))

	d, err := dict.BuildZstdDict(samples, dict.Options{
		MaxDictSize: cfg.DictMaxSize,
		HashBytes:   6,
		ZstdLevel:   zstd.EncoderLevelFromZstd(cfg.CompressionLevel),
	})
	if err != nil {
		return fmt.Errorf("building dictionary: %w", err)
	}

	out, commit, err := storage.CreateOutput(c.cfg.Dictionary)
	if err != nil {
		return err
	}
	if _, err := out.Write(d); err != nil {
		storage.Discard(out)
		return fmt.Errorf("writing dictionary: %w", err)
	}
	if err := commit(); err != nil {
		storage.Discard(out)
		return fmt.Errorf("saving dictionary: %w", err)
	}
	log.Infof("dictionary of %d bytes saved to %s in %s", len(d), c.cfg.Dictionary, time.Since(started).Round(time.Millisecond))
	return nil
}
