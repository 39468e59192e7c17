package core

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/1F47E/go-dotreel/internal/video"
	p "github.com/1F47E/go-dotreel/pkg/core/progress"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/storage"
)

// Extract splits videoFile into numbered grayscale frames and the audio track, the
// inputs Compress and Decode expect. Both ffmpeg runs go in parallel.
func (c *Core) Extract(videoFile string) error {
	log := logger.Log.WithField("scope", "core extract")

	if _, err := os.Stat(videoFile); err != nil {
		return fmt.Errorf("video: %w", err)
	}
	framesDir, err := storage.CreateFramesDir(c.cfg.FramesDir)
	if err != nil {
		return err
	}

	p.ProgressSpinner("Extracting... ")
	g, ctx := errgroup.WithContext(c.ctx)
	g.Go(func() error {
		log.Infof("Extracting frames to %s...", framesDir)
		if err := video.ExtractFrames(ctx, videoFile, framesDir, c.cfg.FPS); err != nil {
			return fmt.Errorf("Error extracting frames: %w", err)
		}
		return nil
	})
	if c.cfg.Audio != "" {
		g.Go(func() error {
			if err := os.MkdirAll(filepath.Dir(c.cfg.Audio), os.ModePerm); err != nil {
				return err
			}
			log.Infof("Extracting audio to %s...", c.cfg.Audio)
			if err := video.ExtractAudio(ctx, videoFile, c.cfg.Audio); err != nil {
				return fmt.Errorf("Error extracting audio: %w", err)
			}
			return nil
		})
	}
	err = g.Wait()
	p.Finish()
	if err != nil {
		return err
	}

	count, err := storage.CountFrames(framesDir)
	if err != nil {
		return err
	}
	log.Infof("Extracted %d frames", count)
	return nil
}
