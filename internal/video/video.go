package video

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/1F47E/go-dotreel/pkg/logger"
)

// ffmpeg binary, replaced in tests
var ffmpeg = "ffmpeg"

// ExtractFrames calls ffmpeg to decode the video into 1.png, 2.png, ... in dir,
// resampled to fps and converted to grayscale.
func ExtractFrames(ctx context.Context, filename, dir string, fps int) error {
	framesPath := filepath.Join(dir, "%d.png")
	args := []string{"-y", "-loglevel", "error", "-i", filename, "-vf", fmt.Sprintf("fps=%d,format=gray", fps), "-start_number", "1", framesPath}
	return run(ctx, args)
}

// ExtractAudio calls ffmpeg to write the audio track of the video to out.
// The container format follows the extension of out.
func ExtractAudio(ctx context.Context, filename, out string) error {
	args := []string{"-y", "-loglevel", "error", "-i", filename, "-vn", out}
	return run(ctx, args)
}

func run(ctx context.Context, args []string) error {
	logger.Log.Debugf("Running ffmpeg command: %s %v", ffmpeg, args)
	cmd := exec.CommandContext(ctx, ffmpeg, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", ffmpeg, err, out)
	}
	return nil
}
