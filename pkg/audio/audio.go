// Package audio plays the soundtrack next to the video. Playback is open-loop: the
// player starts it once and only watches whether it finished or failed.
package audio

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"

	"github.com/1F47E/go-dotreel/pkg/logger"
)

var ErrUnsupportedFormat = errors.New("audio: unsupported format")

type Player interface {
	Play(ctx context.Context, path string) error
}

// BeepPlayer decodes mp3 and wav files and plays them on the default output device.
type BeepPlayer struct {
	// Buffer is the speaker buffer length, 100ms when zero.
	Buffer time.Duration
}

func (p BeepPlayer) Play(ctx context.Context, path string) error {
	log := logger.Log.WithField("scope", "audio")

	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("audio: %w", err)
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		f.Close()
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		f.Close()
		return fmt.Errorf("audio: decoding %s: %w", path, err)
	}
	defer streamer.Close()

	buffer := p.Buffer
	if buffer <= 0 {
		buffer = 100 * time.Millisecond
	}
	if err := speaker.Init(format.SampleRate, format.SampleRate.N(buffer)); err != nil {
		return fmt.Errorf("audio: opening output: %w", err)
	}
	log.Debugf("playing %s at %d Hz, %d channels", path, format.SampleRate, format.NumChannels)

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))

	select {
	case <-done:
		return streamer.Err()
	case <-ctx.Done():
		speaker.Clear()
		return nil
	}
}

// Task is one supervised run of a Player.
type Task struct {
	done chan struct{}
	err  error
}

// Start runs p on its own goroutine. A failure or panic in p ends the task only.
// An empty path gives a task that is already done.
func Start(ctx context.Context, p Player, path string) *Task {
	t := &Task{done: make(chan struct{})}
	if path == "" {
		close(t.done)
		return t
	}

	go func() {
		defer close(t.done)
		defer func() {
			if r := recover(); r != nil {
				t.err = fmt.Errorf("audio: panic: %v", r)
			}
		}()
		t.err = p.Play(ctx, path)
	}()
	return t
}

// Done is closed when playback ends for any reason.
func (t *Task) Done() <-chan struct{} {
	return t.done
}

// Err is valid once Done is closed.
func (t *Task) Err() error {
	select {
	case <-t.done:
		return t.err
	default:
		return nil
	}
}

// Wait blocks until the task ends or ctx is done.
func (t *Task) Wait(ctx context.Context) error {
	select {
	case <-t.done:
		return t.err
	case <-ctx.Done():
		return ctx.Err()
	}
}
