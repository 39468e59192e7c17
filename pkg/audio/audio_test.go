package audio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type playerFunc func(ctx context.Context, path string) error

func (f playerFunc) Play(ctx context.Context, path string) error {
	return f(ctx, path)
}

func wait(t *testing.T, task *Task) error {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := task.Wait(ctx)
	if errors.Is(err, context.DeadlineExceeded) {
		t.Fatal("task did not finish")
	}
	return err
}

func TestStartSuccess(t *testing.T) {
	var got string
	task := Start(context.Background(), playerFunc(func(_ context.Context, path string) error {
		got = path
		return nil
	}), "track.mp3")

	if err := wait(t, task); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "track.mp3" {
		t.Errorf("played %q", got)
	}
	if task.Err() != nil {
		t.Errorf("Err() = %v", task.Err())
	}
}

func TestStartIsolatesFailures(t *testing.T) {
	boom := errors.New("boom")
	testCases := []struct {
		name   string
		player Player
	}{
		{
			name:   "error",
			player: playerFunc(func(context.Context, string) error { return boom }),
		},
		{
			name:   "panic",
			player: playerFunc(func(context.Context, string) error { panic("codec exploded") }),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			task := Start(context.Background(), tc.player, "track.mp3")
			if err := wait(t, task); err == nil {
				t.Fatal("expected an error")
			}
			if task.Err() == nil {
				t.Error("Err() must report the failure after Done")
			}
		})
	}
}

func TestStartEmptyPath(t *testing.T) {
	called := false
	task := Start(context.Background(), playerFunc(func(context.Context, string) error {
		called = true
		return nil
	}), "")

	select {
	case <-task.Done():
	default:
		t.Fatal("task with no audio must be done immediately")
	}
	if called {
		t.Error("player must not run without a path")
	}
}

func TestErrBeforeDone(t *testing.T) {
	release := make(chan struct{})
	task := Start(context.Background(), playerFunc(func(context.Context, string) error {
		<-release
		return errors.New("late")
	}), "track.mp3")

	if task.Err() != nil {
		t.Error("Err() must be nil while running")
	}
	close(release)
	_ = wait(t, task)
}

func TestStopOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	task := Start(ctx, playerFunc(func(ctx context.Context, _ string) error {
		<-ctx.Done()
		return nil
	}), "track.mp3")
	cancel()
	if err := wait(t, task); err != nil {
		t.Errorf("unexpected error: %v", err)
	}
}

func TestBeepPlayerFileErrors(t *testing.T) {
	dir := t.TempDir()

	err := BeepPlayer{}.Play(context.Background(), filepath.Join(dir, "missing.mp3"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Errorf("missing file: got %v", err)
	}

	ogg := filepath.Join(dir, "track.ogg")
	if err := os.WriteFile(ogg, []byte("OggS"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (BeepPlayer{}).Play(context.Background(), ogg); !errors.Is(err, ErrUnsupportedFormat) {
		t.Errorf("ogg: got %v, want ErrUnsupportedFormat", err)
	}

	bad := filepath.Join(dir, "track.wav")
	if err := os.WriteFile(bad, []byte("not a wav"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := (BeepPlayer{}).Play(context.Background(), bad); err == nil {
		t.Error("corrupt wav: expected an error")
	}
}
