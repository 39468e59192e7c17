package storage

import (
	"errors"
	"image"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 4, 4))); err != nil {
		t.Fatal(err)
	}
}

func TestCountFrames(t *testing.T) {
	dir := t.TempDir()
	for _, idx := range []int{1, 2, 4, 10} {
		writePNG(t, FramePath(dir, idx))
	}
	// ignored entries
	writePNG(t, filepath.Join(dir, "cover.png"))
	writePNG(t, filepath.Join(dir, "0.png"))
	if err := os.WriteFile(filepath.Join(dir, "20.txt"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.Mkdir(filepath.Join(dir, "30.png"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := CountFrames(dir)
	if err != nil {
		t.Fatal(err)
	}
	if got != 10 {
		t.Errorf("got %d, want 10", got)
	}
}

func TestCountFramesMissingDir(t *testing.T) {
	_, err := CountFrames(filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, ErrNoFramesDir) {
		t.Errorf("got %v, want ErrNoFramesDir", err)
	}
}

func TestFrameRead(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, FramePath(dir, 1))

	img, err := FrameRead(FramePath(dir, 1))
	if err != nil {
		t.Fatal(err)
	}
	if img.Bounds().Dx() != 4 {
		t.Errorf("width %d, want 4", img.Bounds().Dx())
	}

	if _, err := FrameRead(FramePath(dir, 2)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("got %v, want not exist", err)
	}
}

func TestCreateOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "movie.zst")

	f, commit, err := CreateOutput(path)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.WriteString("data"); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Fatal("output visible before commit")
	}
	if err := commit(); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "data" {
		t.Errorf("got %q", data)
	}
}
