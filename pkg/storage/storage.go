// All frame files related functions
package storage

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

var ErrNoFramesDir = errors.New("frames dir not found")

// FramePath is the file of frame idx, counting from 1.
func FramePath(dir string, idx int) string {
	return filepath.Join(dir, strconv.Itoa(idx)+".png")
}

func CreateFramesDir(dir string) (string, error) {
	err := os.MkdirAll(dir, os.ModePerm)
	if err != nil {
		return dir, fmt.Errorf("Error creating frames dir: %w", err)
	}
	return dir, nil
}

// CountFrames returns the highest frame index in dir, which is the frame count hint
// for the encoder. Gaps are allowed.
func CountFrames(dir string) (int, error) {
	files, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return 0, fmt.Errorf("%w: %s", ErrNoFramesDir, dir)
	}
	if err != nil {
		return 0, err
	}
	last := 0
	for _, file := range files {
		if file.IsDir() {
			continue
		}
		name, ok := strings.CutSuffix(file.Name(), ".png")
		if !ok {
			continue
		}
		idx, err := strconv.Atoi(name)
		if err != nil || idx < 1 {
			continue
		}
		last = max(last, idx)
	}
	return last, nil
}

func FrameRead(filename string) (image.Image, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()
	img, err := png.Decode(file)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", filename, err)
	}
	return img, nil
}

// CreateOutput opens path for writing next to a temp name and returns a commit func
// that moves it into place. Until commit is called the previous file is untouched.
func CreateOutput(path string) (*os.File, func() error, error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, nil, fmt.Errorf("creating %s: %w", dir, err)
	}
	tmpFile, err := os.CreateTemp(dir, "."+filepath.Base(path)+"-")
	if err != nil {
		return nil, nil, err
	}
	commit := func() error {
		err := tmpFile.Sync()
		if err != nil {
			return err
		}
		err = tmpFile.Close()
		if err != nil {
			return err
		}
		return os.Rename(tmpFile.Name(), path)
	}
	return tmpFile, commit, nil
}

// Discard removes an output that was never committed.
func Discard(f *os.File) {
	_ = f.Close()
	_ = os.Remove(f.Name())
}
