package workers

import (
	"context"
	"errors"
	"image"
	"image/png"
	"os"
	"testing"

	"github.com/1F47E/go-dotreel/pkg/job"
	"github.com/1F47E/go-dotreel/pkg/storage"
)

func TestWorkerLoadOrdersResults(t *testing.T) {
	dir := t.TempDir()
	for _, idx := range []int{1, 3} {
		img := image.NewGray(image.Rect(0, 0, 8, 2))
		img.Pix[0] = 255
		f, err := os.Create(storage.FramePath(dir, idx))
		if err != nil {
			t.Fatal(err)
		}
		if err := png.Encode(f, img); err != nil {
			t.Fatal(err)
		}
		f.Close()
	}

	resChs := make([]chan job.JobLoadRes, 3)
	for i := range resChs {
		resChs[i] = make(chan job.JobLoadRes, 1)
	}
	jobs := make(chan job.JobLoad)

	w := NewWorker(context.Background(), 128, false)
	for i := 1; i <= 2; i++ {
		go w.WorkerLoad(i, jobs, resChs)
	}
	for idx := 3; idx >= 1; idx-- {
		jobs <- job.New(storage.FramePath(dir, idx), idx)
	}
	close(jobs)

	for i, ch := range resChs {
		res := <-ch
		if res.Idx != i+1 {
			t.Fatalf("channel %d got frame %d", i, res.Idx)
		}
		if i == 1 {
			if !errors.Is(res.Err, os.ErrNotExist) {
				t.Errorf("frame 2: got %v, want not exist", res.Err)
			}
			continue
		}
		if res.Err != nil {
			t.Fatalf("frame %d: %v", res.Idx, res.Err)
		}
		if !res.Bitmap.On(0, 0) || res.Bitmap.On(1, 0) {
			t.Errorf("frame %d: threshold not applied", res.Idx)
		}
	}
}

func TestWorkerLoadStopsOnCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		NewWorker(ctx, 128, false).WorkerLoad(1, make(chan job.JobLoad), nil)
		close(done)
	}()
	cancel()
	<-done
}
