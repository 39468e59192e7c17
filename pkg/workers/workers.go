package workers

import (
	"context"
	"fmt"
	"time"

	"github.com/1F47E/go-dotreel/pkg/frame"
	"github.com/1F47E/go-dotreel/pkg/job"
	"github.com/1F47E/go-dotreel/pkg/logger"
	"github.com/1F47E/go-dotreel/pkg/storage"
)

var log = logger.Log

type Worker struct {
	ctx       context.Context
	threshold uint8
	invert    bool
}

func NewWorker(ctx context.Context, threshold uint8, invert bool) *Worker {
	return &Worker{
		ctx:       ctx,
		threshold: threshold,
		invert:    invert,
	}
}

// WorkerLoad reads and thresholds frames. The result of job j goes to resChs[j.Idx-1]
// so the writer can consume them in frame order whatever order workers finish in.
// Failures are reported in the result, never fatal.
func (w *Worker) WorkerLoad(id int, jobs <-chan job.JobLoad, resChs []chan job.JobLoadRes) {
	name := fmt.Sprintf("WorkerLoad #%d", id)
	log.Debugf("%s started", name)
	defer log.Debugf("%s finished", name)

	for {
		select {
		case <-w.ctx.Done():
			return
		case j, ok := <-jobs:
			if !ok {
				return
			}
			log.Debugf("%s got %s", name, j.Print())

			now := time.Now()
			res := job.JobLoadRes{Idx: j.Idx}
			img, err := storage.FrameRead(j.File)
			if err != nil {
				res.Err = err
			} else {
				res.Bitmap = frame.Threshold(img, w.threshold, w.invert)
			}
			log.Debugf("%s frame %d done. Took time: %s", name, j.Idx, time.Since(now))

			// buffered by 1, never blocks
			resChs[j.Idx-1] <- res
		}
	}
}
