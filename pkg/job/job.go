package job

import (
	"fmt"

	"github.com/1F47E/go-dotreel/pkg/frame"
)

// job for the loading worker
type JobLoad struct {
	File string
	Idx  int // frame number, from 1
}

// res from the loading worker
type JobLoadRes struct {
	Idx    int
	Bitmap *frame.Bitmap
	Err    error
}

func New(file string, idx int) JobLoad {
	return JobLoad{File: file, Idx: idx}
}

func (j *JobLoad) Print() string {
	return fmt.Sprintf("Job: Frame: %d, File: %s", j.Idx, j.File)
}

func (r *JobLoadRes) Print() string {
	if r.Err != nil {
		return fmt.Sprintf("Res: Frame: %d, Err: %v", r.Idx, r.Err)
	}
	return fmt.Sprintf("Res: Frame: %d, %dx%d, %d bytes", r.Idx, r.Bitmap.Width, r.Bitmap.Height, len(r.Bitmap.Bits))
}
