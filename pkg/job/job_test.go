package job

import (
	"errors"
	"testing"

	"github.com/1F47E/go-dotreel/pkg/frame"
)

func TestPrint(t *testing.T) {
	j := New("frames/3.png", 3)
	if got, want := j.Print(), "Job: Frame: 3, File: frames/3.png"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	testCases := []struct {
		res  JobLoadRes
		want string
	}{
		{JobLoadRes{Idx: 3, Bitmap: frame.New(16, 8)}, "Res: Frame: 3, 16x8, 16 bytes"},
		{JobLoadRes{Idx: 4, Err: errors.New("missing")}, "Res: Frame: 4, Err: missing"},
	}
	for _, tc := range testCases {
		if got := tc.res.Print(); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}
