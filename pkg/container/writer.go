package container

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/1F47E/go-dotreel/pkg/frame"
)

var (
	ErrFrameSize = errors.New("container: frame size differs from header")
	ErrClosed    = errors.New("container: writer closed")
)

// Writer streams a header and fixed-size payloads through one zstd session.
type Writer struct {
	out    *bufio.Writer
	zw     *zstd.Encoder
	hdr    Header
	frames int
	closed bool
}

// NewWriter does not take ownership of w; Close finalizes the stream but leaves w open.
func NewWriter(w io.Writer, dict []byte) (*Writer, error) {
	out := bufio.NewWriter(w)
	zw, err := zstd.NewWriter(out, encoderOptions(dict)...)
	if err != nil {
		return nil, fmt.Errorf("creating zstd encoder: %w", err)
	}
	return &Writer{out: out, zw: zw}, nil
}

// WriteFrame appends b. The first frame fixes the header; later frames must match it.
func (w *Writer) WriteFrame(b *frame.Bitmap) error {
	if w.closed {
		return ErrClosed
	}

	if w.frames == 0 {
		w.hdr = NewHeader(b.Width, b.Height)
		raw, _ := w.hdr.MarshalBinary()
		if _, err := w.zw.Write(raw); err != nil {
			return fmt.Errorf("writing header: %w", err)
		}
	} else if uint32(b.Width) != w.hdr.Width || uint32(b.Height) != w.hdr.Height {
		return fmt.Errorf("%w: got %dx%d, stream is %dx%d", ErrFrameSize, b.Width, b.Height, w.hdr.Width, w.hdr.Height)
	}

	if uint64(len(b.Bits)) != w.hdr.FrameLen {
		return fmt.Errorf("%w: payload %d bytes, want %d", ErrFrameSize, len(b.Bits), w.hdr.FrameLen)
	}
	if _, err := w.zw.Write(b.Bits); err != nil {
		return fmt.Errorf("writing frame %d: %w", w.frames+1, err)
	}
	w.frames++
	return nil
}

// Header is the zero value until the first frame is written.
func (w *Writer) Header() Header {
	return w.hdr
}

func (w *Writer) Frames() int {
	return w.frames
}

// Close finalizes the zstd session once and flushes it.
func (w *Writer) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	if err := w.zw.Close(); err != nil {
		return fmt.Errorf("finishing zstd stream: %w", err)
	}
	return w.out.Flush()
}
