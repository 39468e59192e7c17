package container

import (
	"errors"
	"fmt"
	"io"

	"github.com/klauspost/compress/zstd"

	"github.com/1F47E/go-dotreel/pkg/frame"
	"github.com/1F47E/go-dotreel/pkg/logger"
)

var (
	// ErrEndOfStream is the normal end: no bytes left at a frame boundary.
	ErrEndOfStream = errors.New("container: end of stream")
	// ErrTruncated means the stream stopped inside a frame.
	ErrTruncated = errors.New("container: stream truncated mid-frame")
)

// Reader yields fixed-size payloads after the header. It is not safe for concurrent use.
type Reader struct {
	zr     *zstd.Decoder
	hdr    Header
	frames int
}

// NewReader reads the header right away. Untagged legacy streams are rejected with
// ErrLegacyFormat unless allowLegacy is set.
func NewReader(r io.Reader, dict []byte, allowLegacy bool) (*Reader, error) {
	zr, err := zstd.NewReader(r, decoderOptions(dict)...)
	if err != nil {
		return nil, fmt.Errorf("creating zstd decoder: %w", err)
	}

	hdr, err := ReadHeader(zr)
	if err != nil {
		zr.Close()
		return nil, err
	}
	if hdr.Legacy() {
		if !allowLegacy {
			zr.Close()
			return nil, fmt.Errorf("%w (%dx%d)", ErrLegacyFormat, hdr.Width, hdr.Height)
		}
		logger.Log.WithField("scope", "container").Warnf("playing legacy container %s, packing is unverified", hdr)
	}

	return &Reader{zr: zr, hdr: hdr}, nil
}

func (r *Reader) Header() Header {
	return r.hdr
}

// Frames is the number of complete payloads read so far.
func (r *Reader) Frames() int {
	return r.frames
}

// Next reads one payload into a fresh bitmap.
func (r *Reader) Next() (*frame.Bitmap, error) {
	buf := make([]byte, r.hdr.FrameLen)
	n, err := io.ReadFull(r.zr, buf)
	switch {
	case err == nil:
	case errors.Is(err, io.EOF):
		return nil, ErrEndOfStream
	case errors.Is(err, io.ErrUnexpectedEOF):
		return nil, fmt.Errorf("%w: frame %d has %d of %d bytes", ErrTruncated, r.frames+1, n, len(buf))
	default:
		return nil, fmt.Errorf("reading frame %d: %w", r.frames+1, err)
	}
	r.frames++

	w, h := int(r.hdr.Width), int(r.hdr.Height)
	if r.hdr.Legacy() {
		return legacyBitmap(w, h, buf), nil
	}
	return frame.FromPayload(w, h, buf)
}

// legacyBitmap adapts an untagged payload: a clear bit was a lit pixel and trailing
// pixels that did not fill a byte were never written.
func legacyBitmap(w, h int, payload []byte) *frame.Bitmap {
	b := frame.New(w, h)
	n := copy(b.Bits, payload)
	for i := 0; i < n; i++ {
		b.Bits[i] = ^b.Bits[i]
	}
	return b
}

func (r *Reader) Close() {
	r.zr.Close()
}
