package container

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/1F47E/go-dotreel/pkg/frame"
)

const (
	Version = 1

	// PackingMSB8 is 1 bit per pixel, 8 pixels per byte, MSB first, row-major.
	PackingMSB8 = 1

	// tagged header: magic(4) version(2) packing(2) width(4) height(4) frame_len(8)
	headerSize = 24
	// untagged header: width(4) height(4) frame_len(4)
	legacyHeaderSize = 12
)

var magic = [4]byte{'D', 'T', 'R', 'L'}

var (
	ErrBadHeader    = errors.New("container: bad header")
	ErrLegacyFormat = errors.New("container: legacy untagged container")
	ErrEmpty        = errors.New("container: stream is empty")
)

// Header is written once at the start of a stream. Every payload that follows is
// exactly FrameLen bytes.
type Header struct {
	Version  uint16
	Packing  uint16
	Width    uint32
	Height   uint32
	FrameLen uint64
}

func NewHeader(width, height int) Header {
	return Header{
		Version:  Version,
		Packing:  PackingMSB8,
		Width:    uint32(width),
		Height:   uint32(height),
		FrameLen: uint64(frame.PayloadSize(width, height)),
	}
}

// Legacy reports whether the header came from an untagged stream.
func (h Header) Legacy() bool {
	return h.Version == 0
}

func (h Header) String() string {
	return fmt.Sprintf("v%d %dx%d, %d bytes/frame", h.Version, h.Width, h.Height, h.FrameLen)
}

func (h Header) Validate() error {
	if h.Width == 0 || h.Height == 0 {
		return fmt.Errorf("%w: empty frame size %dx%d", ErrBadHeader, h.Width, h.Height)
	}
	if h.Legacy() {
		// trailing bits may be missing, never more than the bitmap holds
		if limit := uint64(frame.PayloadSize(int(h.Width), int(h.Height))); h.FrameLen == 0 || h.FrameLen > limit {
			return fmt.Errorf("%w: legacy frame length %d, %dx%d holds at most %d", ErrBadHeader, h.FrameLen, h.Width, h.Height, limit)
		}
		return nil
	}
	if h.Version != Version {
		return fmt.Errorf("%w: unsupported version %d", ErrBadHeader, h.Version)
	}
	if h.Packing != PackingMSB8 {
		return fmt.Errorf("%w: unsupported packing %d", ErrBadHeader, h.Packing)
	}
	if want := uint64(frame.PayloadSize(int(h.Width), int(h.Height))); h.FrameLen != want {
		return fmt.Errorf("%w: frame length %d, %dx%d needs %d", ErrBadHeader, h.FrameLen, h.Width, h.Height, want)
	}
	return nil
}

func (h Header) MarshalBinary() ([]byte, error) {
	buf := make([]byte, headerSize)
	copy(buf[0:4], magic[:])
	binary.LittleEndian.PutUint16(buf[4:6], h.Version)
	binary.LittleEndian.PutUint16(buf[6:8], h.Packing)
	binary.LittleEndian.PutUint32(buf[8:12], h.Width)
	binary.LittleEndian.PutUint32(buf[12:16], h.Height)
	binary.LittleEndian.PutUint64(buf[16:24], h.FrameLen)
	return buf, nil
}

// ReadHeader reads either header generation from r.
func ReadHeader(r io.Reader) (Header, error) {
	var h Header

	first := make([]byte, 4)
	if _, err := io.ReadFull(r, first); err != nil {
		if errors.Is(err, io.EOF) {
			return h, ErrEmpty
		}
		return h, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}

	if !bytes.Equal(first, magic[:]) {
		// untagged: the first word is the width
		rest := make([]byte, legacyHeaderSize-4)
		if _, err := io.ReadFull(r, rest); err != nil {
			return h, fmt.Errorf("%w: %v", ErrBadHeader, err)
		}
		h.Width = binary.LittleEndian.Uint32(first)
		h.Height = binary.LittleEndian.Uint32(rest[0:4])
		h.FrameLen = uint64(binary.LittleEndian.Uint32(rest[4:8]))
		return h, h.Validate()
	}

	rest := make([]byte, headerSize-4)
	if _, err := io.ReadFull(r, rest); err != nil {
		return h, fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	h.Version = binary.LittleEndian.Uint16(rest[0:2])
	h.Packing = binary.LittleEndian.Uint16(rest[2:4])
	h.Width = binary.LittleEndian.Uint32(rest[4:8])
	h.Height = binary.LittleEndian.Uint32(rest[8:12])
	h.FrameLen = binary.LittleEndian.Uint64(rest[12:20])
	return h, h.Validate()
}
