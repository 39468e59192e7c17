// Package frame holds the 1-bit pixel model shared by the encoder, the container and
// the player.
//
// Pixels are packed 8 per byte, row-major, most significant bit first. A set bit is an
// "on" pixel, a dot on the terminal.
package frame

import (
	"fmt"
	"image"
	"image/color"
)

type Bitmap struct {
	Width  int
	Height int
	Bits   []byte
}

// PayloadSize is the number of bytes a width x height bitmap packs into.
func PayloadSize(width, height int) int {
	return (width*height + 7) / 8
}

func New(width, height int) *Bitmap {
	return &Bitmap{
		Width:  width,
		Height: height,
		Bits:   make([]byte, PayloadSize(width, height)),
	}
}

// FromPayload wraps payload without copying it.
func FromPayload(width, height int, payload []byte) (*Bitmap, error) {
	if want := PayloadSize(width, height); len(payload) != want {
		return nil, fmt.Errorf("payload is %d bytes, %dx%d needs %d", len(payload), width, height, want)
	}
	return &Bitmap{Width: width, Height: height, Bits: payload}, nil
}

func (b *Bitmap) Size() (int, int) {
	return b.Width, b.Height
}

func (b *Bitmap) On(x, y int) bool {
	if x < 0 || y < 0 || x >= b.Width || y >= b.Height {
		return false
	}
	i := y*b.Width + x
	return b.Bits[i>>3]&(0x80>>uint(i&7)) != 0
}

func (b *Bitmap) Set(x, y int, on bool) {
	i := y*b.Width + x
	mask := byte(0x80 >> uint(i&7))
	if on {
		b.Bits[i>>3] |= mask
	} else {
		b.Bits[i>>3] &^= mask
	}
}

// Pack turns row-major booleans into the canonical payload.
// Unused bits of the last byte stay zero.
func Pack(bits []bool) []byte {
	out := make([]byte, (len(bits)+7)/8)
	for i, on := range bits {
		if on {
			// buf[i/8]:  0 0 0 0 0 0 0 0
			// 0x80>>3:   0 0 0 1 0 0 0 0
			//                  ^ pixel i=3 of this byte
			out[i>>3] |= 0x80 >> uint(i&7)
		}
	}
	return out
}

// Unpack is the inverse of Pack for the first n pixels.
func Unpack(payload []byte, n int) []bool {
	bits := make([]bool, n)
	for i := range bits {
		bits[i] = payload[i>>3]&(0x80>>uint(i&7)) != 0
	}
	return bits
}

// Threshold converts img to a bitmap. A pixel is on when its luminance is at or above
// threshold, or below it when invert is set.
func Threshold(img image.Image, threshold uint8, invert bool) *Bitmap {
	r := img.Bounds()
	b := New(r.Dx(), r.Dy())

	switch src := img.(type) {
	case *image.Gray:
		for y := 0; y < b.Height; y++ {
			off := src.PixOffset(r.Min.X, r.Min.Y+y)
			row := src.Pix[off : off+b.Width]
			for x, v := range row {
				if (v >= threshold) != invert {
					b.Set(x, y, true)
				}
			}
		}
	default:
		for y := 0; y < b.Height; y++ {
			for x := 0; x < b.Width; x++ {
				v := color.GrayModel.Convert(img.At(r.Min.X+x, r.Min.Y+y)).(color.Gray).Y
				if (v >= threshold) != invert {
					b.Set(x, y, true)
				}
			}
		}
	}
	return b
}
