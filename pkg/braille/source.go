package braille

import "image"

// Source is a pixel buffer the rasterizer samples from. frame.Bitmap satisfies it.
type Source interface {
	Size() (width, height int)
	On(x, y int) bool
}

// Luma is a raw 8-bit sample buffer thresholded while it is sampled.
type Luma struct {
	Pix       []byte
	Width     int
	Height    int
	Stride    int
	Threshold uint8
}

// FromGray wraps img without copying its pixels.
func FromGray(img *image.Gray, threshold uint8) *Luma {
	r := img.Bounds()
	return &Luma{
		Pix:       img.Pix[img.PixOffset(r.Min.X, r.Min.Y):],
		Width:     r.Dx(),
		Height:    r.Dy(),
		Stride:    img.Stride,
		Threshold: threshold,
	}
}

func (l *Luma) Size() (int, int) {
	return l.Width, l.Height
}

func (l *Luma) On(x, y int) bool {
	return l.Pix[y*l.Stride+x] >= l.Threshold
}

// Mask is a plain row-major boolean buffer.
type Mask struct {
	Width  int
	Height int
	Bits   []bool
}

func NewMask(width, height int) *Mask {
	return &Mask{Width: width, Height: height, Bits: make([]bool, width*height)}
}

func (m *Mask) Size() (int, int) {
	return m.Width, m.Height
}

func (m *Mask) On(x, y int) bool {
	return m.Bits[y*m.Width+x]
}

func (m *Mask) Set(x, y int, on bool) {
	m.Bits[y*m.Width+x] = on
}
