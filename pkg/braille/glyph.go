// Package braille draws 1-bit images as Unicode braille text, one 2x4 dot block per
// character cell.
package braille

const (
	Blank Glyph = 0x2800
	Full  Glyph = 0x28ff
)

// Glyph is a braille codepoint. It can only be built from an 8-bit dot mask, so it is
// always within U+2800..U+28FF.
type Glyph rune

// dots maps a mask bit to its (dx, dy) offset inside the cell:
//
//	1 4      bit0 bit3
//	2 5  ->  bit1 bit4
//	3 6      bit2 bit5
//	7 8      bit6 bit7
var dots = [8]struct{ dx, dy int }{
	{0, 0},
	{0, 1},
	{0, 2},
	{1, 0},
	{1, 1},
	{1, 2},
	{0, 3},
	{1, 3},
}

func GlyphOf(mask uint8) Glyph {
	return Blank + Glyph(mask)
}

func (g Glyph) Mask() uint8 {
	return uint8(g - Blank)
}

func (g Glyph) Rune() rune {
	return rune(g)
}

func (g Glyph) String() string {
	return string(rune(g))
}

// Bit returns the mask bit that lights the dot at (dx, dy), dx in 0..1 and dy in 0..3.
func Bit(dx, dy int) uint8 {
	for i, d := range dots {
		if d.dx == dx && d.dy == dy {
			return 1 << uint(i)
		}
	}
	return 0
}
