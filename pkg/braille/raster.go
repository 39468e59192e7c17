package braille

import (
	"runtime"
	"strings"

	"golang.org/x/sync/errgroup"
)

// Grid is a target size in character cells.
type Grid struct {
	Cols int
	Rows int
}

// Pixels is the grid size in dots.
func (g Grid) Pixels() (int, int) {
	return g.Cols * 2, g.Rows * 4
}

// dotSize is the size in dots src is sampled at. An axis the grid holds at native
// size maps 1:1, so the padding dots of the last cell stay off.
func (g Grid) dotSize(src Source) (int, int) {
	srcW, srcH := src.Size()
	pxW, pxH := g.Pixels()
	if ceilDiv(srcW, 2) == g.Cols {
		pxW = srcW
	}
	if ceilDiv(srcH, 4) == g.Rows {
		pxH = srcH
	}
	return pxW, pxH
}

// Cell samples the 2x4 block of cell (px, py) from src, nearest neighbour, with the
// target image being pxW x pxH dots.
func Cell(src Source, px, py, pxW, pxH int) Glyph {
	srcW, srcH := src.Size()

	var mask uint8
	for i, d := range dots {
		x := px*2 + d.dx
		y := py*4 + d.dy

		sx := x * srcW / pxW
		sy := y * srcH / pxH
		if sx < srcW && sy < srcH && src.On(sx, sy) {
			mask |= 1 << uint(i)
		}
	}
	return GlyphOf(mask)
}

// Line renders row py of the grid.
func Line(src Source, g Grid, py int) string {
	pxW, pxH := g.dotSize(src)

	var sb strings.Builder
	sb.Grow(g.Cols * 3)
	for px := 0; px < g.Cols; px++ {
		sb.WriteRune(Cell(src, px, py, pxW, pxH).Rune())
	}
	return sb.String()
}

// Render draws src into g and joins the rows with newlines.
// Rows are computed concurrently; each reads src only.
func Render(src Source, g Grid) string {
	if w, h := src.Size(); w <= 0 || h <= 0 || g.Cols <= 0 || g.Rows <= 0 {
		return ""
	}

	lines := make([]string, g.Rows)

	var eg errgroup.Group
	eg.SetLimit(runtime.GOMAXPROCS(0))
	for py := range lines {
		py := py
		eg.Go(func() error {
			lines[py] = Line(src, g, py)
			return nil
		})
	}
	_ = eg.Wait()

	return strings.Join(lines, "\n")
}
