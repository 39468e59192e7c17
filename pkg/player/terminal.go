package player

import (
	"io"
	"os"

	"golang.org/x/term"
)

const (
	hideCursor  = "\x1b[?25l"
	showCursor  = "\x1b[?25h"
	cursorHome  = "\x1b[H"
	clearScreen = "\x1b[2J"
)

// fallback when the size can't be queried, e.g. output is not a tty
const (
	defaultCols = 80
	defaultRows = 24
)

// Terminal is where frames are drawn. Only the render loop writes to it.
type Terminal interface {
	io.Writer
	Size() (cols, rows int, err error)
}

type StdTerminal struct {
	*os.File
}

func Stdout() StdTerminal {
	return StdTerminal{os.Stdout}
}

func (t StdTerminal) Size() (int, int, error) {
	return term.GetSize(int(t.Fd()))
}

// RestoreCursor makes the cursor visible again. It is safe to call more than once.
func RestoreCursor(w io.Writer) {
	_, _ = io.WriteString(w, showCursor)
}
