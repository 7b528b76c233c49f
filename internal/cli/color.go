package cli

import (
	"io"
	"os"

	"github.com/mattn/go-isatty"
)

const (
	colorReset = "\033[0m"
	colorGreen = "\033[32m"
	colorRed   = "\033[31m"
)

var isTerminalFn = isatty.IsTerminal

// colorEnabled reports whether w is a terminal and NO_COLOR is unset.
func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isTerminalFn(f.Fd())
}

// statusMark returns the "ok" or "FAIL" column for validate.
func statusMark(w io.Writer, ok bool) string {
	mark, color := "ok  ", colorGreen
	if !ok {
		mark, color = "FAIL", colorRed
	}
	if !colorEnabled(w) {
		return mark
	}
	return color + mark + colorReset
}
