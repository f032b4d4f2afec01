// Package diagnostics turns an mcerr error plus the source text it came
// from into the single-line `file:line:col: message` reports the CLI
// prints, colourising the `error:` tag when stdout is a terminal, checked
// with github.com/mattn/go-isatty before emitting ANSI escapes.
package diagnostics

import (
	"fmt"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

const (
	ansiRed   = "\x1b[31m"
	ansiReset = "\x1b[0m"
)

// colorEnabled gates on NO_COLOR + isatty: no color when NO_COLOR is set, or
// when stdout is neither a real nor a Cygwin terminal.
func colorEnabled() bool {
	if _, ok := os.LookupEnv("NO_COLOR"); ok {
		return false
	}
	fd := os.Stdout.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Ranged is satisfied by anything carrying a byte range — every mcerr
// variant that knows where it happened, and every ast.Node.
type Ranged interface {
	Range() (begin, end int)
}

// lineCol converts a byte offset in src into a 1-based (line, column) pair.
func lineCol(src string, offset int) (line, col int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + strings.Count(src[:offset], "\n")
	if idx := strings.LastIndexByte(src[:offset], '\n'); idx >= 0 {
		col = offset - idx
	} else {
		col = offset + 1
	}
	return line, col
}

// Format renders err as "file:line:col: error: message", using begin to
// locate the position within src. If err does not implement Ranged, only
// "file: error: message" is produced.
func Format(file, src string, err error) string {
	tag := "error:"
	if colorEnabled() {
		tag = ansiRed + "error:" + ansiReset
	}
	if r, ok := err.(Ranged); ok {
		begin, _ := r.Range()
		line, col := lineCol(src, begin)
		return fmt.Sprintf("%s:%d:%d: %s %s", file, line, col, tag, err.Error())
	}
	return fmt.Sprintf("%s: %s %s", file, tag, err.Error())
}
