package diagnostics

import (
	"fmt"
	"testing"
)

type rangedErr struct {
	msg        string
	begin, end int
}

func (e rangedErr) Error() string          { return e.msg }
func (e rangedErr) Range() (int, int)      { return e.begin, e.end }

type plainErr struct{ msg string }

func (e plainErr) Error() string { return e.msg }

func TestLineCol(t *testing.T) {
	src := "abc\ndef\nghi"
	tests := []struct {
		offset   int
		wantLine int
		wantCol  int
	}{
		{0, 1, 1},
		{2, 1, 3},
		{4, 2, 1},
		{7, 3, 1},
		{10, 3, 4},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("offset=%d", tt.offset), func(t *testing.T) {
			line, col := lineCol(src, tt.offset)
			if line != tt.wantLine || col != tt.wantCol {
				t.Errorf("lineCol(%d) = (%d, %d), want (%d, %d)", tt.offset, line, col, tt.wantLine, tt.wantCol)
			}
		})
	}
}

func TestFormatWithRangedError(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	src := "let x = 1;\nlet y = z;"
	err := rangedErr{msg: `variable "z" is not defined`, begin: 19, end: 20}
	got := Format("main.mini", src, err)
	want := `main.mini:2:9: error: variable "z" is not defined`
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestFormatWithoutRange(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	got := Format("main.mini", "source", plainErr{msg: "something went wrong"})
	want := "main.mini: error: something went wrong"
	if got != want {
		t.Errorf("Format() = %q, want %q", got, want)
	}
}

func TestColorEnabledRespectsNoColor(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	if colorEnabled() {
		t.Error("colorEnabled() = true, want false when NO_COLOR is set")
	}
}
