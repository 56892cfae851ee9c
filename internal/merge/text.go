package merge

import (
	"strings"
	"unicode"

	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

// prepend is the anchor line that inserts before the first line.
const prepend = -1

// insertLines inserts text as new lines after line `after`. Anchors past the
// end append; anchors before the start prepend.
func insertLines(code string, after int, text string) string {
	lines := strings.Split(code, "\n")
	at := after + 1
	if at < 0 {
		at = 0
	}
	if at > len(lines) {
		at = len(lines)
	}

	inserted := strings.Split(text, "\n")
	out := make([]string, 0, len(lines)+len(inserted))
	out = append(out, lines[:at]...)
	out = append(out, inserted...)
	out = append(out, lines[at:]...)
	return strings.Join(out, "\n")
}

// appendBlock adds text after the last line of code.
func appendBlock(code, text string) string {
	switch {
	case code == "":
		return text
	case strings.HasSuffix(code, "\n"):
		return code + "\n" + text + "\n"
	default:
		return code + "\n" + text
	}
}

// offset converts a point to a byte offset, clamped to the code.
func offset(code string, p structure.Point) int {
	off := 0
	for line := 0; line < p.Line; line++ {
		i := strings.IndexByte(code[off:], '\n')
		if i < 0 {
			return len(code)
		}
		off += i + 1
	}
	off += p.Column
	if off > len(code) {
		return len(code)
	}
	return off
}

// spliceAt inserts text at p.
func spliceAt(code string, p structure.Point, text string) string {
	off := offset(code, p)
	return code[:off] + text + code[off:]
}

// textOf returns the code covered by r.
func textOf(code string, r structure.Range) string {
	start, end := offset(code, r.Start), offset(code, r.End)
	if start > end {
		return ""
	}
	return code[start:end]
}

func line(code string, n int) string {
	lines := strings.Split(code, "\n")
	if n < 0 || n >= len(lines) {
		return ""
	}
	return lines[n]
}

func indentOf(s string) string {
	return s[:len(s)-len(strings.TrimLeftFunc(s, unicode.IsSpace))]
}

// squash removes all whitespace so bodies compare regardless of layout.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}
