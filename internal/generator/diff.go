package generator

import (
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

// DiffOptions configures GenerateDiff. Zero values take defaults.
type DiffOptions struct {
	ContextLines int  // unchanged lines around each change, default 3
	TabWidth     int  // default 4
	Width        int  // line width before truncation, default terminal width
	ShowLineNums bool // old line numbers in the margin
}

var (
	headerStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("22"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("255")).Background(lipgloss.Color("52"))
	lineNumStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Faint(true)
)

type editOp int

const (
	opEqual editOp = iota
	opInsert
	opDelete
)

// edit is one line of the edit script. oldIdx and newIdx are the positions
// in each side at which the edit applies.
type edit struct {
	op     editOp
	oldIdx int
	newIdx int
	text   string
}

// GenerateDiff renders a colored unified diff between old and newer. It
// returns "" when they are identical.
func GenerateDiff(oldPath, newPath string, old, newer []byte, opts *DiffOptions) string {
	o := DiffOptions{}
	if opts != nil {
		o = *opts
	}
	if o.ContextLines <= 0 {
		o.ContextLines = 3
	}
	if o.TabWidth <= 0 {
		o.TabWidth = 4
	}
	if o.Width <= 0 {
		o.Width = terminalWidth()
	}

	a, b := splitLines(string(old)), splitLines(string(newer))
	edits := shortestEdit(a, b)

	hunks := groupHunks(edits, o.ContextLines)
	if len(hunks) == 0 {
		return ""
	}

	var buf strings.Builder
	buf.WriteString(headerStyle.Render("--- "+oldPath) + "\n")
	buf.WriteString(headerStyle.Render("+++ "+newPath) + "\n")
	for _, h := range hunks {
		writeHunk(&buf, edits[h[0]:h[1]], o)
	}
	return buf.String()
}

// Preview diffs every writable output against what is on disk now. A
// missing file diffs against empty content.
func Preview(outputs []desired.FileOutput, resolve func(string) string, opts *DiffOptions) string {
	var buf strings.Builder
	for _, out := range outputs {
		if out.Skipped() {
			continue
		}
		old, _ := os.ReadFile(resolve(out.Path))
		buf.WriteString(GenerateDiff(out.Path, out.Path, old, []byte(out.Content), opts))
	}
	return buf.String()
}

// shortestEdit computes a minimal line edit script with the Myers O(ND)
// algorithm.
func shortestEdit(a, b []string) []edit {
	n, m := len(a), len(b)
	limit := n + m
	off := limit + 1
	v := make([]int, 2*limit+3)
	var trace [][]int

	for d := 0; d <= limit; d++ {
		trace = append(trace, append([]int(nil), v...))
		for k := -d; k <= d; k += 2 {
			var x int
			if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
				x = v[off+k+1]
			} else {
				x = v[off+k-1] + 1
			}
			y := x - k
			for x < n && y < m && a[x] == b[y] {
				x++
				y++
			}
			v[off+k] = x
			if x >= n && y >= m {
				return backtrack(trace, a, b, off)
			}
		}
	}
	return nil
}

func backtrack(trace [][]int, a, b []string, off int) []edit {
	var rev []edit
	x, y := len(a), len(b)

	for d := len(trace) - 1; d >= 0; d-- {
		v := trace[d]
		k := x - y

		prevK := k - 1
		if k == -d || (k != d && v[off+k-1] < v[off+k+1]) {
			prevK = k + 1
		}
		prevX := v[off+prevK]
		prevY := prevX - prevK

		for x > prevX && y > prevY {
			x--
			y--
			rev = append(rev, edit{op: opEqual, oldIdx: x, newIdx: y, text: a[x]})
		}
		if d == 0 {
			break
		}
		if x == prevX {
			y--
			rev = append(rev, edit{op: opInsert, oldIdx: x, newIdx: y, text: b[y]})
		} else {
			x--
			rev = append(rev, edit{op: opDelete, oldIdx: x, newIdx: y, text: a[x]})
		}
	}

	for i, j := 0, len(rev)-1; i < j; i, j = i+1, j-1 {
		rev[i], rev[j] = rev[j], rev[i]
	}
	return rev
}

// groupHunks returns [start, end) ranges of edits: every change plus up to
// context equal lines on each side, with overlapping ranges merged.
func groupHunks(edits []edit, context int) [][2]int {
	var hunks [][2]int
	for i, e := range edits {
		if e.op == opEqual {
			continue
		}
		start, end := max(0, i-context), min(len(edits), i+context+1)
		if n := len(hunks); n > 0 && start <= hunks[n-1][1] {
			hunks[n-1][1] = max(hunks[n-1][1], end)
			continue
		}
		hunks = append(hunks, [2]int{start, end})
	}
	return hunks
}

func writeHunk(buf *strings.Builder, edits []edit, o DiffOptions) {
	var oldCount, newCount int
	for _, e := range edits {
		if e.op != opInsert {
			oldCount++
		}
		if e.op != opDelete {
			newCount++
		}
	}
	header := fmt.Sprintf("@@ -%d,%d +%d,%d @@", edits[0].oldIdx+1, oldCount, edits[0].newIdx+1, newCount)
	buf.WriteString(hunkStyle.Render(header) + "\n")

	for _, e := range edits {
		text := truncate(expandTabs(e.text, o.TabWidth), o.Width-10)

		var line string
		switch e.op {
		case opInsert:
			line = addedStyle.Render("+" + text)
		case opDelete:
			line = removedStyle.Render("-" + text)
		default:
			line = " " + text
		}

		if o.ShowLineNums {
			num := "    "
			if e.op != opInsert {
				num = fmt.Sprintf("%4d", e.oldIdx+1)
			}
			line = lineNumStyle.Render(num) + " " + line
		}
		buf.WriteString(line + "\n")
	}
}

// splitLines splits s into lines; a final newline does not start a line.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(strings.TrimSuffix(s, "\n"), "\n")
}

func expandTabs(s string, width int) string {
	if !strings.Contains(s, "\t") {
		return s
	}
	var b strings.Builder
	col := 0
	for _, r := range s {
		if r == '\t' {
			pad := width - col%width
			b.WriteString(strings.Repeat(" ", pad))
			col += pad
			continue
		}
		b.WriteRune(r)
		col++
	}
	return b.String()
}

func truncate(s string, width int) string {
	if width < 4 {
		width = 80
	}
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	return string([]rune(s)[:width-3]) + "..."
}

func terminalWidth() int {
	if w, _, err := term.GetSize(int(os.Stdout.Fd())); err == nil && w > 0 {
		return w
	}
	return 80
}
