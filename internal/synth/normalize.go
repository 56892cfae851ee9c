package synth

import (
	"strings"
)

// IndentUnit is one level of indentation in rendered code.
const IndentUnit = "  "

// Normalize collapses runs of spaces and tabs outside string literals, drops
// redundant blank lines and re-indents the text by bracket depth. Lines that
// continue a multi-line template literal are kept exactly as given.
func Normalize(code string) string {
	lines := strings.Split(strings.ReplaceAll(code, "\r\n", "\n"), "\n")
	out := make([]string, 0, len(lines))
	var st scanState

	for _, raw := range lines {
		if st.template {
			scanLine(raw, &st)
			out = append(out, raw)
			continue
		}

		line := collapseSpaces(strings.TrimLeft(raw, " \t"))
		scanLine(line, &st)

		if line == "" {
			if len(out) == 0 || out[len(out)-1] == "" || opensBlock(out[len(out)-1]) {
				continue
			}
			out = append(out, "")
			continue
		}

		if len(out) > 0 && out[len(out)-1] == "" && closesBlock(line) {
			out = out[:len(out)-1]
		}
		out = append(out, line)
	}

	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}

	return Reindent(strings.Join(out, "\n"))
}

// Reindent indents each line by its bracket depth using IndentUnit. Lines
// are expected to carry no leading whitespace. A line that opens several
// brackets indents the following lines by one level only. Lines inside a
// template literal are left as they are.
func Reindent(code string) string {
	if code == "" {
		return ""
	}

	lines := strings.Split(code, "\n")
	// Each frame counts the brackets still open from one line.
	var frames []int
	var st scanState

	closeOne := func() {
		if n := len(frames); n > 0 {
			frames[n-1]--
			if frames[n-1] == 0 {
				frames = frames[:n-1]
			}
		}
	}

	for i, line := range lines {
		verbatim := st.template
		if line == "" && !verbatim {
			continue
		}
		commentLine := st.comment
		delta, leading := scanLine(line, &st)

		for j := 0; j < leading; j++ {
			closeOne()
		}

		if !verbatim {
			prefix := strings.Repeat(IndentUnit, len(frames))
			if commentLine && strings.HasPrefix(line, "*") {
				prefix += " "
			}
			lines[i] = prefix + line
		}

		switch rest := delta + leading; {
		case rest > 0:
			frames = append(frames, rest)
		case rest < 0:
			for j := 0; j < -rest; j++ {
				closeOne()
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Indent prefixes every non-empty line of code, except lines that continue
// a multi-line template literal.
func Indent(code, prefix string) string {
	if prefix == "" {
		return code
	}
	lines := strings.Split(code, "\n")
	var st scanState
	for i, line := range lines {
		verbatim := st.template
		scanLine(line, &st)
		if line != "" && !verbatim {
			lines[i] = prefix + line
		}
	}
	return strings.Join(lines, "\n")
}

func opensBlock(line string) bool {
	last := line[len(line)-1]
	return last == '{' || last == '(' || last == '['
}

func closesBlock(line string) bool {
	first := line[0]
	return first == '}' || first == ')' || first == ']'
}

// scanState carries what a line leaves open for the next one.
type scanState struct {
	comment  bool // inside /* */
	template bool // inside a backtick template literal
}

// scanLine returns the bracket depth change of line and the number of
// closing brackets before any other token. Brackets inside literals and
// comments do not count.
func scanLine(line string, st *scanState) (delta, leading int) {
	var quote byte
	if st.template {
		quote = '`'
	}
	started := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if st.comment {
			if c == '*' && i+1 < len(line) && line[i+1] == '/' {
				st.comment = false
				i++
			}
			continue
		}

		if quote != 0 {
			switch c {
			case '\\':
				i++
			case quote:
				quote = 0
			}
			continue
		}

		switch c {
		case ' ', '\t':
		case '"', '\'', '`':
			quote = c
			started = true
		case '/':
			if i+1 < len(line) && line[i+1] == '/' {
				st.template = false
				return delta, leading
			}
			if i+1 < len(line) && line[i+1] == '*' {
				st.comment = true
				i++
				continue
			}
			started = true
		case '{', '(', '[':
			delta++
			started = true
		case '}', ')', ']':
			delta--
			if !started {
				leading++
			}
		default:
			started = true
		}
	}
	st.template = quote == '`'
	return delta, leading
}

// collapseSpaces reduces runs of spaces and tabs to one space, leaving
// string literals untouched.
func collapseSpaces(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	var quote byte
	space := false

	for i := 0; i < len(line); i++ {
		c := line[i]

		if quote != 0 {
			b.WriteByte(c)
			switch c {
			case '\\':
				if i+1 < len(line) {
					i++
					b.WriteByte(line[i])
				}
			case quote:
				quote = 0
			}
			continue
		}

		if c == ' ' || c == '\t' {
			space = true
			continue
		}
		if space {
			b.WriteByte(' ')
			space = false
		}
		if c == '"' || c == '\'' || c == '`' {
			quote = c
		}
		b.WriteByte(c)
	}
	return b.String()
}
