// Package input asks the user questions on the terminal.
package input

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	promptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan")).Bold(true)
	hintStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Asker reads answers from In and writes questions to Out.
type Asker struct {
	in  *bufio.Reader
	out io.Writer
}

// NewAsker creates an Asker. Nil streams default to stdin and stdout.
func NewAsker(in io.Reader, out io.Writer) *Asker {
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	return &Asker{in: bufio.NewReader(in), out: out}
}

func (a *Asker) answer() (string, bool) {
	line, err := a.in.ReadString('\n')
	if err != nil && line == "" {
		return "", false
	}
	return strings.TrimSpace(line), true
}

// Prompt asks for text. An empty answer, or no answer at all, returns
// defaultValue.
func (a *Asker) Prompt(message, defaultValue string) string {
	if defaultValue != "" {
		fmt.Fprint(a.out, promptStyle.Render(message)+" "+hintStyle.Render("("+defaultValue+")")+": ")
	} else {
		fmt.Fprint(a.out, promptStyle.Render(message)+": ")
	}

	in, ok := a.answer()
	if !ok || in == "" {
		return defaultValue
	}
	return in
}

// Confirm asks a yes/no question. Only y and yes count as yes; an empty
// answer returns defaultYes.
func (a *Asker) Confirm(message string, defaultYes bool) bool {
	hint := "[y/N]"
	if defaultYes {
		hint = "[Y/n]"
	}
	fmt.Fprint(a.out, promptStyle.Render(message)+" "+hintStyle.Render(hint)+": ")

	in, ok := a.answer()
	if !ok || in == "" {
		return defaultYes
	}
	in = strings.ToLower(in)
	return in == "y" || in == "yes"
}

// Select asks for one of options, showing them as a hint. Unknown answers
// return defaultValue.
func (a *Asker) Select(message string, options []string, defaultValue string) string {
	fmt.Fprint(a.out, promptStyle.Render(message)+" "+
		hintStyle.Render("["+strings.Join(options, "/")+"] ("+defaultValue+")")+": ")

	in, ok := a.answer()
	if !ok {
		return defaultValue
	}
	for _, o := range options {
		if strings.EqualFold(o, in) {
			return o
		}
	}
	return defaultValue
}

var std = NewAsker(nil, nil)

// Prompt asks on the terminal. See Asker.Prompt.
func Prompt(message, defaultValue string) string {
	return std.Prompt(message, defaultValue)
}

// Confirm asks on the terminal. See Asker.Confirm.
func Confirm(message string, defaultYes bool) bool {
	return std.Confirm(message, defaultYes)
}
