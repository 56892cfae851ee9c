// Package output prints styled status lines for the splice CLI.
//
// Messages go to stdout unless SetWriter redirects them. Styling is done with
// lipgloss; callers only pick the kind of message.
package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("green")).Bold(true)
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("red")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("cyan"))
	stepStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	failedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("red"))
)

var (
	mu          sync.Mutex
	writer      io.Writer = os.Stdout
	verboseMode bool
)

// SetVerbose enables or disables Verbose messages.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verboseMode = v
}

// SetWriter redirects all output and returns the previous writer.
func SetWriter(w io.Writer) io.Writer {
	mu.Lock()
	defer mu.Unlock()
	prev := writer
	writer = w
	return prev
}

func emit(s string) {
	mu.Lock()
	defer mu.Unlock()
	fmt.Fprintln(writer, s)
}

// Success prints a completed operation, e.g. "Applied 3 files".
func Success(msg string) {
	emit(successStyle.Render("🔥 " + msg))
}

// Error prints a failure that needs the user's attention.
func Error(msg string) {
	emit(errorStyle.Render("❌ " + msg))
}

// Info prints a status update.
func Info(msg string) {
	emit(infoStyle.Render("ℹ️  " + msg))
}

// Step prints an indented sub-item.
func Step(msg string) {
	emit(stepStyle.Render("   " + msg))
}

// Verbose prints a debug message when verbose mode is on.
func Verbose(msg string) {
	mu.Lock()
	v := verboseMode
	mu.Unlock()
	if v {
		emit(stepStyle.Render("🔍 " + msg))
	}
}

// StepResult prints the outcome of a named step: 🟢 when it succeeded,
// 🔴 when it failed.
func StepResult(name string, err error) {
	if err != nil {
		emit("🔴 " + name)
		Verbose(err.Error())
		return
	}
	emit("🟢 " + name)
}

// FailedList prints items under a "Failed:" heading. Nothing is printed for
// an empty list.
func FailedList(items []string) {
	if len(items) == 0 {
		return
	}
	emit(failedStyle.Render("Failed:"))
	for _, item := range items {
		emit(failedStyle.Render("  - " + item))
	}
}
