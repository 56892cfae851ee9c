package exec

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type spinnerModel struct {
	spinner spinner.Model
	message string
	done    bool
	err     error
}

type spinnerDoneMsg struct {
	err error
}

func newSpinnerModel(message string) *spinnerModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	return &spinnerModel{spinner: s, message: message}
}

func (m *spinnerModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m *spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinnerDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	case spinner.TickMsg:
		if !m.done {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

func (m *spinnerModel) View() string {
	if !m.done {
		return fmt.Sprintf("%s %s...", m.spinner.View(), m.message)
	}
	if m.err != nil {
		return fmt.Sprintf("❌ %s\n", m.message)
	}
	return fmt.Sprintf("✅ %s\n", m.message)
}

// runWithSpinner runs the command while a spinner named message renders on
// stderr, and waits for the spinner to draw its final state.
func (e *Executor) runWithSpinner(ctx context.Context, message, name string, args ...string) error {
	p := tea.NewProgram(newSpinnerModel(message), tea.WithOutput(e.stderr), tea.WithInput(nil))

	finished := make(chan struct{})
	go func() {
		defer close(finished)
		_, _ = p.Run()
	}()

	quiet := *e
	quiet.verbose = false
	err := quiet.Run(ctx, name, args...)

	p.Send(spinnerDoneMsg{err: err})
	<-finished
	return err
}
