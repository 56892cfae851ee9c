package synth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

// Formatter rewrites a complete source file.
type Formatter interface {
	Format(ctx context.Context, path, code string) (string, error)
}

// PlainFormatter normalizes whitespace and indentation and ends the file
// with a newline.
type PlainFormatter struct{}

func (PlainFormatter) Format(_ context.Context, _ string, code string) (string, error) {
	out := Normalize(code)
	if out == "" {
		return "", nil
	}
	return out + "\n", nil
}

// OutputRunner runs a command with stdin and returns its stdout.
type OutputRunner interface {
	Output(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error)
}

// CommandFormatter pipes code through an external formatter such as
// prettier. The file path is appended to Args.
type CommandFormatter struct {
	Runner  OutputRunner
	Command string
	Args    []string
}

// NewPrettierFormatter formats through `npx prettier --stdin-filepath`.
func NewPrettierFormatter(runner OutputRunner) *CommandFormatter {
	return &CommandFormatter{
		Runner:  runner,
		Command: "npx",
		Args:    []string{"--yes", "prettier", "--stdin-filepath"},
	}
}

func (f *CommandFormatter) Format(ctx context.Context, path, code string) (string, error) {
	args := append(append([]string{}, f.Args...), path)
	out, err := f.Runner.Output(ctx, strings.NewReader(code), f.Command, args...)
	if err != nil {
		return "", fmt.Errorf("failed to format %s: %w", path, err)
	}
	return string(out), nil
}

// File assembles a complete new file from content, in the order imports,
// exports, types, interfaces, functions, classes, test suites, and formats
// it.
func (s *Synthesizer) File(ctx context.Context, path string, c desired.FileContent) (string, error) {
	var sections []string

	add := func(sep string, n int, render func(i int) (string, error)) error {
		parts := make([]string, 0, n)
		for i := 0; i < n; i++ {
			out, err := render(i)
			if err != nil {
				return err
			}
			parts = append(parts, out)
		}
		if len(parts) > 0 {
			sections = append(sections, strings.Join(parts, sep))
		}
		return nil
	}

	err := errors.Join(
		add("\n", len(c.Imports), func(i int) (string, error) { return s.Import(c.Imports[i]) }),
		add("\n", len(c.Exports), func(i int) (string, error) { return s.Export(c.Exports[i]) }),
		add("\n\n", len(c.Types), func(i int) (string, error) { return s.Type(c.Types[i]) }),
		add("\n\n", len(c.Interfaces), func(i int) (string, error) { return s.Interface(c.Interfaces[i]) }),
		add("\n\n", len(c.Functions), func(i int) (string, error) { return s.Function(c.Functions[i]) }),
		add("\n\n", len(c.Classes), func(i int) (string, error) { return s.Class(c.Classes[i]) }),
		add("\n\n", len(c.TestSuites), func(i int) (string, error) { return s.TestSuite(c.TestSuites[i]) }),
	)
	if err != nil {
		return "", fmt.Errorf("failed to build %s: %w", path, err)
	}

	return s.formatter.Format(ctx, path, strings.Join(sections, "\n\n"))
}
