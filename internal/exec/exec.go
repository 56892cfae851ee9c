// Package exec runs the external tools splice drives, such as npm and the
// code formatter.
//
// RunCommand is for steps the user watches: it shows a spinner with a
// description and hides the tool's own output unless verbose mode streams
// it. Output is for tools whose stdout is the result.
package exec

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
)

// Executor runs external commands.
type Executor struct {
	stdout  io.Writer
	stderr  io.Writer
	env     []string
	dir     string
	verbose bool
	spinner bool

	// replaced in tests
	commandFunc func(ctx context.Context, name string, args ...string) *exec.Cmd
}

// Options configures an Executor.
type Options struct {
	Stdout  io.Writer
	Stderr  io.Writer
	Env     []string // added to the current environment
	Dir     string   // working directory
	Verbose bool     // stream command output, prefixed
	Spinner bool     // show a spinner for described commands
}

// NewExecutor creates an executor. Nil options print to stdout and stderr
// and show spinners.
func NewExecutor(opts *Options) *Executor {
	if opts == nil {
		opts = &Options{Spinner: true}
	}
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}

	return &Executor{
		stdout:      opts.Stdout,
		stderr:      opts.Stderr,
		env:         opts.Env,
		dir:         opts.Dir,
		verbose:     opts.Verbose,
		spinner:     opts.Spinner,
		commandFunc: exec.CommandContext,
	}
}

// Dir returns the working directory commands run in.
func (e *Executor) Dir() string {
	return e.dir
}

// InDir returns a copy of e that runs commands in dir.
func (e *Executor) InDir(dir string) *Executor {
	c := *e
	c.dir = dir
	return &c
}

func (e *Executor) command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := e.commandFunc(ctx, name, args...)
	if e.dir != "" {
		cmd.Dir = e.dir
	}
	if len(e.env) > 0 {
		cmd.Env = append(os.Environ(), e.env...)
	}
	return cmd
}

// RunCommand runs a whitespace-separated command line such as
// "npm install express --save". With a description, progress is shown under
// that name. A non-zero exit is an error carrying the tail of the command's
// output.
func (e *Executor) RunCommand(ctx context.Context, command, description string) error {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return errors.New("empty command")
	}

	if description != "" && e.spinner && !e.verbose {
		return e.runWithSpinner(ctx, description, fields[0], fields[1:]...)
	}
	return e.Run(ctx, fields[0], fields[1:]...)
}

// Run runs name with args. In verbose mode its output is streamed with a
// "│ " prefix; otherwise it is kept for the error message.
func (e *Executor) Run(ctx context.Context, name string, args ...string) error {
	cmd := e.command(ctx, name, args...)

	var captured bytes.Buffer
	if e.verbose {
		out := NewPrefixWriter(e.stdout, "│ ")
		errOut := NewPrefixWriter(e.stderr, "│ ")
		defer out.Flush()
		defer errOut.Flush()
		cmd.Stdout, cmd.Stderr = out, errOut
	} else {
		cmd.Stdout, cmd.Stderr = &captured, &captured
	}

	return e.wrap(ctx, name, cmd.Run(), captured.String())
}

// Output runs name with stdin and returns what it wrote to stdout.
func (e *Executor) Output(ctx context.Context, stdin io.Reader, name string, args ...string) ([]byte, error) {
	cmd := e.command(ctx, name, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdin = stdin
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := e.wrap(ctx, name, cmd.Run(), stderr.String()); err != nil {
		return nil, err
	}
	return stdout.Bytes(), nil
}

func (e *Executor) wrap(ctx context.Context, name string, err error, output string) error {
	if err == nil {
		return nil
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%s cancelled: %w", name, ctx.Err())
	}
	if isCommandNotFound(err) {
		return fmt.Errorf("%w\n💡 Command '%s' not found. Please install it and try again", err, name)
	}
	if tail := lastLines(output, 5); tail != "" {
		return fmt.Errorf("%s failed: %w\n%s", name, err, tail)
	}
	return fmt.Errorf("%s failed: %w", name, err)
}

func isCommandNotFound(err error) bool {
	return errors.Is(err, exec.ErrNotFound) ||
		strings.Contains(err.Error(), "executable file not found") ||
		strings.Contains(err.Error(), "command not found")
}

func lastLines(s string, n int) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
