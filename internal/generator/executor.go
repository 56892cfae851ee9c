package generator

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

var (
	doneStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	skippedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// ExecuteOptions configures Execute.
type ExecuteOptions struct {
	DryRun bool
	Writer io.Writer // defaults to os.Stdout
}

// Summary counts the files an Execute call created, updated and skipped. A
// dry run counts what it would have done.
type Summary struct {
	Created int
	Updated int
	Skipped int
}

// Changed is the number of files written.
func (s Summary) Changed() int {
	return s.Created + s.Updated
}

func (s Summary) String() string {
	return fmt.Sprintf("%d created, %d updated, %d skipped", s.Created, s.Updated, s.Skipped)
}

func (s *Summary) add(op Operation) {
	switch op := op.(type) {
	case *SkipFileOp:
		s.Skipped++
	case *WriteFileOp:
		if op.Update {
			s.Updated++
		} else {
			s.Created++
		}
	}
}

// Execute validates every operation and fails with all validation errors
// before anything is written. It then runs the operations in order and
// prints one line for each. A dry run prints without touching the disk.
func Execute(ctx context.Context, ops []Operation, opts ExecuteOptions) (Summary, error) {
	w := opts.Writer
	if w == nil {
		w = os.Stdout
	}

	var errs []error
	for _, op := range ops {
		if err := op.Validate(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) > 0 {
		return Summary{}, fmt.Errorf("validation failed: %w", errors.Join(errs...))
	}

	var sum Summary
	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if !opts.DryRun {
			if err := op.Execute(ctx); err != nil {
				return sum, fmt.Errorf("%s: %w", op.Description(), err)
			}
		}
		sum.add(op)
		fmt.Fprintln(w, reportLine(op, opts.DryRun))
	}
	return sum, nil
}

func reportLine(op Operation, dryRun bool) string {
	text := op.Description()
	if dryRun {
		text = "[DRY RUN] " + text
	}
	if _, ok := op.(*SkipFileOp); ok {
		return skippedStyle.Render("○ " + text)
	}
	return doneStyle.Render("✓ " + text)
}
