// Package generator writes merge results to disk, previews them as diffs and
// stages multi-file project scaffolding in transactions.
package generator

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
)

// Operation is a file system change that is validated before it is run.
type Operation interface {
	Validate(ctx context.Context) error
	Execute(ctx context.Context) error
	Description() string
}

// WriteFileOp writes one file. Update ops replace a file that must already
// exist; create ops must not find one.
type WriteFileOp struct {
	Path    string
	Content []byte
	Mode    fs.FileMode
	Update  bool
}

func (op *WriteFileOp) Validate(ctx context.Context) error {
	if op.Content == nil {
		return fmt.Errorf("content is nil for file: %s", op.Path)
	}

	_, err := os.Stat(op.Path)
	switch {
	case op.Update && errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("file to update does not exist: %s", op.Path)
	case !op.Update && err == nil:
		return fmt.Errorf("file already exists: %s", op.Path)
	case err != nil && !errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("cannot stat %s: %w", op.Path, err)
	}
	return nil
}

func (op *WriteFileOp) Execute(ctx context.Context) error {
	if err := os.MkdirAll(filepath.Dir(op.Path), 0755); err != nil {
		return err
	}
	mode := op.Mode
	if mode == 0 {
		mode = 0644
	}
	return os.WriteFile(op.Path, op.Content, mode)
}

func (op *WriteFileOp) Description() string {
	verb := "Create"
	if op.Update {
		verb = "Update"
	}
	return fmt.Sprintf("%s %s (%d bytes)", verb, op.Path, len(op.Content))
}

// SkipFileOp records an output whose write method is skip. It never
// touches the disk.
type SkipFileOp struct {
	Path string
}

func (op *SkipFileOp) Validate(context.Context) error { return nil }

func (op *SkipFileOp) Execute(context.Context) error { return nil }

func (op *SkipFileOp) Description() string {
	return "Skip " + op.Path
}

// Operations turns outputs into operations in output order. resolve maps an
// output path to its location on disk; a file that already exists there is
// updated, anything else is created. Skip outputs become a SkipFileOp.
func Operations(outputs []desired.FileOutput, resolve func(string) string) []Operation {
	ops := make([]Operation, 0, len(outputs))
	for _, o := range outputs {
		path := resolve(o.Path)
		if o.Skipped() {
			ops = append(ops, &SkipFileOp{Path: path})
			continue
		}
		_, err := os.Stat(path)
		ops = append(ops, &WriteFileOp{
			Path:    path,
			Content: []byte(o.Content),
			Mode:    0644,
			Update:  err == nil,
		})
	}
	return ops
}
