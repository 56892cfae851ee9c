package generator

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Transaction stages file writes and commits them together. A failed commit
// restores every file it already touched: overwritten files get their old
// content back and new files are removed.
type Transaction struct {
	staged    []stagedFile
	committed bool
}

type stagedFile struct {
	path    string
	content []byte
	mode    os.FileMode
}

// backup is what a path held before the transaction wrote it.
type backup struct {
	path    string
	existed bool
	content []byte
	mode    os.FileMode
}

// NewTransaction creates an empty transaction.
func NewTransaction() *Transaction {
	return &Transaction{}
}

// AddFile stages a write. Later writes to the same path win.
func (t *Transaction) AddFile(path string, content []byte, mode os.FileMode) {
	t.staged = append(t.staged, stagedFile{path: path, content: content, mode: mode})
}

// Paths returns the staged paths in order.
func (t *Transaction) Paths() []string {
	paths := make([]string, len(t.staged))
	for i, f := range t.staged {
		paths[i] = f.path
	}
	return paths
}

// Commit writes every staged file, or none of them.
func (t *Transaction) Commit() error {
	if t.committed {
		return errors.New("transaction already committed")
	}

	var done []backup
	for _, f := range t.staged {
		b, err := snapshot(f.path)
		if err != nil {
			restore(done)
			return err
		}

		dir := filepath.Dir(f.path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			restore(done)
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
		if err := os.WriteFile(f.path, f.content, f.mode); err != nil {
			restore(done)
			return fmt.Errorf("failed to write file %s: %w", f.path, err)
		}
		done = append(done, b)
	}

	t.committed = true
	return nil
}

func snapshot(path string) (backup, error) {
	info, err := os.Stat(path)
	if errors.Is(err, fs.ErrNotExist) {
		return backup{path: path}, nil
	}
	if err != nil {
		return backup{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		return backup{}, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return backup{path: path, existed: true, content: content, mode: info.Mode().Perm()}, nil
}

// restore undoes writes newest first; it is best effort.
func restore(done []backup) {
	for i := len(done) - 1; i >= 0; i-- {
		b := done[i]
		if b.existed {
			_ = os.WriteFile(b.path, b.content, b.mode)
		} else {
			_ = os.Remove(b.path)
		}
	}
}
