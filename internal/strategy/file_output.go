// Package strategy turns desired file models into file outputs, merging into
// files that already exist and synthesizing the rest from scratch.
package strategy

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/merge"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// FileError reports the file a batch stopped at.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Reader parses TypeScript from disk or memory.
type Reader interface {
	merge.CodeReader
	ReadFile(path string) (*structure.FileInfo, error)
}

// FileOutputStrategy produces the outputs for a batch of models. Model paths
// are resolved against Root; output paths are left as given.
type FileOutputStrategy struct {
	Root   string
	reader Reader
	synth  *synth.Synthesizer
	log    logger.Logger
}

// Option configures a FileOutputStrategy.
type Option func(*FileOutputStrategy)

// WithLogger sets the logger handed to every merge.
func WithLogger(l logger.Logger) Option {
	return func(s *FileOutputStrategy) {
		s.log = l
	}
}

// WithRoot sets the directory relative model paths are resolved against.
func WithRoot(root string) Option {
	return func(s *FileOutputStrategy) {
		s.Root = root
	}
}

// NewFileOutputStrategy creates a strategy.
func NewFileOutputStrategy(reader Reader, s *synth.Synthesizer, opts ...Option) *FileOutputStrategy {
	st := &FileOutputStrategy{
		Root:   ".",
		reader: reader,
		synth:  s,
		log:    logger.NewSilent(),
	}
	for _, opt := range opts {
		opt(st)
	}
	return st
}

// Resolve returns the on-disk location of a model path.
func (s *FileOutputStrategy) Resolve(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(s.Root, path)
}

// Apply processes models in order. A model whose file exists is merged and
// yields an output only if something changed; a model whose file is missing
// is synthesized and always yields an output. The first failure stops the
// batch and is returned as a *FileError.
func (s *FileOutputStrategy) Apply(ctx context.Context, models []desired.FileTemplateModel) ([]desired.FileOutput, error) {
	outputs := make([]desired.FileOutput, 0, len(models))

	for _, model := range models {
		if err := ctx.Err(); err != nil {
			return outputs, err
		}

		out, err := s.apply(ctx, model)
		if err != nil {
			return outputs, &FileError{Path: model.Path, Err: err}
		}
		if out != nil {
			outputs = append(outputs, *out)
		}
	}

	return outputs, nil
}

func (s *FileOutputStrategy) apply(ctx context.Context, model desired.FileTemplateModel) (*desired.FileOutput, error) {
	path := s.Resolve(model.Path)

	_, err := os.Stat(path)
	switch {
	case err == nil:
		s.log.Debug("merging into existing file", logger.F("path", model.Path))
		file, err := s.reader.ReadFile(path)
		if err != nil {
			return nil, err
		}
		file.Path = model.Path
		return merge.NewModifier(file, s.reader, s.synth, merge.WithLogger(s.log)).Modify(model)

	case errors.Is(err, fs.ErrNotExist):
		s.log.Debug("synthesizing new file", logger.F("path", model.Path))
		code, err := s.synth.File(ctx, model.Path, model.Content)
		if err != nil {
			return nil, err
		}
		return &desired.FileOutput{
			Path:        model.Path,
			WriteMethod: model.WriteMethod,
			Content:     code,
		}, nil

	default:
		return nil, fmt.Errorf("failed to stat %s: %w", path, err)
	}
}
