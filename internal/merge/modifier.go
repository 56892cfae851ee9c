// Package merge adds desired constructs to an existing TypeScript file
// without removing, reordering or rewriting what is already there.
//
// Every insertion edits the raw text and re-parses it, so later anchors are
// always computed against current positions. Existence is decided by name
// (or module path for imports and exports) against that current state, which
// makes a merge idempotent: merging its own output changes nothing.
package merge

import (
	"fmt"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// CodeReader parses source text into a structural model.
type CodeReader interface {
	ReadCode(path, code string) (*structure.FileInfo, error)
}

// Modifier merges desired content into one file.
type Modifier struct {
	file    *structure.FileInfo
	reader  CodeReader
	synth   *synth.Synthesizer
	log     logger.Logger
	changed bool
}

// Option configures a Modifier.
type Option func(*Modifier)

// WithLogger sets the logger used for anchor decisions.
func WithLogger(l logger.Logger) Option {
	return func(m *Modifier) {
		m.log = l
	}
}

// NewModifier creates a Modifier working on a copy of file.
func NewModifier(file *structure.FileInfo, reader CodeReader, s *synth.Synthesizer, opts ...Option) *Modifier {
	m := &Modifier{
		file:   file.Clone(),
		reader: reader,
		synth:  s,
		log:    logger.NewSilent(),
	}
	for _, opt := range opts {
		opt(m)
	}
	m.log = m.log.WithFields(logger.F("path", file.Path))
	return m
}

// File returns the current working copy.
func (m *Modifier) File() *structure.FileInfo {
	return m.file
}

// Changed reports whether any edit was made.
func (m *Modifier) Changed() bool {
	return m.changed
}

// Modify merges model into the file. It returns nil when nothing had to be
// added. Categories are processed in the order exports, imports, types,
// interfaces, functions, classes.
func (m *Modifier) Modify(model desired.FileTemplateModel) (*desired.FileOutput, error) {
	c := model.Content

	for _, e := range c.Exports {
		if err := m.AddExport(e); err != nil {
			return nil, err
		}
	}
	for _, i := range c.Imports {
		if err := m.AddImport(i); err != nil {
			return nil, err
		}
	}
	for _, t := range c.Types {
		if err := m.MergeType(t); err != nil {
			return nil, err
		}
	}
	for _, i := range c.Interfaces {
		if err := m.MergeInterface(i); err != nil {
			return nil, err
		}
	}
	for _, f := range c.Functions {
		if err := m.AddFunction(f); err != nil {
			return nil, err
		}
	}
	for _, cl := range c.Classes {
		if err := m.MergeClass(cl); err != nil {
			return nil, err
		}
	}

	if !m.changed {
		return nil, nil
	}
	return &desired.FileOutput{
		Path:        model.Path,
		WriteMethod: model.WriteMethod,
		Content:     m.file.Code,
	}, nil
}

// reload replaces the working copy with a parse of code.
func (m *Modifier) reload(code string) error {
	file, err := m.reader.ReadCode(m.file.Path, code)
	if err != nil {
		return fmt.Errorf("failed to re-parse %s after edit: %w", m.file.Path, err)
	}
	m.file = file
	m.changed = true
	return nil
}

func (m *Modifier) logInsert(kind synth.Kind, name, via string, line int) {
	m.log.Debug("inserting construct",
		logger.F("kind", kind),
		logger.F("name", name),
		logger.F("anchor", via),
		logger.F("line", line),
	)
}
