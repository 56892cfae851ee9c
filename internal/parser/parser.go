// Package parser reads TypeScript source into a structure.FileInfo using
// tree-sitter.
package parser

import (
	"fmt"
	"os"
	"strings"
	"sync"

	sitter "github.com/tree-sitter/go-tree-sitter"
	typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"

	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

// ParseError reports source text that could not be parsed.
// Line and Column are 0-based.
type ParseError struct {
	Path    string
	Line    int
	Column  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Path, e.Line+1, e.Column+1, e.Message)
}

// Reader parses TypeScript files. It is safe for concurrent use; parses are
// serialized.
type Reader struct {
	mu  sync.Mutex
	ts  *sitter.Parser
	tsx *sitter.Parser
}

// NewReader creates a Reader with parsers for .ts and .tsx sources.
func NewReader() (*Reader, error) {
	ts, err := newParser(sitter.NewLanguage(typescript.LanguageTypescript()))
	if err != nil {
		return nil, fmt.Errorf("failed to load typescript grammar: %w", err)
	}
	tsx, err := newParser(sitter.NewLanguage(typescript.LanguageTSX()))
	if err != nil {
		ts.Close()
		return nil, fmt.Errorf("failed to load tsx grammar: %w", err)
	}
	return &Reader{ts: ts, tsx: tsx}, nil
}

func newParser(lang *sitter.Language) (*sitter.Parser, error) {
	p := sitter.NewParser()
	if err := p.SetLanguage(lang); err != nil {
		p.Close()
		return nil, err
	}
	return p, nil
}

// Close releases the underlying parsers.
func (r *Reader) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ts != nil {
		r.ts.Close()
		r.ts = nil
	}
	if r.tsx != nil {
		r.tsx.Close()
		r.tsx = nil
	}
}

// ReadFile parses the file at path.
func (r *Reader) ReadFile(path string) (*structure.FileInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return r.ReadCode(path, string(data))
}

// ReadCode parses code as the contents of path. The path selects the grammar
// and is recorded on the result; it is not read from disk.
func (r *Reader) ReadCode(path, code string) (*structure.FileInfo, error) {
	src := []byte(code)

	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.ts
	if strings.HasSuffix(path, ".tsx") {
		p = r.tsx
	}
	if p == nil {
		return nil, fmt.Errorf("reader is closed")
	}

	tree := p.Parse(src, nil)
	if tree == nil {
		return nil, &ParseError{Path: path, Message: "parser produced no tree"}
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, syntaxError(path, root, src)
	}

	v := &visitor{
		src:  src,
		file: &structure.FileInfo{Path: path, Code: code},
	}
	v.program(root)
	return v.file, nil
}

// syntaxError locates the first error or missing node below root.
func syntaxError(path string, root *sitter.Node, src []byte) *ParseError {
	bad := firstBadNode(root)
	if bad == nil {
		bad = root
	}

	pos := bad.StartPosition()
	perr := &ParseError{
		Path:   path,
		Line:   int(pos.Row),
		Column: int(pos.Column),
	}

	switch {
	case bad.IsMissing():
		perr.Message = fmt.Sprintf("missing %s", bad.Kind())
	default:
		text := bad.Utf8Text(src)
		if i := strings.IndexByte(text, '\n'); i >= 0 {
			text = text[:i]
		}
		if len(text) > 40 {
			text = text[:40] + "..."
		}
		perr.Message = fmt.Sprintf("unexpected %q", text)
	}
	return perr
}

func firstBadNode(n *sitter.Node) *sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	if !n.HasError() {
		return nil
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil {
			continue
		}
		if bad := firstBadNode(child); bad != nil {
			return bad
		}
	}
	return nil
}
