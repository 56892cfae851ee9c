// Package index derives barrel files that re-export every exported construct
// of a batch of desired files.
package index

import (
	"path"
	"path/filepath"

	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/structure"
)

// BarrelName is the file name of a directory's barrel.
const BarrelName = "index.ts"

// BarrelPath returns the barrel that re-exports file.
func BarrelPath(file string) string {
	return filepath.Join(filepath.Dir(file), BarrelName)
}

// ExportPath returns the dot-relative module path of file as seen from its
// barrel, for example "./user.controller". The path is cleaned first, so
// "./src/user.ts" and "src//user.ts" both give "./user".
func ExportPath(file string) string {
	p := path.Clean(filepath.ToSlash(file))
	return structure.ModulePath(path.Dir(p), p)
}

type barrel struct {
	path    string
	exports []desired.ExportModel
	seen    map[string]bool
}

func (b *barrel) add(modulePath string, exp *desired.ExportModel) {
	if exp == nil || b.seen[modulePath] {
		return
	}
	b.seen[modulePath] = true
	b.exports = append(b.exports, desired.ExportModel{
		Path:  modulePath,
		List:  exp.List,
		Alias: exp.Alias,
	})
}

// Aggregate returns one barrel model per directory of files, in first-seen
// order. Skipped files and barrels themselves contribute nothing. Each module
// is exported at most once per barrel, however many of its classes, types
// and functions are exported.
func Aggregate(files []desired.FileTemplateModel) []desired.FileTemplateModel {
	var order []*barrel
	byPath := make(map[string]*barrel)

	for _, f := range files {
		if f.Skipped() || filepath.Base(f.Path) == BarrelName {
			continue
		}

		bp := BarrelPath(f.Path)
		b, ok := byPath[bp]
		if !ok {
			b = &barrel{path: bp, seen: make(map[string]bool)}
			byPath[bp] = b
			order = append(order, b)
		}

		mp := ExportPath(f.Path)
		for _, c := range f.Content.Classes {
			b.add(mp, c.Exp)
		}
		for _, t := range f.Content.Types {
			b.add(mp, t.Exp)
		}
		for _, fn := range f.Content.Functions {
			b.add(mp, fn.Exp)
		}
	}

	out := make([]desired.FileTemplateModel, 0, len(order))
	for _, b := range order {
		if len(b.exports) == 0 {
			continue
		}
		out = append(out, desired.FileTemplateModel{
			Path:        b.path,
			WriteMethod: desired.Write,
			Content:     desired.FileContent{Exports: b.exports},
		})
	}
	return out
}
