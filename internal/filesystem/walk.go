// Package filesystem finds splice model files in a project tree.
package filesystem

import (
	"io/fs"
	"path/filepath"
	"sort"
	"strings"
)

// DefaultIgnoreDirs are skipped during traversal.
var DefaultIgnoreDirs = []string{
	"node_modules", ".git", ".svn", ".hg",
	"dist", "build", "coverage", "tmp",
	".idea", ".vscode",
}

// ModelSuffixes are the file name endings of model files.
var ModelSuffixes = []string{".splice.yml", ".splice.yaml"}

// WalkOptions configures Walk.
type WalkOptions struct {
	IgnoreDirs     []string // default DefaultIgnoreDirs
	IgnorePatterns []string // file name globs to skip, e.g. "*.tmp"
	IncludeHidden  bool
}

// Walk visits every file and directory under root that the options do not
// exclude. The visitor may return filepath.SkipDir.
func Walk(root string, opts WalkOptions, visit func(path string, d fs.DirEntry) error) error {
	ignore := opts.IgnoreDirs
	if len(ignore) == 0 {
		ignore = DefaultIgnoreDirs
	}

	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		name := d.Name()

		if path != root && !opts.IncludeHidden && strings.HasPrefix(name, ".") {
			if d.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if d.IsDir() {
			if path != root && contains(ignore, name) {
				return filepath.SkipDir
			}
			return visit(path, d)
		}

		for _, pattern := range opts.IgnorePatterns {
			if ok, _ := filepath.Match(pattern, name); ok {
				return nil
			}
		}
		return visit(path, d)
	})
}

// IsModelFile reports whether path names a model file.
func IsModelFile(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range ModelSuffixes {
		if strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			return true
		}
	}
	return false
}

// DiscoverModelFiles returns the model files under root, sorted.
func DiscoverModelFiles(root string) ([]string, error) {
	var found []string
	err := Walk(root, WalkOptions{}, func(path string, d fs.DirEntry) error {
		if !d.IsDir() && IsModelFile(path) {
			found = append(found, path)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(found)
	return found, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
