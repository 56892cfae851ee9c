package project

import (
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

//go:embed templates/*
var templates embed.FS

// sourceData is what the source templates see.
type sourceData struct {
	Source       string
	DI           string
	WebFramework string
}

func dataFor(p config.Project) sourceData {
	return sourceData{Source: p.Source, DI: p.DI(), WebFramework: p.WebFramework}
}

// SourceFiles renders the starting sources of a project, keyed by path
// relative to the project root: index.ts, routes.ts and dependencies.ts
// under the source directory, plus singleton.ts for the singleton DI style.
func SourceFiles(r *synth.Renderer, p config.Project) (map[string][]byte, error) {
	data := dataFor(p)
	names := []string{"index.ts", "routes.ts", "dependencies.ts"}
	if data.DI == synth.DISingleton {
		names = append(names, "singleton.ts")
	}

	files := make(map[string][]byte, len(names))
	for _, name := range names {
		out, err := r.RenderFS(templates, "templates/"+name+".tmpl", data)
		if err != nil {
			return nil, err
		}
		files[filepath.Join(p.Source, name)] = []byte(out)
	}
	return files, nil
}

// TSConfig renders tsconfig.json for p.
func TSConfig(r *synth.Renderer, p config.Project) ([]byte, error) {
	out, err := r.RenderFS(templates, "templates/tsconfig.json", dataFor(p))
	if err != nil {
		return nil, err
	}
	return []byte(out), nil
}

// PackageJSON is the part of package.json splice reads and writes.
type PackageJSON struct {
	Name            string            `json:"name"`
	Version         string            `json:"version"`
	Description     string            `json:"description"`
	Main            string            `json:"main"`
	Scripts         map[string]string `json:"scripts"`
	Author          string            `json:"author"`
	License         string            `json:"license"`
	Dependencies    map[string]string `json:"dependencies,omitempty"`
	DevDependencies map[string]string `json:"devDependencies,omitempty"`
}

// NewPackageJSON describes a fresh project.
func NewPackageJSON(p config.Project) PackageJSON {
	license := p.License
	if license == "" {
		license = "ISC"
	}
	return PackageJSON{
		Name:        p.Name,
		Version:     "0.0.0",
		Description: p.Description,
		Main:        "build/index.js",
		Scripts: map[string]string{
			"clean": "rm -rf ./build",
			"build": "npm run clean && tsc",
			"start": "node build/index.js",
			"test":  "jest",
		},
		Author:  p.Author,
		License: license,
	}
}

// Marshal renders the manifest with two-space indentation.
func (pj PackageJSON) Marshal() ([]byte, error) {
	data, err := json.MarshalIndent(pj, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Installed returns every dependency and dev dependency name, sorted.
func (pj PackageJSON) Installed() []string {
	names := make([]string, 0, len(pj.Dependencies)+len(pj.DevDependencies))
	for n := range pj.Dependencies {
		names = append(names, n)
	}
	for n := range pj.DevDependencies {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// ErrNoPackageJSON means init ran outside a node project.
var ErrNoPackageJSON = errors.New("no package.json found, use `splice new` to create a project")

// ReadPackageJSON reads root/package.json.
func ReadPackageJSON(root string) (*PackageJSON, error) {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, ErrNoPackageJSON
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read package.json: %w", err)
	}

	var pj PackageJSON
	if err := json.Unmarshal(data, &pj); err != nil {
		return nil, fmt.Errorf("failed to parse package.json: %w", err)
	}
	return &pj, nil
}
