package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/project"
)

const fooModel = `files:
  - path: src/models/foo.ts
    content:
      imports:
        - path: ./bar
          list: [Bar]
      classes:
        - name: Foo
          exp: {}
          methods:
            - name: run
              access: public
`

type recordingRunner struct {
	dirs     []string
	commands []string
}

func (r *recordingRunner) RunCommand(_ context.Context, command, _ string) error {
	r.commands = append(r.commands, command)
	return nil
}

// fakeRunners swaps the command runner for one that records instead of
// running npm.
func fakeRunners(t *testing.T) *recordingRunner {
	t.Helper()
	rec := &recordingRunner{}
	prev := newRunner
	newRunner = func(dir string, _ bool) project.Runner {
		rec.dirs = append(rec.dirs, dir)
		return rec
	}
	t.Cleanup(func() { newRunner = prev })
	return rec
}

// run executes the CLI and returns what it printed to stdout and through the
// output package.
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()

	var console bytes.Buffer
	prev := output.SetWriter(&console)
	t.Cleanup(func() { output.SetWriter(prev) })

	var out, errOut bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)

	err := cmd.ExecuteContext(context.Background())
	return out.String(), console.String(), err
}

func writeModel(t *testing.T, root string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "models"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "models", "foo.splice.yml"), []byte(fooModel), 0644))
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return string(data)
}

func TestApply(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root)

	out, console, err := run(t, "", "apply", "--root", root)
	require.NoError(t, err)

	foo := readFile(t, filepath.Join(root, "src", "models", "foo.ts"))
	assert.Contains(t, foo, `import { Bar } from "./bar";`)
	assert.Contains(t, foo, "export class Foo {")
	assert.Contains(t, foo, "public run()")

	barrel := readFile(t, filepath.Join(root, "src", "models", "index.ts"))
	assert.Contains(t, barrel, `"./foo"`)

	assert.Contains(t, out, "Create")
	assert.Contains(t, console, "Applied models: 2 created, 0 updated, 0 skipped")
}

func TestApply_Idempotent(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root)

	_, _, err := run(t, "", "apply", "--root", root)
	require.NoError(t, err)
	before := readFile(t, filepath.Join(root, "src", "models", "foo.ts"))

	_, console, err := run(t, "", "apply", "--root", root)
	require.NoError(t, err)
	assert.Contains(t, console, "Everything is up to date")
	assert.Equal(t, before, readFile(t, filepath.Join(root, "src", "models", "foo.ts")))
}

func TestApply_MergesExistingFile(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root)

	existing := "export class Foo {\n  public stop() {\n  }\n}\n"
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src", "models"), 0755))
	path := filepath.Join(root, "src", "models", "foo.ts")
	require.NoError(t, os.WriteFile(path, []byte(existing), 0644))

	out, _, err := run(t, "", "apply", "--root", root, "--no-index", "--diff")
	require.NoError(t, err)

	merged := readFile(t, path)
	assert.Contains(t, merged, "public stop()")
	assert.Contains(t, merged, "public run()")
	assert.NoFileExists(t, filepath.Join(root, "src", "models", "index.ts"))
	assert.Contains(t, out, "Update")
	assert.Contains(t, out, "@@")
}

func TestApply_DryRun(t *testing.T) {
	root := t.TempDir()
	writeModel(t, root)

	out, _, err := run(t, "", "apply", "--root", root, "--dry-run", filepath.Join(root, "models", "foo.splice.yml"))
	require.NoError(t, err)

	assert.Contains(t, out, "[DRY RUN]")
	assert.NoFileExists(t, filepath.Join(root, "src", "models", "foo.ts"))
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr string
	}{
		{"unknown formatter", []string{"--formatter", "gofmt"}, `unknown formatter "gofmt"`},
		{"missing path", []string{"missing.splice.yml"}, "failed to read missing.splice.yml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := t.TempDir()
			writeModel(t, root)
			args := append([]string{"apply", "--root", root}, tt.args...)
			_, _, err := run(t, "", args...)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestApply_NoModels(t *testing.T) {
	_, console, err := run(t, "", "apply", "--root", t.TempDir())
	require.NoError(t, err)
	assert.Contains(t, console, "No model files found")
}

func TestNew(t *testing.T) {
	rec := fakeRunners(t)
	parent := t.TempDir()

	_, console, err := run(t, "", "new", "shop", "--yes", "--root", parent, "--di", "inversify")
	require.NoError(t, err)

	dir := filepath.Join(parent, "shop")
	assert.Equal(t, []string{dir}, rec.dirs)
	assert.Equal(t, "npm init -y", rec.commands[0])
	assert.Contains(t, rec.commands, "npm install inversify --save")

	cfg, err := config.Load(dir, "")
	require.NoError(t, err)
	assert.Equal(t, "shop", cfg.Project.Name)
	assert.Equal(t, "inversify", cfg.Project.DI())

	assert.Contains(t, readFile(t, filepath.Join(dir, "src", "index.ts")), `import "reflect-metadata";`)
	assert.FileExists(t, filepath.Join(dir, "package.json"))
	assert.Contains(t, console, "Project setup complete")
}

func TestNew_Prompts(t *testing.T) {
	fakeRunners(t)
	parent := t.TempDir()

	_, _, err := run(t, "blog\nA blog\nsingleton\n", "new", "--root", parent)
	require.NoError(t, err)

	cfg, err := config.Load(filepath.Join(parent, "blog"), "")
	require.NoError(t, err)
	assert.Equal(t, "A blog", cfg.Project.Description)
	assert.Equal(t, "singleton", cfg.Project.DI())
	assert.FileExists(t, filepath.Join(parent, "blog", "src", "singleton.ts"))
}

func TestNew_Errors(t *testing.T) {
	fakeRunners(t)
	parent := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(parent, "taken"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(parent, "taken", "README.md"), nil, 0644))

	_, _, err := run(t, "", "new", "taken", "--yes", "--root", parent)
	assert.ErrorContains(t, err, "already exists")

	_, _, err = run(t, "", "new", "--yes", "--root", parent)
	assert.ErrorContains(t, err, "project name is required")

	_, _, err = run(t, "", "new", "bad", "--yes", "--root", parent, "--di", "spring")
	assert.ErrorContains(t, err, "project.dependency_injection must be one of")
}

func TestInit(t *testing.T) {
	rec := fakeRunners(t)
	root := t.TempDir()

	_, _, err := run(t, "", "init", "--root", root)
	assert.ErrorIs(t, err, project.ErrNoPackageJSON)
	assert.Empty(t, rec.commands)

	pj, err := project.NewPackageJSON(config.Project{Name: "api"}).Marshal()
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(root, "package.json"), pj, 0644))

	_, _, err = run(t, "", "init", "--root", root)
	require.NoError(t, err)
	assert.NotEmpty(t, rec.commands)
	assert.FileExists(t, filepath.Join(root, config.FileName))
	assert.FileExists(t, filepath.Join(root, "src", "routes.ts"))
}

func TestVersion(t *testing.T) {
	out, _, err := run(t, "", "--version")
	require.NoError(t, err)
	assert.Contains(t, out, "splice version")
}
