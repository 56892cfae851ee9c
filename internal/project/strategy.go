package project

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/generator"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
)

// step is one reported unit of project setup.
type step struct {
	name string
	run  func(ctx context.Context) error
}

// runSteps runs every step, reporting each outcome, and returns an error
// naming the failed steps. A failed step does not stop the ones after it.
func runSteps(ctx context.Context, steps []step) error {
	var failed []string
	for _, s := range steps {
		err := s.run(ctx)
		output.StepResult(s.name, err)

		var deps *DependenciesError
		switch {
		case errors.As(err, &deps):
			output.FailedList(deps.Failed)
		case err != nil:
			output.Step(err.Error())
		}
		if err != nil {
			failed = append(failed, s.name)
		}
	}

	if len(failed) > 0 {
		return &SetupError{Steps: failed}
	}
	return nil
}

// SetupError lists the setup steps that failed.
type SetupError struct {
	Steps []string
}

func (e *SetupError) Error() string {
	return fmt.Sprintf("project setup finished with %d failed step(s)", len(e.Steps))
}

// base holds what both strategies share.
type base struct {
	root     string
	runner   Runner
	cfg      *config.Config
	renderer *synth.Renderer
	log      logger.Logger
}

// Option configures a strategy.
type Option func(*base)

// WithLogger sets the strategy logger.
func WithLogger(l logger.Logger) Option {
	return func(b *base) {
		b.log = l
	}
}

func newBase(root string, runner Runner, cfg *config.Config, opts []Option) base {
	b := base{
		root:     root,
		runner:   runner,
		cfg:      cfg,
		renderer: synth.NewRenderer(),
		log:      logger.NewSilent(),
	}
	for _, opt := range opts {
		opt(&b)
	}
	return b
}

func (b *base) writeTSConfig(context.Context) error {
	data, err := TSConfig(b.renderer, b.cfg.Project)
	if err != nil {
		return err
	}
	tx := generator.NewTransaction()
	tx.AddFile(filepath.Join(b.root, "tsconfig.json"), data, 0644)
	return tx.Commit()
}

// writeSource writes the starting sources in one transaction. With keep
// set, files that already exist are left alone.
func (b *base) writeSource(keep bool) func(context.Context) error {
	return func(context.Context) error {
		files, err := SourceFiles(b.renderer, b.cfg.Project)
		if err != nil {
			return err
		}

		tx := generator.NewTransaction()
		for _, rel := range sortedKeys(files) {
			path := filepath.Join(b.root, rel)
			if keep {
				if _, err := os.Stat(path); err == nil {
					b.log.Info("keeping existing source", logger.F("path", rel))
					continue
				}
			}
			tx.AddFile(path, files[rel], 0644)
		}
		return tx.Commit()
	}
}

// BuildStrategy creates a new project in an empty directory.
type BuildStrategy struct {
	base
}

// NewBuildStrategy creates a BuildStrategy for the project in root. runner
// must run commands in root.
func NewBuildStrategy(root string, runner Runner, cfg *config.Config, opts ...Option) *BuildStrategy {
	return &BuildStrategy{base: newBase(root, runner, cfg, opts)}
}

// Apply writes package.json and runs npm init, installs typescript,
// @types/node and the configured dependencies, writes tsconfig.json and
// creates the sources.
func (s *BuildStrategy) Apply(ctx context.Context) error {
	err := runSteps(ctx, []step{
		{"Initialize node project", s.initNodeProject},
		{"Install dependencies", s.installDependencies},
		{"Create tsconfig.json", s.writeTSConfig},
		{"Create source", s.writeSource(false)},
	})
	report(err, "Project setup complete")
	return err
}

func (s *BuildStrategy) initNodeProject(ctx context.Context) error {
	data, err := NewPackageJSON(s.cfg.Project).Marshal()
	if err != nil {
		return err
	}
	tx := generator.NewTransaction()
	tx.AddFile(filepath.Join(s.root, "package.json"), data, 0644)
	if err := tx.Commit(); err != nil {
		return err
	}
	return s.runner.RunCommand(ctx, "npm init -y", "")
}

func (s *BuildStrategy) installDependencies(ctx context.Context) error {
	inst := NewInstaller(s.runner, s.cfg, WithInstallerLogger(s.log))

	var failed []string
	for _, pkg := range []string{"typescript", DevPrefix + "@types/node"} {
		if err := inst.InstallPackage(ctx, pkg); err != nil {
			failed = append(failed, pkg)
		}
	}

	err := inst.InstallDependencies(ctx)
	var deps *DependenciesError
	if errors.As(err, &deps) {
		failed = append(failed, deps.Failed...)
	} else if err != nil {
		return err
	}

	if len(failed) > 0 {
		return &DependenciesError{Failed: failed}
	}
	return nil
}

// InitStrategy adds splice's setup to an existing node project.
type InitStrategy struct {
	base
}

// NewInitStrategy creates an InitStrategy for the project in root.
func NewInitStrategy(root string, runner Runner, cfg *config.Config, opts ...Option) *InitStrategy {
	return &InitStrategy{base: newBase(root, runner, cfg, opts)}
}

// Apply installs the configured dependencies missing from package.json,
// writes tsconfig.json and creates the sources that do not exist yet. It
// fails without doing anything when there is no package.json.
func (s *InitStrategy) Apply(ctx context.Context) error {
	pj, err := ReadPackageJSON(s.root)
	if err != nil {
		return err
	}

	inst := NewInstaller(s.runner, s.cfg, WithInstalled(pj.Installed()), WithInstallerLogger(s.log))
	err = runSteps(ctx, []step{
		{"Install dependencies", inst.InstallDependencies},
		{"Create tsconfig.json", s.writeTSConfig},
		{"Create source", s.writeSource(true)},
	})
	report(err, "splice init complete")
	return err
}

func report(err error, success string) {
	if err != nil {
		output.Error(err.Error())
		return
	}
	output.Success(success)
}

func sortedKeys(m map[string][]byte) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
