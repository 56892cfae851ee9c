// Package project scaffolds TypeScript projects: npm packages, tsconfig.json
// and the launcher, routes and dependencies sources that models are later
// merged into.
package project

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
)

// DevPrefix marks a package as a development dependency.
const DevPrefix = "dev:"

// Runner runs a command line, showing description while it runs.
type Runner interface {
	RunCommand(ctx context.Context, command, description string) error
}

// DependenciesError lists the packages that failed to install.
type DependenciesError struct {
	Failed []string
}

func (e *DependenciesError) Error() string {
	return fmt.Sprintf("failed to install %d package(s): %s", len(e.Failed), strings.Join(e.Failed, ", "))
}

// Installer installs the packages a project configuration asks for.
type Installer struct {
	runner    Runner
	cfg       *config.Config
	log       logger.Logger
	installed map[string]bool
}

// InstallerOption configures an Installer.
type InstallerOption func(*Installer)

// WithInstalled marks packages already in package.json; they are skipped.
func WithInstalled(names []string) InstallerOption {
	return func(i *Installer) {
		for _, n := range names {
			i.installed[n] = true
		}
	}
}

// WithInstallerLogger sets the logger for skipped and unknown packages.
func WithInstallerLogger(l logger.Logger) InstallerOption {
	return func(i *Installer) {
		i.log = l
	}
}

// NewInstaller creates an Installer.
func NewInstaller(runner Runner, cfg *config.Config, opts ...InstallerOption) *Installer {
	i := &Installer{
		runner:    runner,
		cfg:       cfg,
		log:       logger.NewSilent(),
		installed: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// InstallCommand returns the npm command line for pkg. A "dev:" prefix
// installs with --save-dev, anything else with --save.
func InstallCommand(pkg string) (name, command string) {
	if after, ok := strings.CutPrefix(pkg, DevPrefix); ok {
		return after, "npm install " + after + " --save-dev"
	}
	return pkg, "npm install " + pkg + " --save"
}

// InstallPackage installs pkg unless it is already installed.
func (i *Installer) InstallPackage(ctx context.Context, pkg string) error {
	name, command := InstallCommand(pkg)
	if i.installed[name] {
		i.log.Debug("package already installed", logger.F("package", name))
		return nil
	}
	if err := i.runner.RunCommand(ctx, command, "Installing "+name+" ..."); err != nil {
		return err
	}
	i.installed[name] = true
	return nil
}

// InstallDependencies installs, in order: the language packages and
// plugin, each database's packages and plugin, the web framework, the
// service, and the dependency injection packages. Every package is
// attempted; failures are returned together as a *DependenciesError.
// Unknown plugin names are logged and skipped.
func (i *Installer) InstallDependencies(ctx context.Context) error {
	var failed []string
	install := func(pkgs ...string) {
		for _, p := range pkgs {
			if p == "" {
				continue
			}
			if err := i.InstallPackage(ctx, p); err != nil {
				i.log.Warn("package install failed", logger.F("package", p), logger.F("error", err))
				failed = append(failed, p)
			}
		}
	}

	p := i.cfg.Project
	lang := i.cfg.Language
	install(lang.Packages...)
	install(lang.Plugin)

	for _, db := range p.Database {
		name := strings.ToLower(db)
		if name == "cache" {
			continue
		}
		plugin, ok := i.cfg.Plugins.Databases[name]
		if !ok {
			i.log.Warn("no configuration found for database", logger.F("database", db))
			continue
		}
		install(plugin.Packages...)
		install(plugin.Plugin)
	}

	i.installPlugin(install, "web framework", p.WebFramework, i.cfg.Plugins.WebFrameworks)
	i.installPlugin(install, "service", p.Service, i.cfg.Plugins.Services)

	if di := p.DI(); di != "none" {
		pkgs, ok := lang.DIPackages(di)
		if !ok {
			i.log.Warn("no configuration found for dependency injection", logger.F("style", di))
		}
		install(pkgs...)
	}

	if len(failed) > 0 {
		return &DependenciesError{Failed: failed}
	}
	return nil
}

func (i *Installer) installPlugin(install func(...string), kind, name string, plugins map[string]config.Plugin) {
	if name == "" {
		return
	}
	plugin, ok := plugins[strings.ToLower(name)]
	if !ok {
		i.log.Warn("no configuration found for "+kind, logger.F("name", name), logger.F("known", known(plugins)))
		return
	}
	install(plugin.Packages...)
	install(plugin.Plugin)
}

func known(plugins map[string]config.Plugin) string {
	names := make([]string, 0, len(plugins))
	for n := range plugins {
		names = append(names, n)
	}
	sort.Strings(names)
	return strings.Join(names, ",")
}
