package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/input"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/project"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
	"github.com/spf13/cobra"
)

type newOptions struct {
	globals
	yes          bool
	description  string
	di           string
	webFramework string
	source       string
	databases    []string
	in           io.Reader
	out          io.Writer
}

// NewCmd creates and returns the 'new' command for scaffolding projects
func NewCmd() *cobra.Command {
	var opts newOptions

	cmd := &cobra.Command{
		Use:   "new [project-name]",
		Short: "Create a new TypeScript project",
		Long: `Creates a new TypeScript project with:
• package.json and npm dependencies
• tsconfig.json
• An index.ts launcher with routes.ts and dependencies.ts
• splice.yml describing the project

Missing answers are asked for unless --yes is given.

Example:
  splice new shop --di inversify --database postgres`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.globals = globalFlags(cmd)
			opts.in = cmd.InOrStdin()
			opts.out = cmd.OutOrStdout()

			var name string
			if len(args) == 1 {
				name = args[0]
			}
			return runNew(cmd.Context(), opts, name)
		},
	}

	cmd.Flags().BoolVarP(&opts.yes, "yes", "y", false, "Accept defaults instead of asking")
	cmd.Flags().StringVar(&opts.description, "description", "", "Project description")
	cmd.Flags().StringVar(&opts.di, "di", "", "Dependency injection: none, inversify or singleton")
	cmd.Flags().StringVar(&opts.webFramework, "web-framework", "", "Web framework (default express)")
	cmd.Flags().StringVar(&opts.source, "source", "", "Source directory (default src)")
	cmd.Flags().StringSliceVar(&opts.databases, "database", nil, "Databases to install clients for")

	return cmd
}

func runNew(ctx context.Context, opts newOptions, name string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	asker := input.NewAsker(opts.in, opts.out)

	if name == "" {
		if opts.yes {
			return fmt.Errorf("a project name is required with --yes")
		}
		name = asker.Prompt("Project name", "app")
	}

	cfg := config.Default()
	p := &cfg.Project
	p.Name = name
	p.Description = opts.description
	if opts.source != "" {
		p.Source = opts.source
	}
	if opts.webFramework != "" {
		p.WebFramework = strings.ToLower(opts.webFramework)
	}
	if len(opts.databases) > 0 {
		p.Database = opts.databases
	}
	p.DependencyInjection = opts.di

	if !opts.yes {
		if p.Description == "" {
			p.Description = asker.Prompt("Description", "")
		}
		if p.DependencyInjection == "" {
			p.DependencyInjection = asker.Select("Dependency injection",
				[]string{synth.DINone, synth.DIInversify, synth.DISingleton}, synth.DINone)
		}
	}
	if p.DependencyInjection == "" {
		p.DependencyInjection = synth.DINone
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	dir := filepath.Join(opts.root, name)
	if entries, err := os.ReadDir(dir); err == nil && len(entries) > 0 {
		return fmt.Errorf("directory %s already exists and is not empty", dir)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", dir, err)
	}

	data, err := cfg.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(dir, config.FileName), data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.FileName, err)
	}

	output.Verbose(fmt.Sprintf("Creating new project: %s", name))
	strategy := project.NewBuildStrategy(dir, newRunner(dir, opts.verbose), cfg,
		project.WithLogger(logger.Default()))
	if err := strategy.Apply(ctx); err != nil {
		return err
	}

	output.Info("Next steps:")
	output.Step(fmt.Sprintf("cd %s", name))
	output.Step("splice apply  # merge model files")
	output.Step("npm run build && npm start")
	return nil
}
