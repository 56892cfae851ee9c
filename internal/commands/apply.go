package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/desired"
	"github.com/simonhull/firebird-suite/splice/internal/exec"
	"github.com/simonhull/firebird-suite/splice/internal/filesystem"
	"github.com/simonhull/firebird-suite/splice/internal/generator"
	"github.com/simonhull/firebird-suite/splice/internal/index"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/parser"
	"github.com/simonhull/firebird-suite/splice/internal/strategy"
	"github.com/simonhull/firebird-suite/splice/internal/synth"
	"github.com/spf13/cobra"
)

type applyOptions struct {
	globals
	dryRun    bool
	diff      bool
	noIndex   bool
	formatter string
	out       io.Writer
}

// ApplyCmd creates and returns the 'apply' command
func ApplyCmd() *cobra.Command {
	var opts applyOptions

	cmd := &cobra.Command{
		Use:   "apply [file|dir...]",
		Short: "Merge model files into the project sources",
		Long: `Reads *.splice.yml model files and brings the files they describe up to date.

Directories are searched recursively (node_modules, build and hidden
directories are skipped). Without arguments the project root is searched.

Examples:
  splice apply
  splice apply models/user.splice.yml --diff
  splice apply models --dry-run --formatter prettier`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.globals = globalFlags(cmd)
			opts.out = cmd.OutOrStdout()
			return runApply(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "Show what would be written without writing")
	cmd.Flags().BoolVar(&opts.diff, "diff", false, "Print a diff of every change")
	cmd.Flags().BoolVar(&opts.noIndex, "no-index", false, "Do not update index.ts barrels")
	cmd.Flags().StringVar(&opts.formatter, "formatter", "", "Formatter for generated files: plain or prettier (default from splice.yml)")

	return cmd
}

func runApply(ctx context.Context, opts applyOptions, args []string) error {
	if ctx == nil {
		ctx = context.Background()
	}
	log := logger.Default()

	cfg, err := config.Load(opts.root, opts.config)
	if err != nil {
		return err
	}

	if len(args) == 0 {
		args = []string{opts.root}
	}
	models, err := loadModels(args)
	if err != nil {
		return err
	}
	if len(models) == 0 {
		output.Info("No model files found")
		return nil
	}

	formatter, err := newFormatter(opts.formatter, cfg.Output.Formatter, opts.root)
	if err != nil {
		return err
	}
	s := synth.New(
		synth.WithDependencyInjection(cfg.Project.DI()),
		synth.WithFormatter(formatter),
	)

	if cfg.Output.Index && !opts.noIndex {
		barrels := index.Aggregate(models)
		output.Verbose(fmt.Sprintf("Updating %d index barrel(s)", len(barrels)))
		models = append(barrels, models...)
	}

	reader, err := parser.NewReader()
	if err != nil {
		return err
	}
	defer reader.Close()

	st := strategy.NewFileOutputStrategy(reader, s,
		strategy.WithRoot(opts.root),
		strategy.WithLogger(log),
	)
	outputs, err := st.Apply(ctx, models)
	if err != nil {
		return err
	}

	if opts.diff {
		fmt.Fprint(opts.out, generator.Preview(outputs, st.Resolve, nil))
	}

	ops := generator.Operations(outputs, st.Resolve)
	sum, err := generator.Execute(ctx, ops, generator.ExecuteOptions{DryRun: opts.dryRun, Writer: opts.out})
	if err != nil {
		return err
	}

	switch {
	case sum.Changed() == 0:
		output.Info("Everything is up to date")
	case !opts.dryRun:
		output.Success("Applied models: " + sum.String())
	}
	return nil
}

// loadModels reads every model file named by args, searching directories.
func loadModels(args []string) ([]desired.FileTemplateModel, error) {
	var models []desired.FileTemplateModel
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", arg, err)
		}

		paths := []string{arg}
		if info.IsDir() {
			paths, err = filesystem.DiscoverModelFiles(arg)
			if err != nil {
				return nil, err
			}
		}

		for _, p := range paths {
			output.Verbose("Loading " + p)
			loaded, err := desired.Load(p)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", p, err)
			}
			models = append(models, loaded...)
		}
	}
	return models, nil
}

// newFormatter picks the flag value over the configured one.
func newFormatter(flag, configured, root string) (synth.Formatter, error) {
	name := flag
	if name == "" {
		name = configured
	}
	switch name {
	case "", "plain":
		return synth.PlainFormatter{}, nil
	case "prettier":
		return synth.NewPrettierFormatter(exec.NewExecutor(&exec.Options{Dir: root})), nil
	default:
		return nil, fmt.Errorf("unknown formatter %q, expected plain or prettier", name)
	}
}
