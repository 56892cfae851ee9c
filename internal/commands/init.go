package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/simonhull/firebird-suite/splice/internal/config"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/project"
	"github.com/spf13/cobra"
)

// InitCmd creates and returns the 'init' command for existing projects
func InitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Set up splice in an existing node project",
		Long: `Adds splice to the node project in the root directory:
• Installs configured packages missing from package.json
• Writes tsconfig.json
• Creates index.ts, routes.ts and dependencies.ts if they do not exist
• Writes splice.yml if there is none`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInit(cmd.Context(), globalFlags(cmd))
		},
	}
	return cmd
}

func runInit(ctx context.Context, g globals) error {
	if ctx == nil {
		ctx = context.Background()
	}

	cfg, err := config.Load(g.root, g.config)
	if err != nil {
		return err
	}

	strategy := project.NewInitStrategy(g.root, newRunner(g.root, g.verbose), cfg,
		project.WithLogger(logger.Default()))
	if err := strategy.Apply(ctx); err != nil {
		return err
	}

	if g.config == "" && !config.Detect(g.root) {
		data, err := cfg.Marshal()
		if err != nil {
			return err
		}
		if err := os.WriteFile(filepath.Join(g.root, config.FileName), data, 0644); err != nil {
			return fmt.Errorf("failed to write %s: %w", config.FileName, err)
		}
		output.Verbose("Wrote " + config.FileName)
	}
	return nil
}
