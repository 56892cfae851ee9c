package commands

import (
	"github.com/simonhull/firebird-suite/splice"
	"github.com/simonhull/firebird-suite/splice/internal/exec"
	"github.com/simonhull/firebird-suite/splice/internal/logger"
	"github.com/simonhull/firebird-suite/splice/internal/output"
	"github.com/simonhull/firebird-suite/splice/internal/project"
	"github.com/spf13/cobra"
)

// newRunner returns the command runner for a project directory.
var newRunner = func(dir string, verbose bool) project.Runner {
	return exec.NewExecutor(&exec.Options{Dir: dir, Verbose: verbose, Spinner: !verbose})
}

// RootCmd creates and returns the root command for the splice CLI
func RootCmd() *cobra.Command {
	var verbose bool

	cmd := &cobra.Command{
		Use:   "splice",
		Short: "Scaffold TypeScript backends and merge generated code into them",
		Long: `Splice creates TypeScript backend projects and keeps them in step with
model files (*.splice.yml) describing the code they should contain.

Applying a model never removes or rewrites what is already in a file:
• Missing files are generated from the model
• Existing files only gain the imports, members and statements they lack
• index.ts barrels re-export every exported declaration`,
		Version:       splice.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
			level := logger.LevelInfo
			if verbose {
				level = logger.LevelDebug
			}
			logger.SetDefault(logger.New(level, cmd.ErrOrStderr()))
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().String("config", "", "Path to splice.yml (default: <root>/splice.yml)")
	cmd.PersistentFlags().String("root", ".", "Project root directory")

	return cmd
}

// NewRootCmd returns the root command with every subcommand registered.
func NewRootCmd() *cobra.Command {
	root := RootCmd()
	root.AddCommand(ApplyCmd())
	root.AddCommand(NewCmd())
	root.AddCommand(InitCmd())
	return root
}

type globals struct {
	root    string
	config  string
	verbose bool
}

func globalFlags(cmd *cobra.Command) globals {
	root, _ := cmd.Flags().GetString("root")
	config, _ := cmd.Flags().GetString("config")
	verbose, _ := cmd.Flags().GetBool("verbose")
	return globals{root: root, config: config, verbose: verbose}
}
