package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/simonhull/firebird-suite/splice/internal/commands"
	"github.com/simonhull/firebird-suite/splice/internal/output"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	rootCmd := commands.NewRootCmd()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		output.Error(err.Error())
		stop()
		os.Exit(1)
	}
}
