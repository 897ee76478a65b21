// Package main implements the v2flow CLI.
// It builds control flow graphs, call graphs and AST dumps for v2, Go and C
// sources.
package main

import (
	"context"
	"os"
	"os/signal"

	"github.com/l3aro/v2flow/cmd/v2flow/commands"
)

var (
	version   = "dev"
	buildTime = ""
)

func main() {
	commands.RootCmd.Version = version
	if buildTime != "" {
		commands.RootCmd.Version = version + " (" + buildTime + ")"
	}
	commands.RootCmd.SetVersionTemplate(`v2flow version {{.Version}}
`)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := commands.RootCmd.ExecuteContext(ctx); err != nil {
		stop()
		os.Exit(1)
	}
}
