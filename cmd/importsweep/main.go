// Package main provides the entry point for the importsweep CLI.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/Sumatoshi-tech/importsweep/cmd/importsweep/commands"
	"github.com/Sumatoshi-tech/importsweep/pkg/version"
)

func main() {
	version.InitBinaryVersion()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	err := commands.NewRootCommand().ExecuteContext(ctx)

	stop()

	code := commands.ExitCode(err)
	if code == commands.ExitUsage {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	os.Exit(code)
}
