package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importsweep/pkg/lsp"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/version"
)

func newLSPCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "lsp",
		Short: "Start a language server for unused-import diagnostics (stdio)",
		Long: `Start a Language Server Protocol server on stdio.

Open, changed and saved JavaScript/TypeScript documents are scanned with the
lexical scanner. Unused bindings are published as warnings with quick fixes
that remove them.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, "")
			if err != nil {
				return err
			}

			// stdout carries the protocol.
			providers, err := initObservability(cmd.Context(), cfg, observability.ModeLSP, os.Stderr)
			if err != nil {
				return err
			}

			defer shutdownObservability(providers)

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := lsp.NewServer(lsp.ServerDeps{
				Logger:     providers.Logger,
				Metrics:    red,
				Extensions: cfg.Scan.Extensions,
				Version:    version.Version,
			})

			return srv.Run()
		},
	}
}
