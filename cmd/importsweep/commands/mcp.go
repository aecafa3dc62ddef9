package commands

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importsweep/pkg/mcp"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
	"github.com/Sumatoshi-tech/importsweep/pkg/version"
)

func newMCPCommand(opts *globalOptions, runner toolrun.Runner) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

Tools:
  - importsweep_scan: scan a project and return the aggregated report
  - importsweep_check_source: lexically check an inline source snippet`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts, "")
			if err != nil {
				return err
			}

			if !cmd.Flags().Changed("log-json") {
				cfg.Logging.JSON = true
			}

			providers, err := initObservability(cmd.Context(), cfg, observability.ModeMCP, os.Stderr)
			if err != nil {
				return err
			}

			defer shutdownObservability(providers)

			red, err := observability.NewREDMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: red,
				Tracer:  providers.Tracer,
				Config:  cfg,
				Runner:  runner,
				Version: version.Version,
			})

			return srv.Run(cmd.Context())
		},
	}
}
