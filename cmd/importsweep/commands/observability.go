package commands

import (
	"context"
	"io"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/importsweep/pkg/config"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/version"
)

// loadConfig reads the config for root and applies the persistent flags.
func loadConfig(cmd *cobra.Command, opts *globalOptions, root string) (*config.Config, error) {
	cfg, err := config.LoadConfig(opts.configPath, root)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}

	if cmd.Flags().Changed("log-json") {
		cfg.Logging.JSON = opts.logJSON
	}

	return cfg, nil
}

func initObservability(
	ctx context.Context,
	cfg *config.Config,
	mode observability.AppMode,
	logOut io.Writer,
) (observability.Providers, error) {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.OTLPEndpoint = cfg.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(cfg.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = cfg.Telemetry.OTLPInsecure
	obsCfg.LogLevel = cfg.Logging.SlogLevel()
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogWriter = logOut

	return observability.Init(ctx, obsCfg)
}

func shutdownObservability(providers observability.Providers) {
	err := providers.Shutdown(context.Background())
	if err != nil {
		providers.Logger.Warn("observability shutdown failed", "error", err)
	}
}
