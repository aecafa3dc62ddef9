package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// configName is the config file name without extension.
const configName = ".importsweep"

const configType = "yaml"

// envPrefix prefixes environment overrides, e.g. IMPORTSWEEP_LINTER_TIMEOUT.
const envPrefix = "IMPORTSWEEP"

const envKeySeparator = "_"

// LoadConfig loads configuration from file, env vars and defaults.
// If configPath is non-empty it is used as the explicit config file path.
// Otherwise .importsweep.yaml is searched in root, the working directory
// and $HOME. A missing config file is not an error.
func LoadConfig(configPath, root string) (*Config, error) {
	viperCfg := viper.New()

	applyDefaults(viperCfg)

	viperCfg.SetConfigType(configType)
	viperCfg.SetEnvPrefix(envPrefix)
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", envKeySeparator))
	viperCfg.AutomaticEnv()

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(configName)

		if root != "" {
			viperCfg.AddConfigPath(root)
		}

		viperCfg.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viperCfg.AddConfigPath(home)
		}
	}

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFound) {
			return nil, fmt.Errorf("read config: %w", readErr)
		}
	}

	var cfg Config

	unmarshalErr := viperCfg.Unmarshal(&cfg)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("unmarshal config: %w", unmarshalErr)
	}

	validateErr := cfg.Validate()
	if validateErr != nil {
		return nil, fmt.Errorf("validate config: %w", validateErr)
	}

	return &cfg, nil
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	viperCfg := viper.New()
	applyDefaults(viperCfg)

	var cfg Config

	// Defaults are plain values and always decode.
	_ = viperCfg.Unmarshal(&cfg)

	return &cfg
}

func applyDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("scan.extensions", defaultExtensions())
	viperCfg.SetDefault("scan.ignore_dirs", defaultIgnoreDirs())
	viperCfg.SetDefault("scan.workers", DefaultScanWorkers)
	viperCfg.SetDefault("scan.max_file_size", DefaultScanMaxFileSize)
	viperCfg.SetDefault("scan.skip_vendored", DefaultScanSkipVendored)

	viperCfg.SetDefault("linter.enabled", DefaultToolEnabled)
	viperCfg.SetDefault("linter.command", DefaultToolCommand)
	viperCfg.SetDefault("linter.args", defaultLinterArgs())
	viperCfg.SetDefault("linter.rules", defaultLinterRules())
	viperCfg.SetDefault("linter.timeout", DefaultToolTimeout)
	viperCfg.SetDefault("linter.max_findings", DefaultToolMaxFindings)

	viperCfg.SetDefault("exports.enabled", DefaultToolEnabled)
	viperCfg.SetDefault("exports.command", DefaultToolCommand)
	viperCfg.SetDefault("exports.args", defaultExportsArgs())
	viperCfg.SetDefault("exports.timeout", DefaultToolTimeout)
	viperCfg.SetDefault("exports.max_findings", DefaultToolMaxFindings)

	viperCfg.SetDefault("lexical.enabled", DefaultLexicalEnabled)
	viperCfg.SetDefault("lexical.always", DefaultLexicalAlways)

	viperCfg.SetDefault("report.format", DefaultReportFormat)
	viperCfg.SetDefault("report.lexical_display_limit", DefaultReportLexicalDisplayLimit)
	viperCfg.SetDefault("report.listing_limit", DefaultReportListingLimit)
	viperCfg.SetDefault("report.no_color", DefaultReportNoColor)
	viperCfg.SetDefault("report.show_fix", DefaultReportShowFix)

	viperCfg.SetDefault("logging.level", DefaultLoggingLevel)
	viperCfg.SetDefault("logging.json", DefaultLoggingJSON)

	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.otlp_headers", []string{})
	viperCfg.SetDefault("telemetry.metrics_file", "")
}
