package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/config"
	"github.com/Sumatoshi-tech/importsweep/pkg/eslint"
	"github.com/Sumatoshi-tech/importsweep/pkg/report"
)

func TestDefault_IsValid(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, config.DefaultReportFormat, cfg.Report.Format)
	assert.Equal(t, eslint.DefaultArgs, cfg.Linter.Args)
	assert.Equal(t, 2*time.Minute, cfg.Linter.Timeout)
	assert.True(t, cfg.Lexical.Enabled)
	assert.False(t, cfg.Lexical.Always)
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"no extensions", func(c *config.Config) { c.Scan.Extensions = nil }, config.ErrNoExtensions},
		{"negative workers", func(c *config.Config) { c.Scan.Workers = -1 }, config.ErrNegativeWorkers},
		{"bad size", func(c *config.Config) { c.Scan.MaxFileSize = "lots" }, config.ErrInvalidFileSize},
		{"zero timeout", func(c *config.Config) { c.Linter.Timeout = 0 }, config.ErrInvalidTimeout},
		{"empty command", func(c *config.Config) { c.Exports.Command = " " }, config.ErrEmptyCommand},
		{"negative cap", func(c *config.Config) { c.Linter.MaxFindings = -5 }, config.ErrNegativeLimit},
		{"negative listing", func(c *config.Config) { c.Report.ListingLimit = -1 }, config.ErrNegativeLimit},
		{"format", func(c *config.Config) { c.Report.Format = "xml" }, report.ErrUnknownFormat},
		{"log level", func(c *config.Config) { c.Logging.Level = "chatty" }, config.ErrInvalidLogLevel},
		{"otlp header", func(c *config.Config) { c.Telemetry.OTLPHeaders = []string{"novalue"} }, config.ErrInvalidOTLPValue},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := config.Default()
			tt.mutate(cfg)

			require.ErrorIs(t, cfg.Validate(), tt.want)
		})
	}
}

func TestValidate_DisabledToolIsNotChecked(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Linter.Enabled = false
	cfg.Linter.Command = ""
	cfg.Linter.Timeout = 0

	assert.NoError(t, cfg.Validate())
}

func TestMaxFileSizeBytes(t *testing.T) {
	t.Parallel()

	size, err := config.ScanConfig{MaxFileSize: "1MB"}.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(1000*1000), size)

	size, err = config.ScanConfig{MaxFileSize: "2KiB"}.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Equal(t, int64(2048), size)

	size, err = config.ScanConfig{}.MaxFileSizeBytes()
	require.NoError(t, err)
	assert.Zero(t, size)
}

func TestSlogLevel(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "DEBUG", config.LoggingConfig{Level: "debug"}.SlogLevel().String())
	assert.Equal(t, "WARN", config.LoggingConfig{Level: "warn"}.SlogLevel().String())
	assert.Equal(t, "INFO", config.LoggingConfig{Level: "bogus"}.SlogLevel().String())
}

func TestOptionConversions(t *testing.T) {
	t.Parallel()

	cfg := config.Default()
	cfg.Scan.SkipVendored = true
	cfg.Linter.MaxFindings = 7
	cfg.Report.NoColor = true

	assert.True(t, cfg.SourceOptions().SkipVendored)
	assert.Equal(t, cfg.Scan.Extensions, cfg.SourceOptions().Extensions)
	assert.Equal(t, 7, cfg.ESLintOptions().MaxFindings)
	assert.Equal(t, cfg.Exports.Args, cfg.TSPruneOptions().Args)
	assert.True(t, cfg.TextOptions().NoColor)
	assert.Equal(t, config.DefaultReportLexicalDisplayLimit, cfg.TextOptions().LexicalDisplayLimit)
}
