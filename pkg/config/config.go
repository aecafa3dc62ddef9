package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/importsweep/pkg/report"
)

// Sentinel validation errors.
var (
	ErrNoExtensions     = errors.New("scan.extensions must not be empty")
	ErrNegativeWorkers  = errors.New("scan.workers must not be negative")
	ErrInvalidFileSize  = errors.New("scan.max_file_size is not a byte size")
	ErrInvalidTimeout   = errors.New("tool timeout must be positive")
	ErrNegativeLimit    = errors.New("limits must not be negative")
	ErrEmptyCommand     = errors.New("tool command must not be empty")
	ErrInvalidLogLevel  = errors.New("logging.level must be debug, info, warn or error")
	ErrInvalidOTLPValue = errors.New("telemetry.otlp_headers entries must be key=value")
)

// Config holds all importsweep settings.
type Config struct {
	Scan      ScanConfig      `mapstructure:"scan"`
	Linter    ToolConfig      `mapstructure:"linter"`
	Exports   ToolConfig      `mapstructure:"exports"`
	Lexical   LexicalConfig   `mapstructure:"lexical"`
	Report    ReportConfig    `mapstructure:"report"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// ScanConfig selects source files.
type ScanConfig struct {
	Extensions   []string `mapstructure:"extensions"`
	IgnoreDirs   []string `mapstructure:"ignore_dirs"`
	Workers      int      `mapstructure:"workers"`
	MaxFileSize  string   `mapstructure:"max_file_size"`
	SkipVendored bool     `mapstructure:"skip_vendored"`
}

// MaxFileSizeBytes parses MaxFileSize ("1MB", "512KiB"). Zero disables the limit.
func (s ScanConfig) MaxFileSizeBytes() (int64, error) {
	if strings.TrimSpace(s.MaxFileSize) == "" || s.MaxFileSize == "0" {
		return 0, nil
	}

	n, err := humanize.ParseBytes(s.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %q: %w", ErrInvalidFileSize, s.MaxFileSize, err)
	}

	return int64(n), nil
}

// ToolConfig configures an external strategy.
type ToolConfig struct {
	Enabled     bool          `mapstructure:"enabled"`
	Command     string        `mapstructure:"command"`
	Args        []string      `mapstructure:"args"`
	Rules       []string      `mapstructure:"rules"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxFindings int           `mapstructure:"max_findings"`
}

// LexicalConfig configures the built-in scanner.
type LexicalConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// Always runs the scanner even when the linter found something.
	Always bool `mapstructure:"always"`
}

// ReportConfig controls output.
type ReportConfig struct {
	Format              string `mapstructure:"format"`
	LexicalDisplayLimit int    `mapstructure:"lexical_display_limit"`
	ListingLimit        int    `mapstructure:"listing_limit"`
	NoColor             bool   `mapstructure:"no_color"`
	ShowFix             bool   `mapstructure:"show_fix"`
}

// LoggingConfig controls diagnostics on stderr.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// SlogLevel converts Level to a slog level. Validate rejects unknown names.
func (l LoggingConfig) SlogLevel() slog.Level {
	var level slog.Level

	if err := level.UnmarshalText([]byte(l.Level)); err != nil {
		return slog.LevelInfo
	}

	return level
}

// TelemetryConfig enables trace and metric export.
type TelemetryConfig struct {
	OTLPEndpoint string   `mapstructure:"otlp_endpoint"`
	OTLPInsecure bool     `mapstructure:"otlp_insecure"`
	OTLPHeaders  []string `mapstructure:"otlp_headers"`
	MetricsFile  string   `mapstructure:"metrics_file"`
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	var errs []error

	if len(c.Scan.Extensions) == 0 {
		errs = append(errs, ErrNoExtensions)
	}

	if c.Scan.Workers < 0 {
		errs = append(errs, ErrNegativeWorkers)
	}

	if _, err := c.Scan.MaxFileSizeBytes(); err != nil {
		errs = append(errs, err)
	}

	errs = append(errs, validateTool("linter", c.Linter)...)
	errs = append(errs, validateTool("exports", c.Exports)...)

	if _, err := report.ParseFormat(c.Report.Format); err != nil {
		errs = append(errs, err)
	}

	if c.Report.LexicalDisplayLimit < 0 || c.Report.ListingLimit < 0 {
		errs = append(errs, fmt.Errorf("report: %w", ErrNegativeLimit))
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(c.Logging.Level)); err != nil {
		errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Logging.Level))
	}

	for _, header := range c.Telemetry.OTLPHeaders {
		if k, _, ok := strings.Cut(header, "="); !ok || strings.TrimSpace(k) == "" {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidOTLPValue, header))
		}
	}

	return errors.Join(errs...)
}

func validateTool(name string, t ToolConfig) []error {
	if !t.Enabled {
		return nil
	}

	var errs []error

	if strings.TrimSpace(t.Command) == "" {
		errs = append(errs, fmt.Errorf("%s: %w", name, ErrEmptyCommand))
	}

	if t.Timeout <= 0 {
		errs = append(errs, fmt.Errorf("%s: %w", name, ErrInvalidTimeout))
	}

	if t.MaxFindings < 0 {
		errs = append(errs, fmt.Errorf("%s: %w", name, ErrNegativeLimit))
	}

	return errs
}
