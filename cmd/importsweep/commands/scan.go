package commands

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/importsweep/pkg/config"
	"github.com/Sumatoshi-tech/importsweep/pkg/fixpreview"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/report"
	"github.com/Sumatoshi-tech/importsweep/pkg/sweep"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
)

// scanCommand holds the flags of "importsweep scan".
type scanCommand struct {
	global *globalOptions
	runner toolrun.Runner

	format        string
	noColor       bool
	alwaysLexical bool
	showFix       bool
	metricsFile   string
	noLinter      bool
	noExports     bool
	workers       int
	maxFileSize   string
	silent        bool
}

func newScanCommand(global *globalOptions, runner toolrun.Runner) *cobra.Command {
	sc := &scanCommand{global: global, runner: runner}

	cmd := &cobra.Command{
		Use:   "scan [path]",
		Short: "Scan a project for unused imports",
		Long: `Scan a JavaScript/TypeScript project for unused import bindings.

ESLint and ts-prune run first. When neither reports a finding, every source
file under path is scanned lexically. The exit status is 0 when no unused
import was found, 1 when some were, and 2 on usage or configuration errors.`,
		Args: cobra.MaximumNArgs(1),
		RunE: sc.run,
	}

	cmd.Flags().StringVarP(&sc.format, "format", "f", config.DefaultReportFormat, "output format: text, json, yaml, plot")
	cmd.Flags().BoolVar(&sc.noColor, "no-color", false, "disable colored output")
	cmd.Flags().BoolVar(&sc.alwaysLexical, "always-lexical", false, "run the lexical scan even when ESLint reports findings")
	cmd.Flags().BoolVar(&sc.showFix, "show-fix", false, "print a diff removing unused imports found lexically")
	cmd.Flags().StringVar(&sc.metricsFile, "metrics-file", "", "write scan metrics in Prometheus text format")
	cmd.Flags().BoolVar(&sc.noLinter, "no-linter", false, "do not run ESLint")
	cmd.Flags().BoolVar(&sc.noExports, "no-exports", false, "do not run ts-prune")
	cmd.Flags().IntVar(&sc.workers, "workers", 0, "parallel lexical workers (0 = CPU count)")
	cmd.Flags().StringVar(&sc.maxFileSize, "max-file-size", config.DefaultScanMaxFileSize, "skip larger files (e.g. 512KB, 2MB)")
	cmd.Flags().BoolVar(&sc.silent, "silent", false, "suppress the progress line")

	return cmd
}

func (sc *scanCommand) run(cmd *cobra.Command, args []string) error {
	root := "."
	if len(args) == 1 {
		root = args[0]
	}

	cfg, err := loadConfig(cmd, sc.global, root)
	if err != nil {
		return err
	}

	sc.applyFlags(cmd, cfg)

	validateErr := cfg.Validate()
	if validateErr != nil {
		return fmt.Errorf("invalid flags: %w", validateErr)
	}

	format, err := report.ParseFormat(cfg.Report.Format)
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	providers, err := initObservability(ctx, cfg, observability.ModeCLI, cmd.ErrOrStderr())
	if err != nil {
		return err
	}

	defer shutdownObservability(providers)

	var sink *observability.TextfileSink

	meter := providers.Meter

	if cfg.Telemetry.MetricsFile != "" {
		sink, err = observability.NewTextfileSink()
		if err != nil {
			return err
		}

		defer func() { _ = sink.Shutdown(context.Background()) }()

		meter = sink.Meter()
	}

	rep, err := sc.sweep(ctx, cmd, cfg, root, format, providers, meter)
	if err != nil {
		return err
	}

	stdout := cmd.OutOrStdout()

	renderErr := report.Render(stdout, rep, format, cfg.TextOptions())
	if renderErr != nil {
		return renderErr
	}

	if cfg.Report.ShowFix && format == report.FormatText {
		fixErr := writeFixPreview(ctx, stdout, cfg, rep)
		if fixErr != nil {
			return fixErr
		}
	}

	if sink != nil {
		writeErr := sink.WriteFile(cfg.Telemetry.MetricsFile)
		if writeErr != nil {
			return writeErr
		}
	}

	if code := rep.ExitCode(); code != ExitClean {
		return &ExitError{Code: code, Err: ErrFindingsDetected}
	}

	return nil
}

func (sc *scanCommand) sweep(
	ctx context.Context,
	cmd *cobra.Command,
	cfg *config.Config,
	root string,
	format report.Format,
	providers observability.Providers,
	meter metric.Meter,
) (*report.Report, error) {
	scanMetrics, err := observability.NewScanMetrics(meter)
	if err != nil {
		return nil, err
	}

	// Machine-readable formats keep stdout clean.
	var progress io.Writer

	switch {
	case sc.silent:
	case format == report.FormatText:
		progress = cmd.OutOrStdout()
	default:
		progress = cmd.ErrOrStderr()
	}

	return sweep.Run(ctx, sweep.Options{
		Root:     root,
		Config:   cfg,
		Runner:   sc.runner,
		Logger:   providers.Logger,
		Tracer:   providers.Tracer,
		Metrics:  scanMetrics,
		Progress: progress,
	})
}

// applyFlags overrides config values with explicitly set flags.
func (sc *scanCommand) applyFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()

	if flags.Changed("format") {
		cfg.Report.Format = sc.format
	}

	if flags.Changed("no-color") {
		cfg.Report.NoColor = sc.noColor
	}

	if flags.Changed("always-lexical") {
		cfg.Lexical.Always = sc.alwaysLexical
	}

	if flags.Changed("show-fix") {
		cfg.Report.ShowFix = sc.showFix
	}

	if flags.Changed("metrics-file") {
		cfg.Telemetry.MetricsFile = sc.metricsFile
	}

	if flags.Changed("workers") {
		cfg.Scan.Workers = sc.workers
	}

	if flags.Changed("max-file-size") {
		cfg.Scan.MaxFileSize = sc.maxFileSize
	}

	if sc.noLinter {
		cfg.Linter.Enabled = false
	}

	if sc.noExports {
		cfg.Exports.Enabled = false
	}
}

func writeFixPreview(ctx context.Context, w io.Writer, cfg *config.Config, rep *report.Report) error {
	// Validate already accepted the size.
	maxSize, _ := cfg.Scan.MaxFileSizeBytes()

	previews, err := fixpreview.ForFindings(ctx, rep.Root, rep.Findings, maxSize)
	if err != nil {
		return err
	}

	return fixpreview.Render(w, previews, cfg.Report.NoColor)
}
