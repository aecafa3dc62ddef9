// Package sweep runs one complete detection pass over a project: enumerate
// sources, run the strategies and aggregate their results into a report.
package sweep

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/importsweep/pkg/config"
	"github.com/Sumatoshi-tech/importsweep/pkg/eslint"
	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/lexscan"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
	"github.com/Sumatoshi-tech/importsweep/pkg/report"
	"github.com/Sumatoshi-tech/importsweep/pkg/sourceset"
	"github.com/Sumatoshi-tech/importsweep/pkg/strategy"
	"github.com/Sumatoshi-tech/importsweep/pkg/toolrun"
	"github.com/Sumatoshi-tech/importsweep/pkg/tsprune"
)

// Options configures a pass. Only Root is required.
type Options struct {
	Root   string
	Config *config.Config

	// Runner executes external tools. Nil uses the real process runner.
	Runner  toolrun.Runner
	Logger  *slog.Logger
	Tracer  trace.Tracer
	Metrics *observability.ScanMetrics

	// Progress receives the "Scanning N file(s)..." line. Nil disables it.
	Progress io.Writer
	Clock    func() time.Time
}

// Run performs the pass. Errors are limited to an unusable root and
// cancellation; strategy failures end up in the report.
func Run(ctx context.Context, opts Options) (*report.Report, error) {
	opts = withDefaults(opts)
	cfg := opts.Config

	ctx, span := opts.Tracer.Start(ctx, "importsweep.sweep")
	defer span.End()

	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolve root: %w", err)
	}

	span.SetAttributes(attribute.String("importsweep.root", root))

	paths, err := enumerate(ctx, opts, root)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, err
	}

	if opts.Progress != nil {
		fmt.Fprintf(opts.Progress, "Scanning %d file(s)...\n", len(paths))
	}

	maxSize, err := cfg.Scan.MaxFileSizeBytes()
	if err != nil {
		return nil, err
	}

	orch := &strategy.Orchestrator{
		AlwaysLexical: cfg.Lexical.Always,
		Logger:        opts.Logger,
		Observe:       opts.Metrics.RecordStrategy,
	}

	if cfg.Linter.Enabled {
		orch.Linter = eslint.New(opts.Runner, root, cfg.ESLintOptions(), opts.Logger)
	}

	if cfg.Exports.Enabled {
		orch.Exports = tsprune.New(opts.Runner, root, cfg.TSPruneOptions(), opts.Logger)
	}

	var lexical *strategy.Lexical

	if cfg.Lexical.Enabled {
		lexical = &strategy.Lexical{
			Scanner: &lexscan.Scanner{
				Root:        root,
				Workers:     cfg.Scan.Workers,
				MaxFileSize: maxSize,
				Logger:      opts.Logger,
			},
			Paths: paths,
		}
		orch.Lexical = lexical
	}

	builder := report.NewBuilder(root).
		WithClock(opts.Clock).
		WithFilesScanned(len(paths)).
		WithLanguages(sourceset.Languages(paths))

	outcome := runStrategies(ctx, opts.Tracer, orch)

	for _, result := range outcome.Results() {
		builder.AddResult(result)
	}

	for _, tag := range outcome.Disabled {
		builder.MarkSkipped(tag, strategy.ReasonDisabled)
	}

	if outcome.LexicalSkipped {
		builder.MarkSkipped(finding.TagLexical, outcome.SkipReason)
	}

	if lexical != nil && !outcome.LexicalSkipped {
		builder.WithLinesScanned(lexical.Lines())
	}

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("sweep: %w", err)
	}

	rep := builder.Build()

	opts.Metrics.RecordScan(ctx, rep.FilesScanned, rep.TotalFindings)
	span.SetAttributes(
		attribute.Int("importsweep.files", rep.FilesScanned),
		attribute.Int("importsweep.findings", rep.TotalFindings),
	)

	return rep, nil
}

func withDefaults(opts Options) Options {
	if opts.Config == nil {
		opts.Config = config.Default()
	}

	if opts.Runner == nil {
		opts.Runner = toolrun.NewExecRunner()
	}

	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	if opts.Tracer == nil {
		opts.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return opts
}

func enumerate(ctx context.Context, opts Options, root string) ([]string, error) {
	ctx, span := opts.Tracer.Start(ctx, "importsweep.enumerate")
	defer span.End()

	paths, err := sourceset.Enumerate(ctx, root, opts.Config.SourceOptions())
	if err != nil {
		return nil, fmt.Errorf("enumerate sources: %w", err)
	}

	span.SetAttributes(attribute.Int("importsweep.files", len(paths)))
	opts.Logger.DebugContext(ctx, "enumerated sources", "root", root, "files", len(paths))

	return paths, nil
}

func runStrategies(ctx context.Context, tracer trace.Tracer, orch *strategy.Orchestrator) strategy.Outcome {
	ctx, span := tracer.Start(ctx, "importsweep.strategies")
	defer span.End()

	outcome := orch.Run(ctx)

	span.SetAttributes(
		attribute.String("importsweep.linter", string(outcome.Linter.Outcome)),
		attribute.String("importsweep.exports", string(outcome.Exports.Outcome)),
		attribute.String("importsweep.lexical", string(outcome.Lexical.Outcome)),
		attribute.Bool("importsweep.lexical_skipped", outcome.LexicalSkipped),
	)

	return outcome
}
