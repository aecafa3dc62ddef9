package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
)

const (
	metricFilesScanned     = "importsweep.files.scanned"
	metricFindingsTotal    = "importsweep.findings.total"
	metricUniqueFindings   = "importsweep.findings.unique"
	metricStrategyRuns     = "importsweep.strategy.runs"
	metricStrategyDuration = "importsweep.strategy.duration.seconds"

	attrStrategy = "strategy"
	attrOutcome  = "outcome"
)

// ScanMetrics holds the instruments describing a detection run.
type ScanMetrics struct {
	filesScanned     metric.Int64Counter
	findingsTotal    metric.Int64Counter
	uniqueFindings   metric.Int64Counter
	strategyRuns     metric.Int64Counter
	strategyDuration metric.Float64Histogram
}

// NewScanMetrics creates the instruments from mt.
func NewScanMetrics(mt metric.Meter) (*ScanMetrics, error) {
	files, err := mt.Int64Counter(metricFilesScanned,
		metric.WithDescription("Source files enumerated for scanning"),
		metric.WithUnit("{file}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFilesScanned, err)
	}

	total, err := mt.Int64Counter(metricFindingsTotal,
		metric.WithDescription("Findings detected per strategy before deduplication"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricFindingsTotal, err)
	}

	unique, err := mt.Int64Counter(metricUniqueFindings,
		metric.WithDescription("Findings left after deduplication"),
		metric.WithUnit("{finding}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricUniqueFindings, err)
	}

	runs, err := mt.Int64Counter(metricStrategyRuns,
		metric.WithDescription("Strategy runs by outcome"),
		metric.WithUnit("{run}"),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStrategyRuns, err)
	}

	duration, err := mt.Float64Histogram(metricStrategyDuration,
		metric.WithDescription("Strategy wall time in seconds"),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(durationBucketBoundaries...),
	)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", metricStrategyDuration, err)
	}

	return &ScanMetrics{
		filesScanned:     files,
		findingsTotal:    total,
		uniqueFindings:   unique,
		strategyRuns:     runs,
		strategyDuration: duration,
	}, nil
}

// RecordStrategy records one finished strategy. Its signature matches the
// orchestrator's Observe hook. Safe on a nil receiver.
func (sm *ScanMetrics) RecordStrategy(ctx context.Context, result finding.Result, elapsed time.Duration) {
	if sm == nil {
		return
	}

	attrs := metric.WithAttributes(
		attribute.String(attrStrategy, string(result.Strategy)),
		attribute.String(attrOutcome, string(result.Outcome)),
	)

	sm.strategyRuns.Add(ctx, 1, attrs)
	sm.strategyDuration.Record(ctx, elapsed.Seconds(), attrs)

	if result.Outcome == finding.OutcomeFindings {
		sm.findingsTotal.Add(ctx, int64(result.Total),
			metric.WithAttributes(attribute.String(attrStrategy, string(result.Strategy))))
	}
}

// RecordScan records the enumerated file count and the deduplicated total.
func (sm *ScanMetrics) RecordScan(ctx context.Context, files, unique int) {
	if sm == nil {
		return
	}

	sm.filesScanned.Add(ctx, int64(files))
	sm.uniqueFindings.Add(ctx, int64(unique))
}
