package observability_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
)

func newReader() (*sdkmetric.ManualReader, *sdkmetric.MeterProvider) {
	reader := sdkmetric.NewManualReader()

	return reader, sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
}

func collectMetrics(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics

	require.NoError(t, reader.Collect(context.Background(), &rm))

	return rm
}

func findMetric(rm metricdata.ResourceMetrics, name string) *metricdata.Metrics {
	for idx := range rm.ScopeMetrics {
		for midx := range rm.ScopeMetrics[idx].Metrics {
			if rm.ScopeMetrics[idx].Metrics[midx].Name == name {
				return &rm.ScopeMetrics[idx].Metrics[midx]
			}
		}
	}

	return nil
}

func sumInt(t *testing.T, m *metricdata.Metrics) int64 {
	t.Helper()
	require.NotNil(t, m)

	sum, ok := m.Data.(metricdata.Sum[int64])
	require.True(t, ok)

	var total int64
	for _, dp := range sum.DataPoints {
		total += dp.Value
	}

	return total
}

func TestREDMetrics_RecordRequest(t *testing.T) {
	t.Parallel()

	reader, mp := newReader()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	red.RecordRequest(ctx, "mcp.scan", observability.StatusOK, 20*time.Millisecond)
	red.RecordRequest(ctx, "mcp.scan", observability.StatusError, time.Second)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumInt(t, findMetric(rm, "importsweep.requests.total")))
	assert.Equal(t, int64(1), sumInt(t, findMetric(rm, "importsweep.errors.total")))
	assert.NotNil(t, findMetric(rm, "importsweep.request.duration.seconds"))
}

func TestREDMetrics_TrackInflight(t *testing.T) {
	t.Parallel()

	reader, mp := newReader()

	red, err := observability.NewREDMetrics(mp.Meter("test"))
	require.NoError(t, err)

	done := red.TrackInflight(context.Background(), "lsp.didOpen")
	assert.Equal(t, int64(1), sumInt(t, findMetric(collectMetrics(t, reader), "importsweep.inflight.requests")))

	done()
	assert.Equal(t, int64(0), sumInt(t, findMetric(collectMetrics(t, reader), "importsweep.inflight.requests")))
}

func TestMetrics_NilReceiversAreNoops(t *testing.T) {
	t.Parallel()

	var red *observability.REDMetrics

	var scan *observability.ScanMetrics

	ctx := context.Background()

	assert.NotPanics(t, func() {
		red.RecordRequest(ctx, "op", observability.StatusOK, time.Second)
		red.TrackInflight(ctx, "op")()
		scan.RecordStrategy(ctx, finding.Found(finding.TagLexical, nil, 0), time.Second)
		scan.RecordScan(ctx, 1, 1)
	})
}

func TestScanMetrics_Records(t *testing.T) {
	t.Parallel()

	reader, mp := newReader()

	sm, err := observability.NewScanMetrics(mp.Meter("test"))
	require.NoError(t, err)

	ctx := context.Background()
	sm.RecordStrategy(ctx, finding.Found(finding.TagESLint, nil, 4), 2*time.Second)
	sm.RecordStrategy(ctx, finding.NotAvailable(finding.TagTSPrune, "missing"), time.Millisecond)
	sm.RecordScan(ctx, 12, 3)

	rm := collectMetrics(t, reader)

	assert.Equal(t, int64(2), sumInt(t, findMetric(rm, "importsweep.strategy.runs")))
	assert.Equal(t, int64(4), sumInt(t, findMetric(rm, "importsweep.findings.total")))
	assert.Equal(t, int64(12), sumInt(t, findMetric(rm, "importsweep.files.scanned")))
	assert.Equal(t, int64(3), sumInt(t, findMetric(rm, "importsweep.findings.unique")))
}
