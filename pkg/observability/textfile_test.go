package observability_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/importsweep/pkg/finding"
	"github.com/Sumatoshi-tech/importsweep/pkg/observability"
)

func TestTextfileSink_WritesScanMetrics(t *testing.T) {
	t.Parallel()

	sink, err := observability.NewTextfileSink()
	require.NoError(t, err)

	t.Cleanup(func() { _ = sink.Shutdown(context.Background()) })

	sm, err := observability.NewScanMetrics(sink.Meter())
	require.NoError(t, err)

	sm.RecordStrategy(context.Background(), finding.Found(finding.TagLexical, nil, 2), time.Second)
	sm.RecordScan(context.Background(), 5, 2)

	path := filepath.Join(t.TempDir(), "importsweep.prom")
	require.NoError(t, sink.WriteFile(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	body := string(data)
	assert.Contains(t, body, "importsweep_files_scanned")
	assert.Contains(t, body, "importsweep_strategy_runs")
	assert.Contains(t, body, `strategy="lexical"`)
}

func TestTextfileSink_BadPath(t *testing.T) {
	t.Parallel()

	sink, err := observability.NewTextfileSink()
	require.NoError(t, err)

	err = sink.WriteFile(filepath.Join(t.TempDir(), "missing", "dir", "out.prom"))
	assert.Error(t, err)
}
