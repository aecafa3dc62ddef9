package observability

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	promexporter "go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

// TextfileSink collects OTel instruments into a private Prometheus registry
// and writes them in the node_exporter textfile format, for CI jobs that
// scrape the result of a one-shot scan.
type TextfileSink struct {
	registry *prometheus.Registry
	provider *sdkmetric.MeterProvider
}

// NewTextfileSink creates a sink with its own registry.
func NewTextfileSink() (*TextfileSink, error) {
	registry := prometheus.NewRegistry()

	exporter, err := promexporter.New(promexporter.WithRegisterer(registry))
	if err != nil {
		return nil, fmt.Errorf("create prometheus exporter: %w", err)
	}

	return &TextfileSink{
		registry: registry,
		provider: sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter)),
	}, nil
}

// Meter returns a meter whose instruments land in the sink.
func (s *TextfileSink) Meter() metric.Meter {
	return s.provider.Meter(instrumentationName)
}

// WriteFile atomically writes the current metric values to path.
func (s *TextfileSink) WriteFile(path string) error {
	err := prometheus.WriteToTextfile(path, s.registry)
	if err != nil {
		return fmt.Errorf("write metrics file: %w", err)
	}

	return nil
}

// Shutdown releases the meter provider.
func (s *TextfileSink) Shutdown(ctx context.Context) error {
	err := s.provider.Shutdown(ctx)
	if err != nil {
		return fmt.Errorf("shutdown metrics sink: %w", err)
	}

	return nil
}
