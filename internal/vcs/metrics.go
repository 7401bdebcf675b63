package vcs

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Metrics holds the instruments recorded around annotate invocations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	loads    metric.Int64Counter
	records  metric.Int64Histogram
	duration metric.Float64Histogram
}

// NewMetrics creates the annotate instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	loads, loadsErr := meter.Int64Counter("blameline.loads.total",
		metric.WithDescription("Completed annotate invocations"))
	if loadsErr != nil {
		return nil, fmt.Errorf("create loads counter: %w", loadsErr)
	}

	records, recordsErr := meter.Int64Histogram("blameline.load.records",
		metric.WithDescription("Parsed attribution records per load"))
	if recordsErr != nil {
		return nil, fmt.Errorf("create records histogram: %w", recordsErr)
	}

	duration, durationErr := meter.Float64Histogram("blameline.load.duration",
		metric.WithDescription("Annotate invocation duration"),
		metric.WithUnit("s"))
	if durationErr != nil {
		return nil, fmt.Errorf("create duration histogram: %w", durationErr)
	}

	return &Metrics{loads: loads, records: records, duration: duration}, nil
}

// RecordLoad records one completed annotate invocation.
func (m *Metrics) RecordLoad(ctx context.Context, backend string, recordCount int, elapsed time.Duration) {
	if m == nil {
		return
	}

	attrs := metric.WithAttributes(attribute.String("vcs.backend", backend))

	m.loads.Add(ctx, 1, attrs)
	m.records.Record(ctx, int64(recordCount), attrs)
	m.duration.Record(ctx, elapsed.Seconds(), attrs)
}
