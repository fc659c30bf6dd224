package xoutput

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/omeyang/xelog/xoutput"

	metricRecords = "xelog.output.records"
)

type routerMetrics struct {
	records metric.Int64Counter
}

func newRouterMetrics(provider metric.MeterProvider) (*routerMetrics, error) {
	records, err := provider.Meter(instrumentationName).Int64Counter(
		metricRecords,
		metric.WithDescription("records dispatched per output channel"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xoutput: create counter %s: %w", metricRecords, err)
	}
	return &routerMetrics{records: records}, nil
}

func (m *routerMetrics) record(ctx context.Context, ch Channel, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.records.Add(ctx, 1, metric.WithAttributes(
		attribute.String("channel", ch.String()),
		attribute.String("result", result),
	))
}
