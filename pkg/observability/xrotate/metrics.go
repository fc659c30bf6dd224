package xrotate

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	instrumentationName = "github.com/omeyang/xelog/xrotate"

	metricWrites        = "xelog.sink.writes"
	metricRotations     = "xelog.sink.rotations"
	metricWriteDuration = "xelog.sink.write.duration"
)

// 写入/轮转结果属性值
const (
	resultOK      = "ok"
	resultDropped = "dropped"
	resultError   = "error"
)

type sinkMetrics struct {
	writes    metric.Int64Counter
	rotations metric.Int64Counter
	duration  metric.Float64Histogram
}

func newSinkMetrics(provider metric.MeterProvider) (*sinkMetrics, error) {
	meter := provider.Meter(instrumentationName)

	writes, err := meter.Int64Counter(
		metricWrites,
		metric.WithDescription("log records handled by the file sink"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xrotate: create counter %s: %w", metricWrites, err)
	}

	rotations, err := meter.Int64Counter(
		metricRotations,
		metric.WithDescription("generation rotations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return nil, fmt.Errorf("xrotate: create counter %s: %w", metricRotations, err)
	}

	duration, err := meter.Float64Histogram(
		metricWriteDuration,
		metric.WithDescription("file sink write duration including rotation and sync"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("xrotate: create histogram %s: %w", metricWriteDuration, err)
	}

	return &sinkMetrics{writes: writes, rotations: rotations, duration: duration}, nil
}

func (m *sinkMetrics) recordWrite(result string, d time.Duration) {
	ctx := context.Background()
	attrs := metric.WithAttributes(attribute.String("result", result))
	m.writes.Add(ctx, 1, attrs)
	m.duration.Record(ctx, d.Seconds(), attrs)
}

func (m *sinkMetrics) recordRotation(err error) {
	result := resultOK
	if err != nil {
		result = resultError
	}
	m.rotations.Add(context.Background(), 1, metric.WithAttributes(attribute.String("result", result)))
}
