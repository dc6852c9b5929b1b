package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records eventcast metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordClassification records an adapter construction with the tier
	// chosen for the listener ("generic", "smart", or "plain").
	RecordClassification(ctx context.Context, tier string)

	// RecordResolution records a declared-event-type resolution with its
	// outcome ("narrowed", "recovered", or "unfiltered").
	RecordResolution(ctx context.Context, outcome string)

	// RecordCacheLookup records a declared-type cache access.
	RecordCacheLookup(ctx context.Context, hit bool)

	// RecordDispatch records one dispatch with its duration and error status.
	RecordDispatch(ctx context.Context, listener string, duration time.Duration, err error)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	classifications metric.Int64Counter
	resolutions     metric.Int64Counter
	cacheLookups    metric.Int64Counter
	dispatches      metric.Int64Counter
	dispatchLatency metric.Float64Histogram
	dispatchErrors  metric.Int64Counter
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics returns the default OTel metrics instance.
// Lazily initializes the metrics on first call.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates a new OTel metrics instance.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("eventcast")

	classifications, err := meter.Int64Counter("eventcast.listener.classifications",
		metric.WithDescription("Number of adapter constructions by capability tier"),
	)
	if err != nil {
		return nil, err
	}

	resolutions, err := meter.Int64Counter("eventcast.type.resolutions",
		metric.WithDescription("Number of declared-event-type resolutions by outcome"),
	)
	if err != nil {
		return nil, err
	}

	cacheLookups, err := meter.Int64Counter("eventcast.cache.lookups",
		metric.WithDescription("Number of declared-type cache lookups"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("eventcast.dispatch.count",
		metric.WithDescription("Number of dispatches"),
	)
	if err != nil {
		return nil, err
	}

	dispatchLatency, err := meter.Float64Histogram("eventcast.dispatch.latency_ms",
		metric.WithDescription("Dispatch latency in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	dispatchErrors, err := meter.Int64Counter("eventcast.dispatch.errors",
		metric.WithDescription("Number of dispatch errors"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		classifications: classifications,
		resolutions:     resolutions,
		cacheLookups:    cacheLookups,
		dispatches:      dispatches,
		dispatchLatency: dispatchLatency,
		dispatchErrors:  dispatchErrors,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

// RecordClassification records an adapter construction.
func (m *otelMetrics) RecordClassification(ctx context.Context, tier string) {
	m.classifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("tier", tier),
	))
}

// RecordResolution records a declared-event-type resolution.
func (m *otelMetrics) RecordResolution(ctx context.Context, outcome string) {
	m.resolutions.Add(ctx, 1, metric.WithAttributes(
		attribute.String("outcome", outcome),
	))
}

// RecordCacheLookup records a declared-type cache access.
func (m *otelMetrics) RecordCacheLookup(ctx context.Context, hit bool) {
	m.cacheLookups.Add(ctx, 1, metric.WithAttributes(
		attribute.Bool("hit", hit),
	))
}

// RecordDispatch records one dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, listener string, duration time.Duration, err error) {
	attrs := []attribute.KeyValue{
		attribute.String("listener", listener),
	}

	m.dispatches.Add(ctx, 1, metric.WithAttributes(attrs...))
	m.dispatchLatency.Record(ctx, float64(duration.Milliseconds()), metric.WithAttributes(attrs...))

	if err != nil {
		m.dispatchErrors.Add(ctx, 1, metric.WithAttributes(attrs...))
	}
}
