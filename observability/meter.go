package observability

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"

	"github.com/kbukum/getscript/logger"
)

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	Resource Resource
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// InitMeter installs a periodic OTLP meter provider as the global provider.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{otlpmetrichttp.WithEndpoint(config.Endpoint)}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.Resource)
	if err != nil {
		return nil, fmt.Errorf("creating resource: %w", err)
	}

	var readerOpts []sdkmetric.PeriodicReaderOption
	if config.Interval > 0 {
		readerOpts = append(readerOpts, sdkmetric.WithInterval(config.Interval))
	}

	mp := sdkmetric.NewMeterProvider(
		sdkmetric.WithReader(sdkmetric.NewPeriodicReader(exporter, readerOpts...)),
		sdkmetric.WithResource(res),
	)
	otel.SetMeterProvider(mp)

	logger.Info("meter initialized", logger.Fields(
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))
	return mp, nil
}

// Meter returns the service meter from the global provider.
func Meter() metric.Meter {
	return otel.Meter(instrumentationName)
}

// Metrics holds the instruments recorded by the transcript pipeline.
type Metrics struct {
	requests      metric.Int64Counter
	stageDuration metric.Float64Histogram
	cleanupTier   metric.Int64Counter
}

// NewMetrics creates the pipeline instruments on meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	requests, err := meter.Int64Counter("getscript.requests",
		metric.WithDescription("Transcript requests by outcome"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating getscript.requests counter: %w", err)
	}

	stageDuration, err := meter.Float64Histogram("getscript.stage.duration",
		metric.WithDescription("Duration of pipeline stages"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating getscript.stage.duration histogram: %w", err)
	}

	cleanupTier, err := meter.Int64Counter("getscript.cleanup.tier",
		metric.WithDescription("Cleanup runs by tier and fallback reason"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating getscript.cleanup.tier counter: %w", err)
	}

	return &Metrics{
		requests:      requests,
		stageDuration: stageDuration,
		cleanupTier:   cleanupTier,
	}, nil
}

// NoopMetrics returns instruments backed by the global provider, which is a
// no-op until Setup installs an exporter.
func NoopMetrics() *Metrics {
	m, err := NewMetrics(Meter())
	if err != nil {
		panic(err)
	}
	return m
}

// RecordRequest counts a finished request; status is "success" or an error code.
func (m *Metrics) RecordRequest(ctx context.Context, status string) {
	m.requests.Add(ctx, 1, metric.WithAttributes(attribute.String("status", status)))
}

// RecordStage records how long a pipeline stage took and whether it failed.
func (m *Metrics) RecordStage(ctx context.Context, stage string, d time.Duration, err error) {
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.stageDuration.Record(ctx, d.Seconds(), metric.WithAttributes(
		attribute.String("stage", stage),
		attribute.String("status", status),
	))
}

// RecordCleanupTier counts which cleanup tier produced the segments.
// reason is empty when the AI tier succeeded.
func (m *Metrics) RecordCleanupTier(ctx context.Context, tier, reason string) {
	attrs := []attribute.KeyValue{attribute.String("tier", tier)}
	if reason != "" {
		attrs = append(attrs, attribute.String("reason", reason))
	}
	m.cleanupTier.Add(ctx, 1, metric.WithAttributes(attrs...))
}
