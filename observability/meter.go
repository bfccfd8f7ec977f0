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

	"github.com/kbukum/prefetchkit/logger"
)

// Instrument names.
const (
	MetricItemsProduced   = "prefetch.items.produced"
	MetricItemsConsumed   = "prefetch.items.consumed"
	MetricProduceDuration = "prefetch.produce.duration"
	MetricWaitDuration    = "prefetch.wait.duration"
	MetricOccupancy       = "prefetch.buffer.occupancy"
	MetricFailures        = "prefetch.failures"
)

// AttrPrefetcher labels every instrument with the prefetcher name.
const AttrPrefetcher = "prefetcher"

// MeterConfig configures the OpenTelemetry meter provider.
type MeterConfig struct {
	// ServiceName is the name of the service.
	ServiceName string
	// ServiceVersion is the version of the service.
	ServiceVersion string
	// Environment is the deployment environment (dev, staging, prod).
	Environment string
	// Endpoint is the OTLP HTTP endpoint host:port (e.g., "localhost:4318").
	Endpoint string
	// Insecure allows insecure connections (for development).
	Insecure bool
	// Interval is the metric export interval.
	Interval time.Duration
}

// DefaultMeterConfig returns sensible defaults for development.
func DefaultMeterConfig(serviceName string) MeterConfig {
	return MeterConfig{
		ServiceName:    serviceName,
		ServiceVersion: "1.0.0",
		Environment:    "development",
		Endpoint:       "localhost:4318",
		Insecure:       true,
		Interval:       15 * time.Second,
	}
}

// InitMeter initializes the global meter provider with an OTLP HTTP exporter.
// The returned provider must be shut down on exit to flush pending data.
func InitMeter(ctx context.Context, config MeterConfig) (*sdkmetric.MeterProvider, error) {
	opts := []otlpmetrichttp.Option{
		otlpmetrichttp.WithEndpoint(config.Endpoint),
	}
	if config.Insecure {
		opts = append(opts, otlpmetrichttp.WithInsecure())
	}

	exporter, err := otlpmetrichttp.New(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("creating metric exporter: %w", err)
	}

	res, err := newResource(config.ServiceName, config.ServiceVersion, config.Environment)
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

	logger.Get("observability").Info("meter initialized", logger.Fields(
		"service", config.ServiceName,
		"endpoint", config.Endpoint,
		"interval", config.Interval.String(),
	))

	return mp, nil
}

// Meter returns a named meter from the global provider.
func Meter(name string) metric.Meter {
	return otel.Meter(name)
}

// Metrics holds the instruments recorded by prefetchers.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	produced        metric.Int64Counter
	consumed        metric.Int64Counter
	failures        metric.Int64Counter
	occupancy       metric.Int64UpDownCounter
	produceDuration metric.Float64Histogram
	waitDuration    metric.Float64Histogram
}

// NewMetrics creates the prefetch instruments on the given meter.
func NewMetrics(meter metric.Meter) (*Metrics, error) {
	produced, err := meter.Int64Counter(MetricItemsProduced,
		metric.WithDescription("Items pulled from the source and buffered"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsProduced, err)
	}

	consumed, err := meter.Int64Counter(MetricItemsConsumed,
		metric.WithDescription("Items handed to the consumer"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricItemsConsumed, err)
	}

	failures, err := meter.Int64Counter(MetricFailures,
		metric.WithDescription("Source failures by kind"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s counter: %w", MetricFailures, err)
	}

	occupancy, err := meter.Int64UpDownCounter(MetricOccupancy,
		metric.WithDescription("Produced items not yet consumed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s gauge: %w", MetricOccupancy, err)
	}

	produceDuration, err := meter.Float64Histogram(MetricProduceDuration,
		metric.WithDescription("Time spent producing one item"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricProduceDuration, err)
	}

	waitDuration, err := meter.Float64Histogram(MetricWaitDuration,
		metric.WithDescription("Time the consumer spent blocked waiting for an item"),
		metric.WithUnit("s"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating %s histogram: %w", MetricWaitDuration, err)
	}

	return &Metrics{
		produced:        produced,
		consumed:        consumed,
		failures:        failures,
		occupancy:       occupancy,
		produceDuration: produceDuration,
		waitDuration:    waitDuration,
	}, nil
}

// RecordProduced records an item that entered the buffer after d of work.
func (m *Metrics) RecordProduced(ctx context.Context, prefetcher string, d time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrPrefetcher, prefetcher))
	m.produced.Add(ctx, 1, attrs)
	m.occupancy.Add(ctx, 1, attrs)
	m.produceDuration.Record(ctx, d.Seconds(), attrs)
}

// RecordConsumed records an item taken by the consumer after waiting for it.
func (m *Metrics) RecordConsumed(ctx context.Context, prefetcher string, wait time.Duration) {
	if m == nil {
		return
	}
	attrs := metric.WithAttributes(attribute.String(AttrPrefetcher, prefetcher))
	m.consumed.Add(ctx, 1, attrs)
	m.occupancy.Add(ctx, -1, attrs)
	m.waitDuration.Record(ctx, wait.Seconds(), attrs)
}

// RecordDropped removes n items discarded unconsumed from the occupancy count.
func (m *Metrics) RecordDropped(ctx context.Context, prefetcher string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.occupancy.Add(ctx, -int64(n), metric.WithAttributes(attribute.String(AttrPrefetcher, prefetcher)))
}

// RecordFailure records a source failure; kind is the error code.
func (m *Metrics) RecordFailure(ctx context.Context, prefetcher, kind string) {
	if m == nil {
		return
	}
	m.failures.Add(ctx, 1, metric.WithAttributes(
		attribute.String(AttrPrefetcher, prefetcher),
		attribute.String("kind", kind),
	))
}
