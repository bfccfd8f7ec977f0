package prefetch

import (
	"context"

	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/observability"
)

type options struct {
	cfg     Config
	log     *logger.Logger
	metrics *observability.Metrics
	ctx     context.Context
}

func defaultOptions() options {
	return options{
		cfg: Config{Capacity: DefaultCapacity},
		ctx: context.Background(),
	}
}

// Option configures a Prefetcher.
type Option func(*options)

// WithCapacity sets how many produced items may wait for the consumer.
func WithCapacity(n int) Option {
	return func(o *options) { o.cfg.Capacity = n }
}

// WithName labels the prefetcher in logs and metrics.
func WithName(name string) Option {
	return func(o *options) { o.cfg.Name = name }
}

// WithTracing wraps each production step in a span.
func WithTracing(enabled bool) Option {
	return func(o *options) { o.cfg.Tracing = enabled }
}

// WithConfig replaces the whole configuration. Later options still apply.
func WithConfig(cfg Config) Option {
	return func(o *options) { o.cfg = cfg }
}

// WithLogger sets the logger. Defaults to the "prefetch" component logger.
func WithLogger(l *logger.Logger) Option {
	return func(o *options) { o.log = l }
}

// WithMetrics records production and consumption on m.
func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) { o.metrics = m }
}

// WithContext sets the parent of the context handed to Source.Next.
// Cancelling it makes context-aware sources fail, which the consumer
// observes as a source failure; it does not drop buffered items.
func WithContext(ctx context.Context) Option {
	return func(o *options) {
		if ctx != nil {
			o.ctx = ctx
		}
	}
}
