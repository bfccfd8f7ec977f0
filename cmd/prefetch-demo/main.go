// Command prefetch-demo measures how much background prefetching hides data
// loading time in a simulated training loop.
//
// It loads batches of random matrices, each taking load_delay, and trains on
// them, each step taking compute_delay. The loop runs once sequentially and
// once per configured prefetch capacity, logging elapsed time and speedup.
package main

import (
	"context"
	"os"

	"github.com/kbukum/prefetchkit/bootstrap"
	"github.com/kbukum/prefetchkit/config"
	"github.com/kbukum/prefetchkit/logger"
	"github.com/kbukum/prefetchkit/observability"
	"github.com/kbukum/prefetchkit/version"
)

const serviceName = "prefetch-demo"

func main() {
	if err := run(context.Background()); err != nil {
		logger.Error("prefetch-demo failed", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var cfg Config
	if err := config.LoadConfig(serviceName, &cfg); err != nil {
		return err
	}
	build := version.Get()
	if cfg.Version == "" {
		cfg.Version = build.String()
	}

	app, err := bootstrap.NewApp(&cfg, bootstrap.WithComponents("prefetch", "bench"))
	if err != nil {
		return err
	}

	app.Logger.Info("build", build.Fields())

	b := &bench{
		cfg:      cfg.Benchmark,
		prefetch: cfg.Prefetch,
		log:      logger.Get("bench"),
	}
	app.OnStart(func(ctx context.Context) error {
		metrics, err := setupTelemetry(ctx, app, &cfg)
		b.metrics = metrics
		return err
	})

	return app.RunTask(ctx, func(ctx context.Context) error {
		_, err := b.runAll(ctx)
		return err
	})
}

// setupTelemetry starts OTLP exporters when an endpoint is configured and
// registers their shutdown. Without an endpoint it returns nil metrics.
func setupTelemetry(ctx context.Context, app *bootstrap.App[*Config], cfg *Config) (*observability.Metrics, error) {
	oc := cfg.Observability
	if oc.Endpoint == "" {
		return nil, nil
	}

	mc := observability.DefaultMeterConfig(cfg.Name)
	mc.ServiceVersion = cfg.Version
	mc.Environment = cfg.Environment
	mc.Endpoint = oc.Endpoint
	mc.Insecure = oc.Insecure
	mc.Interval = oc.MetricInterval
	mp, err := observability.InitMeter(ctx, mc)
	if err != nil {
		return nil, err
	}
	app.OnStop(mp.Shutdown)

	if cfg.Prefetch.Tracing {
		tc := observability.DefaultTracerConfig(cfg.Name)
		tc.ServiceVersion = cfg.Version
		tc.Environment = cfg.Environment
		tc.Endpoint = oc.Endpoint
		tc.Insecure = oc.Insecure
		tc.SampleRate = oc.SampleRate
		tp, err := observability.InitTracer(ctx, tc)
		if err != nil {
			return nil, err
		}
		app.OnStop(tp.Shutdown)
	}

	return observability.NewMetrics(observability.Meter(serviceName))
}
