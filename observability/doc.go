// Package observability wires prefetchkit into OpenTelemetry.
//
// Tracing:
//
//	tp, err := observability.InitTracer(ctx, observability.DefaultTracerConfig("prefetch-demo"))
//	defer tp.Shutdown(ctx)
//
// Metrics:
//
//	mp, err := observability.InitMeter(ctx, observability.DefaultMeterConfig("prefetch-demo"))
//	defer mp.Shutdown(ctx)
//
//	metrics, err := observability.NewMetrics(observability.Meter("prefetch"))
//	p, err := prefetch.New(src, prefetch.WithMetrics(metrics))
//
// Without an initialized provider the global no-op implementations are used,
// so instrumentation costs next to nothing.
package observability
