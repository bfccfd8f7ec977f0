// Package bootstrap runs a finite task with a uniform lifecycle: typed
// configuration, logger initialization, start and stop hooks, and
// cancellation on SIGINT or SIGTERM.
//
//	app, err := bootstrap.NewApp(&cfg)
//	if err != nil {
//	    return err
//	}
//	app.OnStop(shutdownTelemetry)
//	return app.RunTask(ctx, func(ctx context.Context) error {
//	    return benchmark(ctx, app.Cfg)
//	})
package bootstrap
