package bootstrap

import (
	"bytes"
	"context"
	"errors"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/prefetchkit/config"
	"github.com/kbukum/prefetchkit/logger"
)

type testConfig struct {
	config.ServiceConfig
}

func newTestConfig(name, version string) *testConfig {
	return &testConfig{
		ServiceConfig: config.ServiceConfig{
			Name:        name,
			Version:     version,
			Environment: "development",
		},
	}
}

func TestNewApp(t *testing.T) {
	app, err := NewApp(newTestConfig("test-svc", "1.0.0"), WithLogger(logger.Nop()))
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	if app.Name != "test-svc" || app.Version != "1.0.0" {
		t.Errorf("got name %q version %q", app.Name, app.Version)
	}
	if app.gracefulTimeout != 15*time.Second {
		t.Errorf("expected default graceful timeout, got %v", app.gracefulTimeout)
	}
	if !app.Cfg.Debug {
		t.Error("expected development defaults to enable debug")
	}
}

func TestNewApp_ValidationError(t *testing.T) {
	_, err := NewApp(newTestConfig("", ""), WithLogger(logger.Nop()))
	if err == nil || !strings.Contains(err.Error(), "config validation") {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestNewApp_InitializesLogger(t *testing.T) {
	app, err := NewApp(newTestConfig("svc", ""))
	if err != nil {
		t.Fatal(err)
	}
	if app.Logger == nil {
		t.Fatal("expected logger to be initialized from config")
	}
}

func TestWithComponents_RegistersLoggers(t *testing.T) {
	var out bytes.Buffer
	base := logger.NewWithWriter(&logger.Config{Level: "info", Format: "json"}, "svc", &out)
	if _, err := NewApp(newTestConfig("svc", ""), WithLogger(base), WithComponents("bootstrap-prefetch")); err != nil {
		t.Fatal(err)
	}

	logger.Get("bootstrap-prefetch").Info("registered")
	got := out.String()
	if !strings.Contains(got, "registered") || !strings.Contains(got, `"component":"bootstrap-prefetch"`) {
		t.Errorf("expected component logger to write through the app logger, got %q", got)
	}
}

func TestWithGracefulTimeout(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()), WithGracefulTimeout(time.Second))
	if app.gracefulTimeout != time.Second {
		t.Errorf("got %v", app.gracefulTimeout)
	}
}

func TestRunTask_HookOrder(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()))

	var order []string
	record := func(name string) Hook {
		return func(context.Context) error {
			order = append(order, name)
			return nil
		}
	}
	app.OnStart(record("start"))
	app.OnStop(record("stop-1"), record("stop-2"))

	err := app.RunTask(context.Background(), func(context.Context) error {
		order = append(order, "task")
		return nil
	})
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"start", "task", "stop-2", "stop-1"}
	if !slices.Equal(order, want) {
		t.Errorf("order = %v, want %v", order, want)
	}
}

func TestRunTask_TaskErrorWins(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()))
	taskErr := errors.New("task failed")
	stopped := false
	app.OnStop(func(context.Context) error {
		stopped = true
		return errors.New("flush failed")
	})

	err := app.RunTask(context.Background(), func(context.Context) error { return taskErr })
	if !errors.Is(err, taskErr) {
		t.Errorf("expected task error, got %v", err)
	}
	if !stopped {
		t.Error("expected stop hooks to run after a failed task")
	}
}

func TestRunTask_StopError(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()))
	flush := errors.New("flush failed")
	app.OnStop(func(context.Context) error { return flush })

	err := app.RunTask(context.Background(), func(context.Context) error { return nil })
	if !errors.Is(err, flush) {
		t.Errorf("expected stop error, got %v", err)
	}
}

func TestRunTask_StartHookFails(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()))
	ran := false
	app.OnStart(func(context.Context) error { return errors.New("exporter unreachable") })

	err := app.RunTask(context.Background(), func(context.Context) error {
		ran = true
		return nil
	})
	if err == nil || !strings.Contains(err.Error(), "onStart hook failed") {
		t.Fatalf("expected start hook error, got %v", err)
	}
	if ran {
		t.Error("task should not run when a start hook fails")
	}
}

func TestRunTask_ParentCancel(t *testing.T) {
	app, _ := NewApp(newTestConfig("svc", ""), WithLogger(logger.Nop()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := app.RunTask(ctx, func(ctx context.Context) error { return ctx.Err() })
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}
