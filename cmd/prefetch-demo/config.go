package main

import (
	"fmt"
	"time"

	"github.com/kbukum/prefetchkit/config"
	"github.com/kbukum/prefetchkit/prefetch"
	"github.com/kbukum/prefetchkit/validation"
)

// Config is the demo configuration, loaded from config.yml, .env and the
// environment (PREFETCH_CAPACITY, BENCHMARK_BATCHES, ...).
type Config struct {
	config.ServiceConfig `yaml:",inline" mapstructure:",squash"`

	Prefetch      prefetch.Config     `yaml:"prefetch" mapstructure:"prefetch"`
	Benchmark     BenchmarkConfig     `yaml:"benchmark" mapstructure:"benchmark"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

// BenchmarkConfig describes the simulated training loop.
type BenchmarkConfig struct {
	Batches      int           `yaml:"batches" mapstructure:"batches" validate:"min=1"`
	MatrixSize   int           `yaml:"matrix_size" mapstructure:"matrix_size" validate:"min=1,max=1024"`
	LoadDelay    time.Duration `yaml:"load_delay" mapstructure:"load_delay" validate:"min=0"`
	ComputeDelay time.Duration `yaml:"compute_delay" mapstructure:"compute_delay" validate:"min=0"`
	Capacities   []int         `yaml:"capacities" mapstructure:"capacities" validate:"dive,min=1"`
	Seed         uint64        `yaml:"seed" mapstructure:"seed"`
}

// ObservabilityConfig enables OTLP export when Endpoint is set.
type ObservabilityConfig struct {
	Endpoint       string        `yaml:"endpoint" mapstructure:"endpoint"`
	Insecure       bool          `yaml:"insecure" mapstructure:"insecure"`
	SampleRate     float64       `yaml:"sample_rate" mapstructure:"sample_rate" validate:"min=0,max=1"`
	MetricInterval time.Duration `yaml:"metric_interval" mapstructure:"metric_interval"`
}

// ApplyDefaults fills unset fields with the classic 100 x 30x30 setup.
func (c *Config) ApplyDefaults() {
	if c.Name == "" {
		c.Name = serviceName
	}
	c.ServiceConfig.ApplyDefaults()
	c.Prefetch.ApplyDefaults()

	b := &c.Benchmark
	if b.Batches == 0 {
		b.Batches = 100
	}
	if b.MatrixSize == 0 {
		b.MatrixSize = 30
	}
	if b.LoadDelay == 0 {
		b.LoadDelay = 20 * time.Millisecond
	}
	if b.ComputeDelay == 0 {
		b.ComputeDelay = 20 * time.Millisecond
	}
	if len(b.Capacities) == 0 {
		b.Capacities = []int{c.Prefetch.Capacity, 10}
	}
	if b.Seed == 0 {
		b.Seed = 42
	}

	if c.Observability.SampleRate == 0 {
		c.Observability.SampleRate = 1.0
	}
	if c.Observability.MetricInterval == 0 {
		c.Observability.MetricInterval = 5 * time.Second
	}
}

// Validate checks every section.
func (c *Config) Validate() error {
	if err := c.ServiceConfig.Validate(); err != nil {
		return err
	}
	if err := c.Prefetch.Validate(); err != nil {
		return fmt.Errorf("config.prefetch: %w", err)
	}
	if err := validation.Validate(&c.Benchmark); err != nil {
		return fmt.Errorf("config.benchmark: %w", err)
	}
	if err := validation.Validate(&c.Observability); err != nil {
		return fmt.Errorf("config.observability: %w", err)
	}
	return nil
}
