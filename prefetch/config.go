package prefetch

import (
	"github.com/kbukum/prefetchkit/errors"
	"github.com/kbukum/prefetchkit/validation"
)

// DefaultCapacity is the look-ahead used when none is configured.
const DefaultCapacity = 1

// Config holds the tunables of a Prefetcher. It carries mapstructure tags so
// it can be embedded in a service configuration loaded by package config.
type Config struct {
	// Name labels logs and metrics. Generated from the prefetcher ID if empty.
	Name string `yaml:"name" mapstructure:"name" validate:"max=128"`
	// Capacity is the number of produced items that may wait for the consumer.
	Capacity int `yaml:"capacity" mapstructure:"capacity" validate:"min=1"`
	// Tracing wraps each production step in an OpenTelemetry span.
	Tracing bool `yaml:"tracing" mapstructure:"tracing"`
}

// ApplyDefaults fills an unset capacity.
func (c *Config) ApplyDefaults() {
	if c.Capacity == 0 {
		c.Capacity = DefaultCapacity
	}
}

// Validate rejects a capacity below one and any other invalid field.
func (c *Config) Validate() error {
	if c.Capacity < 1 {
		return errors.InvalidCapacity(c.Capacity)
	}
	return validation.Validate(c)
}
