package bootstrap

import (
	"github.com/kbukum/prefetchkit/config"
)

// Config is the constraint for application configuration types.
// Any struct that embeds config.ServiceConfig satisfies it via promoted
// methods.
//
//	type DemoConfig struct {
//	    config.ServiceConfig `yaml:",inline" mapstructure:",squash"`
//	    Prefetch prefetch.Config `yaml:"prefetch" mapstructure:"prefetch"`
//	}
type Config interface {
	GetServiceConfig() *config.ServiceConfig
	ApplyDefaults()
	Validate() error
}
