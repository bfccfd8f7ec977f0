// Package config loads service configuration with Viper.
//
// LoadConfig looks for a config.yml and a .env file in the usual places
// (cmd/<service>/, config/, the working directory and its parents), reads the
// YAML first, then lets environment variables override it. An environment
// variable such as PREFETCH_CAPACITY is bound to every plausible nested key
// (prefetch_capacity, prefetch.capacity) so it reaches the matching
// mapstructure field.
//
// # Usage
//
//	type Config struct {
//	    config.ServiceConfig `mapstructure:",squash"`
//	    Prefetch prefetch.Config `mapstructure:"prefetch"`
//	}
//
//	var cfg Config
//	err := config.LoadConfig("prefetch-demo", &cfg)
package config
