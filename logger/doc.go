// Package logger provides structured logging for prefetchkit using zerolog.
//
// It supports JSON and console output, log level configuration and
// component-scoped loggers. Prefetchers log through the "prefetch"
// component unless a logger is passed explicitly.
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("prefetch")
//	log.Info("producer finished", logger.Fields(logger.FieldItems, 100))
package logger
