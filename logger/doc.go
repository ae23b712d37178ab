// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and request-scoped fields carried through a context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.New(&cfg, "getscript").WithComponent("pipeline")
//	log.Info("stage finished", logger.DurationFields("transcribe", d))
package logger
