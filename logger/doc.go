// Package logger provides structured logging on top of zerolog.
//
// It supports JSON and console output, level configuration from config or
// environment, component-scoped loggers, and context enrichment: WithContext
// picks up the active trace, span, and run identifiers so every task log
// line can be correlated with its run.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("dag")
//	log.WithContext(ctx).Info("task done", logger.Fields(logger.FieldTask, id))
package logger
