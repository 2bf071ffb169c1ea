// Package logger provides structured logging for dbkit using zerolog.
//
// It supports multiple output formats (JSON, console), log level
// configuration, and component-scoped loggers with structured fields.
//
// # Usage
//
//	log := logger.NewDefault("dbkit")
//	log.WithComponent("database").Info("pool initialized", logger.Fields("driver", "pgx"))
package logger
