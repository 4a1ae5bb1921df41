// Package logger provides structured logging utilities built on Go's standard
// slog package. It offers a small factory for configured loggers plus a set of
// pre-built attribute helpers for common logging scenarios.
//
// # Basic Usage
//
// Create loggers using the factory function with configuration options:
//
//	import "github.com/dmitrymomot/librarium/core/logger"
//
//	// Development logger with debug level
//	log := logger.New(
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	// JSON logger for machine-readable output
//	log := logger.New(
//		logger.WithJSONFormatter(),
//	)
//
//	// Use the logger
//	log.Info("simulation starting",
//		logger.Component("simulation"),
//	)
//
// # Environment Configuration
//
// Loggers can also be built from environment-based configuration:
//
//	var cfg logger.Config
//	config.MustLoad(&cfg)
//	log := logger.NewFromConfig(cfg)
//
// # Attribute Helpers
//
// Attribute helpers use the empty Attr pattern for nil safety, so calls like
// log.Info("msg", logger.Error(err)) need no explicit nil checks.
package logger
