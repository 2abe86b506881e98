// Package logging provides structured logging configuration for hookd.
//
// This package wraps log/slog so the server, the capture pipeline and the CLI
// share one logger setup. It supports configurable log levels and output
// formats.
//
// # Usage
//
//	logger := logging.New(logging.Config{
//	    Level:  logging.LevelInfo,
//	    Format: logging.FormatText,
//	})
//
//	logger.Info("server started", "addr", ":8080")
//
// # Integration
//
// Components accept a *slog.Logger through a constructor option. If none is
// provided they fall back to logging.Nop().
package logging
