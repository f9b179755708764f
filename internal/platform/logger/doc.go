// Package logger provides structured logging functionality for the application.
//
// It configures a log/slog JSON (or text) logger from configuration and
// carries request-scoped loggers through context.Context.
package logger
