// Package observability provides production-grade observability features
// for eventcast: structured logging, metrics, and distributed tracing.
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled.
package observability

import (
	"log/slog"
	"time"
)

// ListenerLogger adds listener context to a logger.
// Returns a new logger with the listener field attached.
//
// Example:
//
//	enriched := ListenerLogger(logger, "billing-audit")
//	enriched.Info("registered") // includes listener
func ListenerLogger(logger *slog.Logger, listener string) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("listener", listener),
	)
}

// LogClassified logs the capability tier chosen for a listener at
// adapter construction.
func LogClassified(logger *slog.Logger, listener, tier string) {
	if logger == nil {
		return
	}
	logger.Debug("listener classified",
		slog.String("listener", listener),
		slog.String("tier", tier),
	)
}

// LogResolved logs the outcome of declared-event-type resolution.
func LogResolved(logger *slog.Logger, listenerType, declared, outcome string) {
	if logger == nil {
		return
	}
	logger.Debug("declared event type resolved",
		slog.String("listener_type", listenerType),
		slog.String("declared", declared),
		slog.String("outcome", outcome),
	)
}

// LogDispatch logs the start of a dispatch to one listener.
func LogDispatch(logger *slog.Logger, listener, eventType string) {
	if logger == nil {
		return
	}
	logger.Debug("dispatching event",
		slog.String("listener", listener),
		slog.String("event_type", eventType),
	)
}

// LogDispatchComplete logs successful completion of a dispatch.
func LogDispatchComplete(logger *slog.Logger, listener, eventType string, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("dispatch completed",
		slog.String("listener", listener),
		slog.String("event_type", eventType),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDispatchError logs a listener failure during dispatch.
func LogDispatchError(logger *slog.Logger, listener, eventType string, err error) {
	if logger == nil {
		return
	}
	logger.Error("dispatch failed",
		slog.String("listener", listener),
		slog.String("event_type", eventType),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	// ... do work ...
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start).Milliseconds())
	}
}
