package eventcast

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"
	"time"

	"github.com/randalmurphal/eventcast/pkg/eventcast/observability"
)

// Middleware wraps a listener with cross-cutting behavior. Wrappers built
// by the middleware in this package implement ListenerWrapper, so a
// resolver can still recover the target's declared event type through
// them. Wrapping hides every interface of the target except Listener;
// match on the bare listener's adapter and dispatch through the chain
// when filtering capabilities must survive decoration.
type Middleware func(next Listener) Listener

// Chain applies middleware in order, with the first middleware outermost.
func Chain(l Listener, middleware ...Middleware) Listener {
	// Apply in reverse order so first middleware is outermost
	for i := len(middleware) - 1; i >= 0; i-- {
		l = middleware[i](l)
	}
	return l
}

// listenerName returns a stable name for logs, metrics, and spans: the
// listener's declared identity when it has one, else its concrete type.
func listenerName(l Listener) string {
	if id, ok := l.(Identifiable); ok {
		if name := id.ListenerID(); name != "" {
			return name
		}
	}
	return fmt.Sprintf("%T", l)
}

// LoggingMiddleware logs every dispatch through the wrapped listener:
// start and completion at debug level, failures at error level.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	return func(next Listener) Listener {
		return &loggingListener{next: next, logger: logger}
	}
}

type loggingListener struct {
	next   Listener
	logger *slog.Logger
}

// OnEvent implements Listener.
func (l *loggingListener) OnEvent(ctx context.Context, evt Event) error {
	name := listenerName(l.next)
	eventType := fmt.Sprintf("%T", evt)

	observability.LogDispatch(l.logger, name, eventType)
	done := observability.TimedOperation()

	err := l.next.OnEvent(ctx, evt)
	if err != nil {
		observability.LogDispatchError(l.logger, name, eventType, err)
		return err
	}
	observability.LogDispatchComplete(l.logger, name, eventType, done())
	return nil
}

// UnwrapListener implements ListenerWrapper.
func (l *loggingListener) UnwrapListener() Listener {
	return l.next
}

// MetricsMiddleware records dispatch count and latency per listener.
func MetricsMiddleware(metrics observability.MetricsRecorder) Middleware {
	return func(next Listener) Listener {
		return &metricsListener{next: next, metrics: metrics}
	}
}

type metricsListener struct {
	next    Listener
	metrics observability.MetricsRecorder
}

// OnEvent implements Listener.
func (l *metricsListener) OnEvent(ctx context.Context, evt Event) error {
	start := time.Now()
	err := l.next.OnEvent(ctx, evt)
	l.metrics.RecordDispatch(ctx, listenerName(l.next), time.Since(start), err)
	return err
}

// UnwrapListener implements ListenerWrapper.
func (l *metricsListener) UnwrapListener() Listener {
	return l.next
}

// TracingMiddleware opens one span per dispatch, recording the error
// status of the listener call.
func TracingMiddleware(spans observability.SpanManager) Middleware {
	return func(next Listener) Listener {
		return &tracingListener{next: next, spans: spans}
	}
}

type tracingListener struct {
	next  Listener
	spans observability.SpanManager
}

// OnEvent implements Listener.
func (l *tracingListener) OnEvent(ctx context.Context, evt Event) error {
	ctx, span := l.spans.StartDispatchSpan(ctx, listenerName(l.next), fmt.Sprintf("%T", evt))
	err := l.next.OnEvent(ctx, evt)
	l.spans.EndSpanWithError(span, err)
	return err
}

// UnwrapListener implements ListenerWrapper.
func (l *tracingListener) UnwrapListener() Listener {
	return l.next
}

// RecoveryMiddleware converts listener panics into *PanicError results.
// It is opt-in: adapters never recover on their own, and without this
// middleware a panicking listener unwinds into the dispatcher.
func RecoveryMiddleware() Middleware {
	return func(next Listener) Listener {
		return &recoveryListener{next: next}
	}
}

type recoveryListener struct {
	next Listener
}

// OnEvent implements Listener.
func (l *recoveryListener) OnEvent(ctx context.Context, evt Event) (err error) {
	defer func() {
		if v := recover(); v != nil {
			err = &PanicError{
				Listener: listenerName(l.next),
				Value:    v,
				Stack:    string(debug.Stack()),
			}
		}
	}()
	return l.next.OnEvent(ctx, evt)
}

// UnwrapListener implements ListenerWrapper.
func (l *recoveryListener) UnwrapListener() Listener {
	return l.next
}
