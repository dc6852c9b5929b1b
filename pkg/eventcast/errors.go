package eventcast

import (
	"errors"
	"fmt"

	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
)

// Sentinel errors for adapter construction.
var (
	// ErrNilListener indicates NewListenerAdapter was called without a listener.
	ErrNilListener = errors.New("listener must not be nil")
)

// TypeMismatchError reports an event delivered to a typed listener that its
// declared event type does not cover. It means the caller dispatched without
// consulting SupportsEventType first.
type TypeMismatchError struct {
	// Listener names the listener type that rejected the event.
	Listener string
	// Want is the listener's declared event type.
	Want typedesc.Type
	// Got is the delivered event's type.
	Got typedesc.Type
}

// Error implements the error interface.
func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("listener %s: event type %s does not satisfy declared type %s",
		e.Listener, e.Got, e.Want)
}

// PanicError captures a listener panic recovered by RecoveryMiddleware.
// It includes the stack trace for debugging. Bare adapters never recover
// panics; only the middleware produces this error.
type PanicError struct {
	// Listener names the listener that panicked.
	Listener string
	// Value is the value passed to panic().
	Value any
	// Stack is the full stack trace at the point of panic.
	Stack string
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("listener %s panicked: %v", e.Listener, e.Value)
}
