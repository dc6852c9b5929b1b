package eventcast

import (
	"context"
	"math"
	"reflect"

	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
)

// Listener is the base contract for all event listeners.
// Implementations that want type-based filtering without implementing a
// query interface embed Typed to declare the event type they handle.
type Listener interface {
	// OnEvent handles a dispatched event.
	// Errors propagate unchanged to the dispatcher.
	OnEvent(ctx context.Context, evt Event) error
}

// SmartListener is a listener that answers filtering queries in terms of
// concrete runtime types ("kinds"). It filters both on the event's type
// and on the type of the object that raised it.
type SmartListener interface {
	Listener

	// SupportsEventKind reports whether the listener wants events whose
	// concrete runtime type is eventKind.
	SupportsEventKind(eventKind reflect.Type) bool

	// SupportsSourceKind reports whether the listener wants events raised
	// by a source of the given type. A nil sourceKind means the event
	// carries no source.
	SupportsSourceKind(sourceKind reflect.Type) bool
}

// GenericListener is a self-describing listener: it answers event-type
// queries against full type descriptors, including descriptors that do
// not resolve to a runtime type. It is the most capable listener contract
// and takes precedence over SmartListener during classification.
type GenericListener interface {
	Listener

	// SupportsEventType reports whether the listener wants events of the
	// described type.
	SupportsEventType(eventType typedesc.Type) bool
}

// Ordered is implemented by listeners that declare a dispatch priority.
// Lower values sort earlier. Listeners without a priority are treated as
// LowestPrecedence.
type Ordered interface {
	Order() int
}

// Precedence bounds for Ordered values.
const (
	HighestPrecedence = math.MinInt
	LowestPrecedence  = math.MaxInt
)

// Identifiable is implemented by listeners with a stable identity, used
// by dispatchers to deduplicate registrations. Identity is honored for
// smart listeners; all other listeners are anonymous.
type Identifiable interface {
	ListenerID() string
}

// ListenerFunc adapts a function to the Listener interface.
// The function receives every event type; use ListenerOf for a typed
// variant that participates in declared-type matching.
type ListenerFunc func(ctx context.Context, evt Event) error

// OnEvent implements Listener.
func (f ListenerFunc) OnEvent(ctx context.Context, evt Event) error {
	return f(ctx, evt)
}

// Typed declares the event type a listener handles. Embed it by value:
//
//	type auditListener struct {
//	    eventcast.Typed[AuditEvent]
//	}
//
// The declaration is recovered from the listener's concrete type alone,
// so it survives registration behind the plain Listener interface. A
// wrapper type that does not re-embed Typed hides the declaration; the
// resolver then falls back to the wrapper's target type (see Unwrapper).
type Typed[E Event] struct{}

// declaredEventType marks the embedding type with its declared event type.
func (Typed[E]) declaredEventType() typedesc.Type {
	return typedesc.For[E]()
}

// eventTypeDeclarer is satisfied exactly by types embedding Typed.
type eventTypeDeclarer interface {
	declaredEventType() typedesc.Type
}

// ListenerOf adapts fn into a listener declared for events of type E.
// The returned listener matches E and its subtypes during dispatch
// eligibility checks, so fn only ever sees events satisfying E.
func ListenerOf[E Event](fn func(ctx context.Context, evt E) error) Listener {
	return &typedListener[E]{fn: fn}
}

type typedListener[E Event] struct {
	Typed[E]
	fn func(ctx context.Context, evt E) error
}

// OnEvent implements Listener. An event that does not satisfy E yields a
// TypeMismatchError, which indicates the caller dispatched without an
// eligibility check.
func (l *typedListener[E]) OnEvent(ctx context.Context, evt Event) error {
	e, ok := evt.(E)
	if !ok {
		return &TypeMismatchError{
			Listener: reflect.TypeOf(l).String(),
			Want:     typedesc.For[E](),
			Got:      typedesc.ForInstance(evt),
		}
	}
	return l.fn(ctx, e)
}
