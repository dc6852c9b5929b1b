package eventcast

import (
	"context"
	"fmt"
	"reflect"

	"github.com/randalmurphal/eventcast/pkg/eventcast/observability"
	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
)

// tier is the capability classification of a wrapped listener, fixed at
// adapter construction.
type tier int

const (
	// tierPlain listeners expose no query capability; eligibility comes
	// from their declared event type.
	tierPlain tier = iota
	// tierSmart listeners answer queries in terms of concrete types.
	tierSmart
	// tierGeneric listeners answer full descriptor queries themselves.
	tierGeneric
)

// String returns the tier label used in logs and metrics.
func (t tier) String() string {
	switch t {
	case tierGeneric:
		return "generic"
	case tierSmart:
		return "smart"
	default:
		return "plain"
	}
}

// ListenerAdapter normalizes one listener, whatever its capabilities,
// into the uniform query contract dispatchers consume: event-type match,
// source-type match, priority, identity, and dispatch.
//
// Classification happens once, at construction, and the adapter is
// immutable afterwards: all queries and OnEvent are safe for concurrent
// use. The adapter itself satisfies GenericListener, so adapters stack.
type ListenerAdapter struct {
	listener Listener
	tier     tier

	// generic and smart hold the pre-asserted capability interface for
	// the matching tier; declared is meaningful for plain listeners only.
	generic  GenericListener
	smart    SmartListener
	declared typedesc.Type

	ordered Ordered
	ident   Identifiable
}

// Compile-time interface checks.
var (
	_ GenericListener = (*ListenerAdapter)(nil)
	_ Ordered         = (*ListenerAdapter)(nil)
	_ Identifiable    = (*ListenerAdapter)(nil)
)

// NewListenerAdapter wraps l for use by a dispatcher. It returns
// ErrNilListener when l is nil; no partial adapter is produced.
//
// Classification precedence: GenericListener over SmartListener over
// plain Listener. Plain listeners get their declared event type resolved
// here, once, through the configured resolver.
func NewListenerAdapter(l Listener, opts ...AdapterOption) (*ListenerAdapter, error) {
	if l == nil {
		return nil, ErrNilListener
	}
	cfg := adapterConfig{resolver: defaultResolver}
	for _, opt := range opts {
		opt(&cfg)
	}

	a := &ListenerAdapter{listener: l}
	switch d := l.(type) {
	case GenericListener:
		a.tier = tierGeneric
		a.generic = d
	case SmartListener:
		a.tier = tierSmart
		a.smart = d
	default:
		a.tier = tierPlain
		a.declared = cfg.resolver.DeclaredEventType(l)
	}
	if o, ok := l.(Ordered); ok {
		a.ordered = o
	}
	if id, ok := l.(Identifiable); ok {
		a.ident = id
	}

	cfg.resolver.metrics.RecordClassification(context.Background(), a.tier.String())
	observability.LogClassified(cfg.resolver.logger, fmt.Sprintf("%T", l), a.tier.String())
	return a, nil
}

// SupportsEventType reports whether the wrapped listener wants events of
// the described type.
//
// Generic listeners answer for themselves. Smart listeners are asked in
// terms of the descriptor's concrete type; a descriptor with no concrete
// type matches nothing. Plain listeners match when they declare no event
// type at all, or when the described type is their declared type or a
// subtype of it.
func (a *ListenerAdapter) SupportsEventType(eventType typedesc.Type) bool {
	switch a.tier {
	case tierGeneric:
		return a.generic.SupportsEventType(eventType)
	case tierSmart:
		eventKind, ok := eventType.Resolve()
		if !ok {
			return false
		}
		return a.smart.SupportsEventKind(eventKind)
	default:
		return a.declared.IsNone() || a.declared.AssignableFrom(eventType)
	}
}

// SupportsSourceKind reports whether the wrapped listener wants events
// raised by a source of the given type. Only smart listeners filter on
// source; every other tier accepts all sources.
func (a *ListenerAdapter) SupportsSourceKind(sourceKind reflect.Type) bool {
	if a.tier == tierSmart {
		return a.smart.SupportsSourceKind(sourceKind)
	}
	return true
}

// Order returns the listener's own priority when it declares one and
// LowestPrecedence otherwise, so listeners without a priority sort last.
func (a *ListenerAdapter) Order() int {
	if a.ordered != nil {
		return a.ordered.Order()
	}
	return LowestPrecedence
}

// ListenerID returns the identity of a smart listener that declares one.
// Every other listener is anonymous and yields the empty string.
func (a *ListenerAdapter) ListenerID() string {
	if a.tier == tierSmart && a.ident != nil {
		return a.ident.ListenerID()
	}
	return ""
}

// OnEvent forwards evt to the wrapped listener unchanged. The adapter
// never catches, wraps, or retries listener failures; recovery policy
// belongs to the dispatcher.
func (a *ListenerAdapter) OnEvent(ctx context.Context, evt Event) error {
	return a.listener.OnEvent(ctx, evt)
}

// Listener returns the wrapped listener, for dispatcher bookkeeping such
// as unregistration by reference.
func (a *ListenerAdapter) Listener() Listener {
	return a.listener
}

// Tier returns the capability tier chosen at construction: "generic",
// "smart", or "plain".
func (a *ListenerAdapter) Tier() string {
	return a.tier.String()
}

// DeclaredEventType returns the declared event type resolved for a plain
// listener, or typedesc.None for unfiltered and non-plain listeners.
func (a *ListenerAdapter) DeclaredEventType() typedesc.Type {
	return a.declared
}
