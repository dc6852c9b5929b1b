package eventcast

import (
	"context"
	"log/slog"
	"reflect"

	"github.com/randalmurphal/eventcast/pkg/eventcast/observability"
	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
)

// baseEventType is the root of every event hierarchy. A declared type
// assignable from it narrows nothing.
var baseEventType = typedesc.For[Event]()

// sharedCache backs every resolver not given a private cache. Declared
// types depend only on the listener's concrete type, so one process-wide
// cache is correct for all resolvers.
var sharedCache = NewTypeCache()

// defaultResolver serves adapters constructed without WithResolver.
var defaultResolver = NewResolver()

// Resolver infers the declared event type of listeners. Inference runs
// once per concrete listener type; results, including "declares nothing",
// are memoized in a TypeCache. Resolution never fails: a listener whose
// declaration cannot be read is simply unfiltered.
type Resolver struct {
	cache     *TypeCache
	unwrapper Unwrapper
	logger    *slog.Logger
	metrics   observability.MetricsRecorder
}

// NewResolver creates a resolver. With no options it shares the
// process-wide cache, follows ListenerWrapper chains via
// DefaultUnwrapper, and records nothing.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{
		cache:     sharedCache,
		unwrapper: DefaultUnwrapper,
		metrics:   observability.NoopMetrics{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// DeclaredEventType returns the event type l declares, or typedesc.None
// when l declares nothing and is therefore unfiltered.
//
// The declaration is read from l's concrete type. When that yields
// nothing, or yields a type that does not narrow beyond Event, the
// resolver asks the unwrapper for l's target type and reads the
// declaration from there instead. Wrappers around a typed listener erase
// or widen its declaration; re-resolving against the target recovers it.
func (r *Resolver) DeclaredEventType(l Listener) typedesc.Type {
	if l == nil {
		return typedesc.None
	}
	listenerType := reflect.TypeOf(l)
	declared := r.declaredTypeFor(listenerType)

	outcome := "narrowed"
	if declared.IsNone() || declared.AssignableFrom(baseEventType) {
		outcome = "unfiltered"
		if target := r.unwrapper.TargetType(l); target != nil && target != listenerType {
			declared = r.declaredTypeFor(target)
			if !declared.IsNone() && !declared.AssignableFrom(baseEventType) {
				outcome = "recovered"
			}
		}
	}

	r.metrics.RecordResolution(context.Background(), outcome)
	observability.LogResolved(r.logger, listenerType.String(), declared.String(), outcome)
	return declared
}

// declaredTypeFor returns the memoized declaration for a concrete type.
func (r *Resolver) declaredTypeFor(t reflect.Type) typedesc.Type {
	d, hit := r.cache.GetOrCompute(t, probeDeclaredType)
	r.metrics.RecordCacheLookup(context.Background(), hit)
	return d
}

// probeDeclaredType reads the Typed marker from a concrete listener type.
// It builds a zero value of the type and asserts the marker interface;
// types without the marker declare nothing. A malformed embedding (such
// as an embedded *Typed) must read as "no declaration", not a panic.
func probeDeclaredType(t reflect.Type) (declared typedesc.Type) {
	defer func() {
		if recover() != nil {
			declared = typedesc.None
		}
	}()
	if t == nil {
		return typedesc.None
	}
	var probe reflect.Value
	if t.Kind() == reflect.Pointer {
		probe = reflect.New(t.Elem())
	} else {
		probe = reflect.New(t).Elem()
	}
	if d, ok := probe.Interface().(eventTypeDeclarer); ok {
		return d.declaredEventType()
	}
	return typedesc.None
}
