package eventcast

import (
	"context"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/randalmurphal/eventcast/pkg/eventcast/typedesc"
	"github.com/stretchr/testify/require"
)

// Test event hierarchy used across tests. orderEvent is the base
// interface, bulkOrderEvent narrows it, and the concrete structs below
// implement successively narrower levels. refundIssued is an unrelated
// sibling branch.

type orderEvent interface {
	Event
	OrderID() string
}

type bulkOrderEvent interface {
	orderEvent
	Quantity() int
}

// orderPlaced implements orderEvent only.
type orderPlaced struct {
	BaseEvent
	id string
}

func (e orderPlaced) OrderID() string { return e.id }

// bulkOrderPlaced implements bulkOrderEvent.
type bulkOrderPlaced struct {
	orderPlaced
	qty int
}

func (e bulkOrderPlaced) Quantity() int { return e.qty }

// flashSalePlaced narrows bulkOrderPlaced one more level by embedding.
type flashSalePlaced struct {
	bulkOrderPlaced
	discountPct int
}

// refundIssued branches off the hierarchy root.
type refundIssued struct {
	BaseEvent
	id string
}

func (e refundIssued) RefundID() string { return e.id }

// Event constructors.

func newOrderPlaced(id string) orderPlaced {
	return orderPlaced{BaseEvent: NewBaseEvent("checkout"), id: id}
}

func newBulkOrderPlaced(id string, qty int) bulkOrderPlaced {
	return bulkOrderPlaced{orderPlaced: newOrderPlaced(id), qty: qty}
}

func newFlashSalePlaced(id string, qty, discountPct int) flashSalePlaced {
	return flashSalePlaced{bulkOrderPlaced: newBulkOrderPlaced(id, qty), discountPct: discountPct}
}

func newRefundIssued(id string) refundIssued {
	return refundIssued{BaseEvent: NewBaseEvent("billing"), id: id}
}

// Listener fixtures. All fixtures use pointer receivers for OnEvent, so
// tests pass them around as pointers.

// recordingListener is a plain listener that records what it receives
// and returns a configurable error.
type recordingListener struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (l *recordingListener) OnEvent(_ context.Context, evt Event) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, evt)
	return l.err
}

func (l *recordingListener) received() []Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]Event(nil), l.events...)
}

// orderListener declares orderEvent via the Typed marker.
type orderListener struct {
	Typed[orderEvent]
	recordingListener
}

// bulkOrderListener declares the narrower bulkOrderEvent.
type bulkOrderListener struct {
	Typed[bulkOrderEvent]
	recordingListener
}

// widenedListener declares the hierarchy root, which narrows nothing.
type widenedListener struct {
	Typed[Event]
	recordingListener
}

// smartListener answers kind queries from configurable predicates.
// A nil predicate accepts everything.
type smartListener struct {
	recordingListener
	id          string
	eventKinds  func(reflect.Type) bool
	sourceKinds func(reflect.Type) bool

	queryMu sync.Mutex
	queried []reflect.Type
}

func (l *smartListener) SupportsEventKind(eventKind reflect.Type) bool {
	l.queryMu.Lock()
	l.queried = append(l.queried, eventKind)
	l.queryMu.Unlock()
	if l.eventKinds == nil {
		return true
	}
	return l.eventKinds(eventKind)
}

func (l *smartListener) SupportsSourceKind(sourceKind reflect.Type) bool {
	if l.sourceKinds == nil {
		return true
	}
	return l.sourceKinds(sourceKind)
}

func (l *smartListener) ListenerID() string { return l.id }

func (l *smartListener) queriedKinds() []reflect.Type {
	l.queryMu.Lock()
	defer l.queryMu.Unlock()
	return append([]reflect.Type(nil), l.queried...)
}

// genericListener answers full descriptor queries itself. A nil
// predicate accepts everything.
type genericListener struct {
	recordingListener
	id      string
	accepts func(typedesc.Type) bool

	queryMu sync.Mutex
	queried []typedesc.Type
}

func (l *genericListener) SupportsEventType(eventType typedesc.Type) bool {
	l.queryMu.Lock()
	l.queried = append(l.queried, eventType)
	l.queryMu.Unlock()
	if l.accepts == nil {
		return true
	}
	return l.accepts(eventType)
}

func (l *genericListener) ListenerID() string { return l.id }

func (l *genericListener) queriedTypes() []typedesc.Type {
	l.queryMu.Lock()
	defer l.queryMu.Unlock()
	return append([]typedesc.Type(nil), l.queried...)
}

// dualListener implements both query contracts. Classification must
// pick the generic one and never consult the smart methods.
type dualListener struct {
	recordingListener
	smartQueried bool
}

func (l *dualListener) SupportsEventType(typedesc.Type) bool { return true }

func (l *dualListener) SupportsEventKind(reflect.Type) bool {
	l.smartQueried = true
	return false
}

func (l *dualListener) SupportsSourceKind(reflect.Type) bool {
	l.smartQueried = true
	return false
}

// orderedListener is a plain listener with an explicit priority.
type orderedListener struct {
	recordingListener
	order int
}

func (l *orderedListener) Order() int { return l.order }

// namedPlainListener carries an identity without being smart; the
// adapter must not honor it.
type namedPlainListener struct {
	recordingListener
	id string
}

func (l *namedPlainListener) ListenerID() string { return l.id }

// forwardingWrapper decorates a listener and exposes it through
// UnwrapListener.
type forwardingWrapper struct {
	next Listener
}

func (w *forwardingWrapper) OnEvent(ctx context.Context, evt Event) error {
	return w.next.OnEvent(ctx, evt)
}

func (w *forwardingWrapper) UnwrapListener() Listener { return w.next }

// opaqueWrapper decorates a listener without exposing it.
type opaqueWrapper struct {
	next Listener
}

func (w *opaqueWrapper) OnEvent(ctx context.Context, evt Event) error {
	return w.next.OnEvent(ctx, evt)
}

// captureMetrics records every metrics call for assertions. It
// implements observability.MetricsRecorder.
type captureMetrics struct {
	mu              sync.Mutex
	classifications []string
	resolutions     []string
	hits            int
	misses          int
	dispatched      []string
	dispatchErrs    []error
}

func (m *captureMetrics) RecordClassification(_ context.Context, tier string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.classifications = append(m.classifications, tier)
}

func (m *captureMetrics) RecordResolution(_ context.Context, outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resolutions = append(m.resolutions, outcome)
}

func (m *captureMetrics) RecordCacheLookup(_ context.Context, hit bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if hit {
		m.hits++
	} else {
		m.misses++
	}
}

func (m *captureMetrics) RecordDispatch(_ context.Context, listener string, _ time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dispatched = append(m.dispatched, listener)
	if err != nil {
		m.dispatchErrs = append(m.dispatchErrs, err)
	}
}

func (m *captureMetrics) snapshot() captureSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return captureSnapshot{
		classifications: append([]string(nil), m.classifications...),
		resolutions:     append([]string(nil), m.resolutions...),
		hits:            m.hits,
		misses:          m.misses,
		dispatched:      append([]string(nil), m.dispatched...),
		dispatchErrs:    append([]error(nil), m.dispatchErrs...),
	}
}

type captureSnapshot struct {
	classifications []string
	resolutions     []string
	hits            int
	misses          int
	dispatched      []string
	dispatchErrs    []error
}

// Helpers.

// mustAdapter builds an adapter and fails the test on error.
func mustAdapter(t *testing.T, l Listener, opts ...AdapterOption) *ListenerAdapter {
	t.Helper()
	a, err := NewListenerAdapter(l, opts...)
	require.NoError(t, err)
	return a
}

// freshResolver returns a resolver with a private cache so tests can
// assert on cache population.
func freshResolver(opts ...ResolverOption) (*Resolver, *TypeCache) {
	cache := NewTypeCache()
	r := NewResolver(append([]ResolverOption{WithCache(cache)}, opts...)...)
	return r, cache
}
