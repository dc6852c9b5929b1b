/*
Package eventcast adapts heterogeneous event listeners behind one
capability-aware interface.

# Overview

eventcast is a Go library for normalizing event listeners. Application
code registers listeners of varying sophistication, from plain handlers
to fully type-aware implementations, and dispatch infrastructure needs
one uniform way to ask "does this listener want this event?" without
caring which kind it holds.

ListenerAdapter is that uniform surface. It classifies a listener once
at construction, infers the event type a plain listener was written for,
and answers capability queries on the listener's behalf:

  - Type-safe event filtering without per-dispatch reflection
  - Declared-type inference through generics, cached per listener type
  - Recovery of type information hidden behind wrapping middleware
  - OpenTelemetry integration for observability

# Basic Usage

Declare an event, write a typed handler, and wrap it in an adapter:

	type OrderPlaced struct {
	    eventcast.BaseEvent
	    OrderID string
	}

	handler := eventcast.ListenerOf[OrderPlaced](func(ctx context.Context, evt OrderPlaced) error {
	    fmt.Println("order placed:", evt.OrderID)
	    return nil
	})

	adapter, err := eventcast.NewListenerAdapter(handler)
	if err != nil {
	    log.Fatal(err)
	}

	evt := OrderPlaced{BaseEvent: eventcast.NewBaseEvent("checkout"), OrderID: "ord-42"}
	if adapter.SupportsEventType(typedesc.For[OrderPlaced]()) {
	    if err := adapter.OnEvent(context.Background(), evt); err != nil {
	        log.Fatal(err)
	    }
	}

SupportsEventType returns false for unrelated event types, so a
dispatcher holding many adapters can filter before delivering.

# Capability Tiers

Listeners fall into one of three tiers, detected once when the adapter
is built:

  - generic: implements GenericListener and answers SupportsEventType
    itself. The adapter delegates every query verbatim.
  - smart: implements SmartListener and reasons about reflect.Type
    values. The adapter resolves the typedesc.Type to a concrete
    reflect.Type before delegating; unresolvable types are rejected.
  - plain: implements only Listener. The adapter infers the declared
    event type and filters by assignability.

A listener implementing both GenericListener and SmartListener is
classified generic. The tier never changes after construction; Tier
reports it for logging and metrics.

# Declared Event Types

Plain listeners declare their event type by embedding Typed:

	type refundListener struct {
	    eventcast.Typed[RefundIssued]
	}

	func (refundListener) OnEvent(ctx context.Context, evt eventcast.Event) error { ... }

ListenerOf attaches the marker automatically. The adapter accepts
RefundIssued and any event assignable to it, and rejects everything
else. A plain listener without a marker (or one declared for the broad
Event interface) accepts all events.

Inference runs through Resolver and is cached in a TypeCache keyed by
the listener's concrete type, so reflection happens once per type no
matter how many adapters are built.

# Wrapped Listeners

Middleware such as LoggingMiddleware returns a new Listener that hides
the original's type. Wrappers expose the wrapped listener through
UnwrapListener, and the resolver follows that chain when direct
inference comes up empty:

	wrapped := eventcast.Chain(handler,
	    eventcast.RecoveryMiddleware(),
	    eventcast.LoggingMiddleware(logger),
	    eventcast.MetricsMiddleware(metrics),
	)

	adapter, err := eventcast.NewListenerAdapter(wrapped)
	// adapter still filters by RefundIssued: the declaration is
	// recovered from the innermost listener.

Custom wrappers participate by implementing ListenerWrapper. The chain
walk is bounded, and a custom Unwrapper can replace DefaultUnwrapper
via WithUnwrapper for proxying schemes with their own conventions.

# Configuration

Resolver behavior can be driven from YAML or JSON:

	cfg, err := config.FromFile("eventcast.yaml")
	if err != nil {
	    log.Fatal(err)
	}
	resolver := eventcast.ResolverFromConfig(cfg)
	adapter, err := eventcast.NewListenerAdapter(listener, eventcast.WithResolver(resolver))

Recognized keys: matching.unwrap_wrappers (bool) and
observability.metrics (bool).

# Observability

Middleware wires dispatch into slog and OpenTelemetry:

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	wrapped := eventcast.Chain(handler,
	    eventcast.LoggingMiddleware(logger),
	    eventcast.MetricsMiddleware(observability.NewMetricsRecorder()),
	    eventcast.TracingMiddleware(observability.NewSpanManager()),
	)

Logs include structured fields: listener, event_type, duration_ms.
OpenTelemetry metrics: eventcast.dispatch.count, eventcast.dispatch.latency_ms,
eventcast.listener.classifications, eventcast.type.resolutions, etc.
OpenTelemetry tracing: one eventcast.dispatch span per delivery.

# Error Handling

NewListenerAdapter returns ErrNilListener for a nil listener; every
other failure mode during classification and inference degrades to
"no declared type" rather than an error. Dispatch forwards listener
errors unmodified:

	err := adapter.OnEvent(ctx, evt)
	var mismatch *eventcast.TypeMismatchError
	if errors.As(err, &mismatch) {
	    log.Printf("listener %s wanted %s, got %s", mismatch.Listener, mismatch.Want, mismatch.Got)
	}

RecoveryMiddleware converts listener panics into *PanicError with a
stack trace; without it, panics propagate to the caller.

# Thread Safety

  - ListenerAdapter IS safe for concurrent use (immutable after construction)
  - TypeCache IS safe for concurrent use
  - Resolver IS safe for concurrent use
  - Middleware-wrapped listeners are as safe as the listener they wrap

# Subpackages

  - typedesc: Resolvable event type descriptors
  - observability: Logging, metrics, and tracing helpers
  - config: Type-safe configuration extraction
*/
package eventcast
