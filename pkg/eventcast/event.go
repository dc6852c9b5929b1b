package eventcast

import (
	"reflect"
	"time"

	"github.com/google/uuid"
)

// Event is the contract every dispatched event satisfies.
//
// Event hierarchies are built with Go interfaces: concrete event structs
// embed BaseEvent, and super-types are interfaces that embed Event. A
// listener declared for a super-type interface receives every event that
// satisfies it.
type Event interface {
	// EventID returns the unique identifier assigned at creation.
	EventID() string

	// Source returns the object that raised the event, or nil when the
	// event has no originating object.
	Source() any

	// OccurredAt returns when the event was created.
	OccurredAt() time.Time
}

// BaseEvent is the embeddable Event implementation.
// Embed it by value in concrete event structs:
//
//	type JobStarted struct {
//	    eventcast.BaseEvent
//	    JobName string
//	}
//
//	evt := JobStarted{BaseEvent: eventcast.NewBaseEvent(scheduler), JobName: "reindex"}
type BaseEvent struct {
	id     string
	source any
	at     time.Time
}

// EventOption configures event creation.
type EventOption func(*eventConfig)

type eventConfig struct {
	id string
	at time.Time
}

// WithEventID sets a specific event ID (default: auto-generated UUID).
func WithEventID(id string) EventOption {
	return func(cfg *eventConfig) {
		cfg.id = id
	}
}

// WithTimestamp sets a specific creation time (default: time.Now()).
func WithTimestamp(t time.Time) EventOption {
	return func(cfg *eventConfig) {
		cfg.at = t
	}
}

// NewBaseEvent creates the embeddable base for a concrete event.
// source is the object that raised the event and may be nil.
func NewBaseEvent(source any, opts ...EventOption) BaseEvent {
	cfg := &eventConfig{
		id: uuid.New().String(),
		at: time.Now(),
	}
	for _, opt := range opts {
		opt(cfg)
	}
	return BaseEvent{
		id:     cfg.id,
		source: source,
		at:     cfg.at,
	}
}

// EventID returns the unique event identifier.
func (e BaseEvent) EventID() string {
	return e.id
}

// Source returns the object that raised the event, or nil.
func (e BaseEvent) Source() any {
	return e.source
}

// OccurredAt returns when the event was created.
func (e BaseEvent) OccurredAt() time.Time {
	return e.at
}

// SourceKind returns the concrete runtime type of an event's source,
// or nil when the event carries no source. Dispatchers pass this to
// ListenerAdapter.SupportsSourceKind.
func SourceKind(evt Event) reflect.Type {
	if evt == nil {
		return nil
	}
	return reflect.TypeOf(evt.Source())
}
