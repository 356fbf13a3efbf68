// Package pubsub provides a generic publish/subscribe event system used to
// push file changes into the Bubble Tea update loop.
package pubsub

import (
	"context"
	"time"
)

// EventType represents the type of event being published.
type EventType string

const (
	ChangedEvent EventType = "changed" // A watched document was written or replaced
	RemovedEvent EventType = "removed" // A watched document disappeared
	ErrorEvent   EventType = "error"   // The producer hit a non-fatal error
)

// Event represents a published event with a typed payload.
type Event[T any] struct {
	Type      EventType
	Payload   T
	Timestamp time.Time
}

// Subscriber provides a subscription channel for events.
type Subscriber[T any] interface {
	Subscribe(ctx context.Context) <-chan Event[T]
}

// Publisher allows publishing events with a typed payload.
type Publisher[T any] interface {
	Publish(eventType EventType, payload T)
}
