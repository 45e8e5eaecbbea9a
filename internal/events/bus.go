// Package events re-exports the platform event bus and declares the
// marketplace's domain event types. Internal modules import events from here
// while the bus implementation lives in platform/events.
package events

import (
	platformevents "berhub_backend/platform/events"
	"berhub_backend/platform/logger"
)

// Bus is a type alias to the platform Bus interface.
type Bus = platformevents.Bus

// InMemoryBus is a type alias to the platform InMemoryBus.
type InMemoryBus = platformevents.InMemoryBus

// BaseEvent is a type alias to the platform BaseEvent.
type BaseEvent = platformevents.BaseEvent

// Handler is a type alias to the platform Handler.
type Handler = platformevents.Handler

// HandlerFunc is a type alias to the platform HandlerFunc.
type HandlerFunc = platformevents.HandlerFunc

// Event is a type alias to the platform Event interface.
type Event = platformevents.Event

// NewInMemoryBus creates a new in-memory event bus.
func NewInMemoryBus(log *logger.Logger) *InMemoryBus {
	return platformevents.NewInMemoryBus(log)
}

// NewBaseEvent creates a base event stamped with the current time.
func NewBaseEvent() BaseEvent {
	return platformevents.NewBaseEvent()
}
