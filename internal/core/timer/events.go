package timer

import "time"

// EventType defines the type of engine event.
type EventType string

const (
	EventStateChange EventType = "state_change"
	EventCompleted   EventType = "completed"
)

// Event represents an engine update for observers.
type Event struct {
	Type  EventType
	State State
	At    time.Time
}
