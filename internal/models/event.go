package models

import "time"

// Position lifecycle event types published to Kafka.
const (
	EventPositionCreated = "POSITION_CREATED"
	EventPositionDeleted = "POSITION_DELETED"
)

// PositionEvent is the JSON payload published for position lifecycle changes.
type PositionEvent struct {
	EventType string    `json:"event_type"`
	Slug      string    `json:"slug"`
	Position  *Position `json:"position,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
