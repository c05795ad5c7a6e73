package domain

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event is an immutable record of something that happened: a type label, a
// UTC timestamp, and an arbitrary JSON payload. The ID is assigned by the
// store at insertion time and is never supplied by clients.
type Event struct {
	ID        uuid.UUID       `json:"id"`
	EventType string          `json:"event_type"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// NewEvent is an event draft: the client-supplied fields of an Event before
// the store has assigned an identifier.
type NewEvent struct {
	EventType string
	Timestamp time.Time
	Payload   json.RawMessage
}

// ParseNewEvent validates the raw creation input and builds an event draft.
// The timestamp must be RFC 3339 and is normalized to UTC; the payload may be
// any JSON value (object, array, scalar, or null) and is kept verbatim.
// Returns a *ValidationError naming the offending field.
func ParseNewEvent(eventType, timestamp string, payload json.RawMessage) (NewEvent, error) {
	if eventType == "" {
		return NewEvent{}, &ValidationError{Field: "event_type", Reason: "is required"}
	}
	if timestamp == "" {
		return NewEvent{}, &ValidationError{Field: "timestamp", Reason: "is required"}
	}

	ts, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return NewEvent{}, &ValidationError{Field: "timestamp", Reason: "must be a valid RFC 3339 timestamp"}
	}

	if len(payload) == 0 {
		return NewEvent{}, &ValidationError{Field: "payload", Reason: "is required"}
	}
	if !json.Valid(payload) {
		return NewEvent{}, &ValidationError{Field: "payload", Reason: "must be valid JSON"}
	}

	return NewEvent{
		EventType: eventType,
		Timestamp: ts.UTC(),
		Payload:   payload,
	}, nil
}
