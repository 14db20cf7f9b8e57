package events

import "time"

// Event defines the contract for all system events.
type Event interface {
	// EventType returns the unique code for this event (e.g., "SESSION_ARCHIVED").
	EventType() string

	// Payload returns the data associated with the event.
	Payload() map[string]interface{}

	// Timestamp returns when the event occurred.
	Timestamp() time.Time
}

// BaseEvent is the plain implementation used for lifecycle events.
type BaseEvent struct {
	Type       string
	Data       map[string]interface{}
	OccurredAt time.Time
}

func (e BaseEvent) EventType() string {
	return e.Type
}

func (e BaseEvent) Payload() map[string]interface{} {
	return e.Data
}

func (e BaseEvent) Timestamp() time.Time {
	return e.OccurredAt
}

const (
	// SessionArchived fires once per sealed session, after the record has
	// been inserted into the archive.
	SessionArchived = "SESSION_ARCHIVED"
)

// NewSessionArchived builds the event for one sealed session record.
func NewSessionArchived(sessionId string, messageCount int) BaseEvent {
	return BaseEvent{
		Type: SessionArchived,
		Data: map[string]interface{}{
			"session_id": sessionId,
			"messages":   messageCount,
		},
		OccurredAt: time.Now(),
	}
}
