package event

import (
	"encoding/json"
	"time"
)

// Event is one immutable record in the log. Once appended it is never
// mutated; read order within a topic is by ID ascending.
type Event struct {
	ID            int64           `db:"id"`
	Topic         string          `db:"topic"`
	Type          string          `db:"type"`
	Payload       json.RawMessage `db:"payload"`
	CorrelationID string          `db:"correlation_id"`
	CreatedAt     time.Time       `db:"created_at"`
}

// DecodePayload unmarshals the event payload into dest.
func (e *Event) DecodePayload(dest interface{}) error {
	return json.Unmarshal(e.Payload, dest)
}

// ConsumerOffset is the per-(consumer, topic) delivery cursor. It is the only
// mutable state owned by the log; LastDeliveredEventID never decreases.
type ConsumerOffset struct {
	ConsumerID           string    `db:"consumer_id"`
	Topic                string    `db:"topic"`
	LastDeliveredEventID int64     `db:"last_delivered_event_id"`
	UpdatedAt            time.Time `db:"updated_at"`
}

// ArchivedEvent is an event row moved out of the hot log during compaction.
type ArchivedEvent struct {
	ID            int64     `ch:"id"`
	Topic         string    `ch:"topic"`
	Type          string    `ch:"type"`
	Payload       string    `ch:"payload"`
	CorrelationID string    `ch:"correlation_id"`
	CreatedAt     time.Time `ch:"created_at"`
	ArchivedAt    time.Time `ch:"archived_at"`
}
