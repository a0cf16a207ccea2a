package memory

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"hermes/internal/domain/event"
	"hermes/pkg/errors"
)

// Compile-time checks
var (
	_ event.Log         = (*EventLog)(nil)
	_ event.OffsetStore = (*EventLog)(nil)
)

// EventLog is an in-memory event log and offset store with the same append,
// ordering and compare-and-set semantics as the Postgres implementation. Used
// by tests and local development.
type EventLog struct {
	mu      sync.Mutex
	nextID  int64
	byTopic map[string][]event.Event
	offsets map[offsetKey]int64
}

type offsetKey struct {
	consumerID string
	topic      string
}

// NewEventLog creates an empty in-memory log.
func NewEventLog() *EventLog {
	return &EventLog{
		nextID:  1,
		byTopic: make(map[string][]event.Event),
		offsets: make(map[offsetKey]int64),
	}
}

// Append atomically writes one event with a globally monotonic id.
func (l *EventLog) Append(ctx context.Context, topic, typ string, payload json.RawMessage, correlationID string) (*event.Event, error) {
	if topic == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty topic")
	}
	if typ == "" {
		typ = topic
	}
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	ev := event.Event{
		ID:            l.nextID,
		Topic:         topic,
		Type:          typ,
		Payload:       append(json.RawMessage(nil), payload...),
		CorrelationID: correlationID,
		CreatedAt:     time.Now().UTC(),
	}
	l.nextID++
	l.byTopic[topic] = append(l.byTopic[topic], ev)

	out := ev
	return &out, nil
}

// ReadSince returns up to limit events after afterID in ascending id order.
func (l *EventLog) ReadSince(ctx context.Context, topic string, afterID int64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var out []event.Event
	for _, ev := range l.byTopic[topic] {
		if ev.ID > afterID {
			out = append(out, ev)
			if len(out) >= limit {
				break
			}
		}
	}
	return out, nil
}

// Get returns the last delivered event id for the pair, 0 when absent.
func (l *EventLog) Get(ctx context.Context, consumerID, topic string) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.offsets[offsetKey{consumerID, topic}], nil
}

// Advance performs a compare-and-set cursor update.
func (l *EventLog) Advance(ctx context.Context, consumerID, topic string, from, to int64) (bool, error) {
	if to <= from {
		return false, errors.Wrapf(errors.ErrOffsetRegression, "%s/%s: %d -> %d", consumerID, topic, from, to)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	key := offsetKey{consumerID, topic}
	if l.offsets[key] != from {
		return false, nil
	}
	l.offsets[key] = to
	return true, nil
}

// All returns a copy of every event in a topic, for test assertions.
func (l *EventLog) All(topic string) []event.Event {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]event.Event(nil), l.byTopic[topic]...)
}
