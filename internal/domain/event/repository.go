package event

import (
	"context"
	"encoding/json"
)

// Log defines append and ordered read access to the event store.
type Log interface {
	// Append atomically writes one event, strictly ordered after all prior
	// events in the topic. It never partially writes.
	Append(ctx context.Context, topic, typ string, payload json.RawMessage, correlationID string) (*Event, error)

	// ReadSince returns up to limit events in the topic with ID greater than
	// afterID, in ascending ID order. Safe to call repeatedly with the same
	// afterID; reads have no side effects.
	ReadSince(ctx context.Context, topic string, afterID int64, limit int) ([]Event, error)
}

// OffsetStore tracks per-(consumer, topic) delivery cursors.
type OffsetStore interface {
	// Get returns the last delivered event id for the pair, 0 when absent.
	Get(ctx context.Context, consumerID, topic string) (int64, error)

	// Advance moves the cursor from `from` to `to` with compare-and-set
	// semantics. It returns false when another instance already advanced the
	// cursor past `from`; the caller must re-read and retry its poll cycle.
	Advance(ctx context.Context, consumerID, topic string, from, to int64) (bool, error)
}

// Archiver supports compaction of fully-delivered old events.
type Archiver interface {
	// ReadDeliveredBefore returns events older than cutoff whose id is at or
	// below the minimum offset across all registered consumers of the topic.
	ReadDeliveredBefore(ctx context.Context, topic string, maxID int64, limit int) ([]Event, error)

	// DeleteThrough removes events in the topic with id at or below maxID.
	DeleteThrough(ctx context.Context, topic string, maxID int64) (int64, error)

	// MinOffset returns the smallest delivery cursor across consumers of the
	// topic, or 0 when the topic has no registered consumers.
	MinOffset(ctx context.Context, topic string) (int64, error)
}
