package postgres

import (
	"context"
	"encoding/json"

	"github.com/jmoiron/sqlx"

	"hermes/internal/domain/event"
	"hermes/pkg/errors"
)

// Compile-time checks
var (
	_ event.Log      = (*EventLogRepository)(nil)
	_ event.Archiver = (*EventLogRepository)(nil)
)

// EventLogRepository implements the durable event log on Postgres. Ordering
// within a topic comes from the BIGSERIAL primary key.
type EventLogRepository struct {
	db *sqlx.DB
}

// NewEventLogRepository creates a new event log repository
func NewEventLogRepository(db *sqlx.DB) *EventLogRepository {
	return &EventLogRepository{db: db}
}

// Append atomically inserts one event and returns it with its assigned id.
func (r *EventLogRepository) Append(ctx context.Context, topic, typ string, payload json.RawMessage, correlationID string) (*event.Event, error) {
	if topic == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty topic")
	}
	if typ == "" {
		typ = topic
	}
	if len(payload) == 0 {
		payload = json.RawMessage(`{}`)
	}

	query := `
		INSERT INTO events (topic, type, payload, correlation_id, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, topic, type, payload, correlation_id, created_at`

	var ev event.Event
	if err := r.db.GetContext(ctx, &ev, query, topic, typ, payload, correlationID); err != nil {
		return nil, errors.Wrapf(err, "append event to %s", topic)
	}

	return &ev, nil
}

// ReadSince returns up to limit events after afterID, ascending.
func (r *EventLogRepository) ReadSince(ctx context.Context, topic string, afterID int64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 100
	}

	query := `
		SELECT id, topic, type, payload, correlation_id, created_at
		FROM events
		WHERE topic = $1 AND id > $2
		ORDER BY id ASC
		LIMIT $3`

	var evs []event.Event
	if err := r.db.SelectContext(ctx, &evs, query, topic, afterID, limit); err != nil {
		return nil, errors.Wrapf(err, "read events from %s after %d", topic, afterID)
	}

	return evs, nil
}

// ReadDeliveredBefore returns old events eligible for archival.
func (r *EventLogRepository) ReadDeliveredBefore(ctx context.Context, topic string, maxID int64, limit int) ([]event.Event, error) {
	if limit <= 0 {
		limit = 500
	}

	query := `
		SELECT id, topic, type, payload, correlation_id, created_at
		FROM events
		WHERE topic = $1 AND id <= $2
		ORDER BY id ASC
		LIMIT $3`

	var evs []event.Event
	if err := r.db.SelectContext(ctx, &evs, query, topic, maxID, limit); err != nil {
		return nil, errors.Wrapf(err, "read archivable events from %s", topic)
	}

	return evs, nil
}

// DeleteThrough removes events with id at or below maxID from the hot log.
func (r *EventLogRepository) DeleteThrough(ctx context.Context, topic string, maxID int64) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM events WHERE topic = $1 AND id <= $2`, topic, maxID)
	if err != nil {
		return 0, errors.Wrapf(err, "delete events from %s through %d", topic, maxID)
	}
	return res.RowsAffected()
}

// MinOffset returns the smallest delivery cursor across consumers of a topic.
func (r *EventLogRepository) MinOffset(ctx context.Context, topic string) (int64, error) {
	var min int64
	query := `
		SELECT COALESCE(MIN(last_delivered_event_id), 0)
		FROM consumer_offsets
		WHERE topic = $1`

	if err := r.db.GetContext(ctx, &min, query, topic); err != nil {
		return 0, errors.Wrapf(err, "min offset for %s", topic)
	}
	return min, nil
}
