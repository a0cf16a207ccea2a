package postgres

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"hermes/internal/domain/event"
	"hermes/pkg/errors"
)

// Compile-time check
var _ event.OffsetStore = (*ConsumerOffsetRepository)(nil)

// ConsumerOffsetRepository persists per-(consumer, topic) delivery cursors.
// Advance is the concurrency-critical section of the whole log: the guarded
// upsert keeps two instances of the same consumer from racing past each other.
type ConsumerOffsetRepository struct {
	db *sqlx.DB
}

// NewConsumerOffsetRepository creates a new consumer offset repository
func NewConsumerOffsetRepository(db *sqlx.DB) *ConsumerOffsetRepository {
	return &ConsumerOffsetRepository{db: db}
}

// Get returns the last delivered event id, 0 when the pair has no row yet.
func (r *ConsumerOffsetRepository) Get(ctx context.Context, consumerID, topic string) (int64, error) {
	var offset int64
	query := `
		SELECT last_delivered_event_id
		FROM consumer_offsets
		WHERE consumer_id = $1 AND topic = $2`

	err := r.db.GetContext(ctx, &offset, query, consumerID, topic)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, errors.Wrapf(err, "get offset for %s/%s", consumerID, topic)
	}
	return offset, nil
}

// Advance performs a compare-and-set cursor update. The upsert only applies
// when the stored cursor still equals `from`; a zero rows-affected result
// means another instance won the race and the caller must re-read.
func (r *ConsumerOffsetRepository) Advance(ctx context.Context, consumerID, topic string, from, to int64) (bool, error) {
	if to <= from {
		return false, errors.Wrapf(errors.ErrOffsetRegression, "%s/%s: %d -> %d", consumerID, topic, from, to)
	}

	query := `
		INSERT INTO consumer_offsets (consumer_id, topic, last_delivered_event_id, updated_at)
		VALUES ($1, $2, $3, NOW())
		ON CONFLICT (consumer_id, topic) DO UPDATE
		SET last_delivered_event_id = EXCLUDED.last_delivered_event_id,
		    updated_at = NOW()
		WHERE consumer_offsets.last_delivered_event_id = $4`

	res, err := r.db.ExecContext(ctx, query, consumerID, topic, to, from)
	if err != nil {
		return false, errors.Wrapf(err, "advance offset for %s/%s", consumerID, topic)
	}

	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
