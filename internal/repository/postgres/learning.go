package postgres

import (
	"context"

	"github.com/jmoiron/sqlx"

	"hermes/internal/domain/learning"
	"hermes/pkg/errors"
)

// Compile-time check
var _ learning.Repository = (*LearningRepository)(nil)

// LearningRepository implements learning.Repository using sqlx
type LearningRepository struct {
	db *sqlx.DB
}

// NewLearningRepository creates a new learning repository
func NewLearningRepository(db *sqlx.DB) *LearningRepository {
	return &LearningRepository{db: db}
}

// ListByCategory returns learnings for a category, most recent first.
func (r *LearningRepository) ListByCategory(ctx context.Context, category string, limit int) ([]learning.Learning, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, category, insight, sentiment, relevance, created_at
		FROM learnings
		WHERE LOWER(category) = LOWER($1)
		ORDER BY created_at DESC
		LIMIT $2`

	var out []learning.Learning
	if err := r.db.SelectContext(ctx, &out, query, category, limit); err != nil {
		return nil, errors.Wrapf(err, "list learnings for %s", category)
	}
	return out, nil
}

// AdjustmentsByCategory returns the score adjustments recorded for a category.
func (r *LearningRepository) AdjustmentsByCategory(ctx context.Context, category string) ([]learning.Adjustment, error) {
	query := `
		SELECT id, category, factor, type, value, created_at
		FROM learning_adjustments
		WHERE LOWER(category) = LOWER($1)
		ORDER BY created_at DESC`

	var out []learning.Adjustment
	if err := r.db.SelectContext(ctx, &out, query, category); err != nil {
		return nil, errors.Wrapf(err, "list adjustments for %s", category)
	}
	return out, nil
}

// Record stores a learning produced by a completed run.
func (r *LearningRepository) Record(ctx context.Context, l *learning.Learning) error {
	query := `
		INSERT INTO learnings (category, insight, sentiment, relevance, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, created_at`

	row := r.db.QueryRowxContext(ctx, query, l.Category, l.Insight, l.Sentiment, l.Relevance)
	if err := row.Scan(&l.ID, &l.CreatedAt); err != nil {
		return errors.Wrap(err, "record learning")
	}
	return nil
}
