package learning

import (
	"context"
)

// Repository defines access to accumulated research learnings.
type Repository interface {
	// ListByCategory returns learnings relevant to a category, most recent
	// first, limited to limit rows.
	ListByCategory(ctx context.Context, category string, limit int) ([]Learning, error)

	// AdjustmentsByCategory returns the score adjustments recorded for a
	// category.
	AdjustmentsByCategory(ctx context.Context, category string) ([]Adjustment, error)

	// Record stores a learning produced by a completed run.
	Record(ctx context.Context, l *Learning) error
}
