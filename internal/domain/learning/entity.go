package learning

import (
	"time"
)

// AdjustmentType marks whether an adjustment raises or lowers theme scores.
type AdjustmentType string

const (
	AdjustmentPenalty AdjustmentType = "penalty"
	AdjustmentBoost   AdjustmentType = "boost"
)

// Learning is one piece of category history derived from past research runs,
// e.g. "Home category showed high return rates last quarter".
type Learning struct {
	ID        int64     `db:"id"`
	Category  string    `db:"category"`
	Insight   string    `db:"insight"`
	Sentiment string    `db:"sentiment"` // positive|negative|neutral
	Relevance float64   `db:"relevance"` // 0-1
	CreatedAt time.Time `db:"created_at"`
}

// Adjustment is a signed score correction attached to a learning. Penalties
// carry negative values, boosts positive ones.
type Adjustment struct {
	ID        int64          `db:"id"`
	Category  string         `db:"category"`
	Factor    string         `db:"factor"`
	Type      AdjustmentType `db:"type"`
	Value     float64        `db:"value"`
	CreatedAt time.Time      `db:"created_at"`
}

// Signed returns the adjustment value with the sign implied by its type.
func (a Adjustment) Signed() float64 {
	if a.Type == AdjustmentPenalty && a.Value > 0 {
		return -a.Value
	}
	return a.Value
}
