package memory

import (
	"context"
	"strings"
	"sync"
	"time"

	"hermes/internal/domain/learning"
)

// Compile-time check
var _ learning.Repository = (*LearningStore)(nil)

// LearningStore is an in-memory learning.Repository for tests and local runs.
type LearningStore struct {
	mu          sync.Mutex
	nextID      int64
	learnings   []learning.Learning
	adjustments []learning.Adjustment
}

// NewLearningStore creates an empty store, optionally seeded with adjustments.
func NewLearningStore(adjustments ...learning.Adjustment) *LearningStore {
	return &LearningStore{nextID: 1, adjustments: adjustments}
}

// Seed adds a learning directly, bypassing Record's timestamping.
func (s *LearningStore) Seed(l learning.Learning) {
	s.mu.Lock()
	defer s.mu.Unlock()
	l.ID = s.nextID
	s.nextID++
	s.learnings = append(s.learnings, l)
}

// ListByCategory returns learnings for a category, most recent first.
func (s *LearningStore) ListByCategory(ctx context.Context, category string, limit int) ([]learning.Learning, error) {
	if limit <= 0 {
		limit = 20
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var out []learning.Learning
	for i := len(s.learnings) - 1; i >= 0 && len(out) < limit; i-- {
		if strings.EqualFold(s.learnings[i].Category, category) {
			out = append(out, s.learnings[i])
		}
	}
	return out, nil
}

// AdjustmentsByCategory returns the score adjustments for a category.
func (s *LearningStore) AdjustmentsByCategory(ctx context.Context, category string) ([]learning.Adjustment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []learning.Adjustment
	for _, a := range s.adjustments {
		if strings.EqualFold(a.Category, category) {
			out = append(out, a)
		}
	}
	return out, nil
}

// Record stores a learning produced by a completed run.
func (s *LearningStore) Record(ctx context.Context, l *learning.Learning) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	l.ID = s.nextID
	l.CreatedAt = time.Now().UTC()
	s.nextID++
	s.learnings = append(s.learnings, *l)
	return nil
}
