package marketplace

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

// MockSource is a deterministic stand-in for a real marketplace API. Results
// are derived from a hash of the query, so the same keyword always yields the
// same items. Useful for development and for exercising the pipeline without
// external credentials.
type MockSource struct {
	limiter *rate.Limiter
	mu      sync.Mutex
}

// NewMockSource creates a mock signal source honoring the configured rate.
func NewMockSource(cfg config.SignalSourceConfig) *MockSource {
	rps := cfg.ReqPerSecond
	if rps <= 0 {
		rps = 5
	}
	return &MockSource{
		limiter: rate.NewLimiter(rate.Limit(rps), 1),
	}
}

// FindProducts returns a deterministic set of items for the keyword.
func (s *MockSource) FindProducts(ctx context.Context, keyword string) ([]research.RawSignalItem, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, errors.Wrap(err, "marketplace rate limiter")
	}

	kw := strings.TrimSpace(keyword)
	if kw == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "empty keyword")
	}

	rng := s.rngFor("products:" + strings.ToLower(kw))
	count := 3 + rng.Intn(3)

	items := make([]research.RawSignalItem, 0, count)
	for i := 0; i < count; i++ {
		items = append(items, research.RawSignalItem{
			Name:     fmt.Sprintf("%s %s", titleWords(kw), productSuffixes[rng.Intn(len(productSuffixes))]),
			Category: titleWords(kw),
			Price:    10 + rng.Float64()*90,
			Rating:   3.5 + rng.Float64()*1.5,
			Reviews:  50 + rng.Intn(5000),
		})
	}

	return items, nil
}

// AnalyzeCompetitors returns deterministic competitor data for a product name.
func (s *MockSource) AnalyzeCompetitors(ctx context.Context, name string) (research.CompetitorData, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return research.CompetitorData{}, errors.Wrap(err, "marketplace rate limiter")
	}

	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return research.CompetitorData{}, errors.Wrap(errors.ErrInvalidInput, "empty product name")
	}

	rng := s.rngFor("competitors:" + strings.ToLower(trimmed))
	low := 8 + rng.Float64()*40

	return research.CompetitorData{
		Name:           trimmed,
		EstimatedSales: 100 + rng.Intn(20000),
		Rating:         3.0 + rng.Float64()*2.0,
		ReviewCount:    20 + rng.Intn(8000),
		PriceLow:       low,
		PriceHigh:      low * (1.2 + rng.Float64()),
	}, nil
}

// rngFor seeds a generator from the query so responses are stable across runs.
func (s *MockSource) rngFor(query string) *rand.Rand {
	s.mu.Lock()
	defer s.mu.Unlock()

	h := fnv.New64a()
	h.Write([]byte(query))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}

var productSuffixes = []string{
	"Pro", "Max", "Mini", "Kit", "Set", "Plus", "Essentials", "Bundle",
}

func titleWords(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
