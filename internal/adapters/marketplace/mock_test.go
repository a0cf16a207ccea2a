package marketplace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/adapters/config"
	"hermes/pkg/errors"
)

func TestMockSource_Deterministic(t *testing.T) {
	s := NewMockSource(config.SignalSourceConfig{ReqPerSecond: 100})
	ctx := context.Background()

	first, err := s.FindProducts(ctx, "yoga mat")
	require.NoError(t, err)
	require.NotEmpty(t, first)

	second, err := s.FindProducts(ctx, "yoga mat")
	require.NoError(t, err)
	assert.Equal(t, first, second, "same keyword yields the same items")

	other, err := s.FindProducts(ctx, "dog bed")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)

	for _, item := range first {
		assert.NotEmpty(t, item.Name)
		assert.Greater(t, item.Price, 0.0)
		assert.GreaterOrEqual(t, item.Rating, 3.5)
		assert.Greater(t, item.Reviews, 0)
	}
}

func TestMockSource_CompetitorData(t *testing.T) {
	s := NewMockSource(config.SignalSourceConfig{ReqPerSecond: 100})
	ctx := context.Background()

	data, err := s.AnalyzeCompetitors(ctx, "Yoga Mat Pro")
	require.NoError(t, err)
	assert.Equal(t, "Yoga Mat Pro", data.Name)
	assert.Greater(t, data.PriceHigh, data.PriceLow)

	again, err := s.AnalyzeCompetitors(ctx, "Yoga Mat Pro")
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestMockSource_RejectsEmptyInput(t *testing.T) {
	s := NewMockSource(config.SignalSourceConfig{ReqPerSecond: 100})
	ctx := context.Background()

	_, err := s.FindProducts(ctx, "   ")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)

	_, err = s.AnalyzeCompetitors(ctx, "")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}
