package retry

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func TestMiddleware_Do(t *testing.T) {
	ctx := context.Background()

	t.Run("succeeds on first attempt", func(t *testing.T) {
		m := New(Config{MaxRetries: 3, InitialDelay: time.Millisecond}, Any)

		calls := 0
		err := m.Do(ctx, func() error {
			calls++
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("retries until success", func(t *testing.T) {
		m := New(Config{MaxRetries: 3, InitialDelay: time.Millisecond}, Any)

		calls := 0
		err := m.Do(ctx, func() error {
			calls++
			if calls < 3 {
				return errors.ErrUnavailable
			}
			return nil
		})

		require.NoError(t, err)
		assert.Equal(t, 3, calls)
	})

	t.Run("exhausts retries and returns last error", func(t *testing.T) {
		m := New(Config{MaxRetries: 2, InitialDelay: time.Millisecond}, Any)

		calls := 0
		err := m.Do(ctx, func() error {
			calls++
			return errors.ErrUnavailable
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrUnavailable))
		assert.Equal(t, 3, calls) // initial attempt + 2 retries
	})

	t.Run("non-retryable error fails immediately", func(t *testing.T) {
		retryable := func(err error) bool { return errors.Is(err, errors.ErrUnavailable) }
		m := New(Config{MaxRetries: 3, InitialDelay: time.Millisecond}, retryable)

		calls := 0
		err := m.Do(ctx, func() error {
			calls++
			return errors.ErrInvalidInput
		})

		require.Error(t, err)
		assert.Equal(t, 1, calls)
	})

	t.Run("cancelled context stops retrying", func(t *testing.T) {
		m := New(Config{MaxRetries: 10, InitialDelay: 50 * time.Millisecond}, Any)

		cctx, cancel := context.WithCancel(ctx)
		cancel()

		err := m.Do(cctx, func() error {
			return errors.ErrUnavailable
		})

		require.Error(t, err)
		assert.True(t, errors.Is(err, context.Canceled))
	})
}

func TestMiddleware_CalculateDelay(t *testing.T) {
	tests := []struct {
		name     string
		config   Config
		attempt  int
		expected time.Duration
	}{
		{
			name:     "exponential grows by multiplier",
			config:   Config{Strategy: StrategyExponential, InitialDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, Multiplier: 2.0, MaxRetries: 5},
			attempt:  2,
			expected: 400 * time.Millisecond,
		},
		{
			name:     "linear grows by attempt",
			config:   Config{Strategy: StrategyLinear, InitialDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, MaxRetries: 5},
			attempt:  2,
			expected: 300 * time.Millisecond,
		},
		{
			name:     "fixed stays constant",
			config:   Config{Strategy: StrategyFixed, InitialDelay: 100 * time.Millisecond, MaxDelay: 10 * time.Second, MaxRetries: 5},
			attempt:  4,
			expected: 100 * time.Millisecond,
		},
		{
			name:     "capped at max delay",
			config:   Config{Strategy: StrategyExponential, InitialDelay: time.Second, MaxDelay: 2 * time.Second, Multiplier: 10.0, MaxRetries: 5},
			attempt:  3,
			expected: 2 * time.Second,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.config, Any)
			assert.Equal(t, tt.expected, m.calculateDelay(tt.attempt))
		})
	}
}
