package dispatch

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/event"
	"hermes/pkg/errors"
)

func TestParseBindings(t *testing.T) {
	t.Run("parses triples", func(t *testing.T) {
		bindings, err := ParseBindings([]string{
			"research.requested:research-pipeline:pipeline.research",
			" topic.b:consumer-b:handler.b ",
		})
		require.NoError(t, err)
		require.Len(t, bindings, 2)

		assert.Equal(t, Binding{
			Topic:      "research.requested",
			ConsumerID: "research-pipeline",
			Handler:    "pipeline.research",
		}, bindings[0])
		assert.Equal(t, "topic.b", bindings[1].Topic)
	})

	t.Run("skips empty entries", func(t *testing.T) {
		bindings, err := ParseBindings([]string{"", "  "})
		require.NoError(t, err)
		assert.Empty(t, bindings)
	})

	t.Run("rejects malformed entries", func(t *testing.T) {
		for _, raw := range []string{"a:b", "a:b:c:d", "a::c", ":b:c"} {
			_, err := ParseBindings([]string{raw})
			assert.ErrorIs(t, err, errors.ErrInvalidInput, raw)
		}
	})
}

func TestRegistry_Resolve(t *testing.T) {
	registry := NewRegistry()
	registry.RegisterHandler("pipeline.research", func(ctx context.Context, ev event.Event) error {
		return nil
	})

	bindings := []Binding{
		{Topic: "research.requested", ConsumerID: "research-pipeline", Handler: "pipeline.research"},
		{Topic: "other.topic", ConsumerID: "other", Handler: "missing.handler"},
	}

	subs := registry.Resolve(bindings)

	// The unresolved binding is skipped, not fatal.
	require.Len(t, subs, 1)
	assert.Equal(t, "research.requested", subs[0].Topic)
	assert.Equal(t, "research-pipeline", subs[0].ConsumerID)
	assert.NotNil(t, subs[0].Handler)
}
