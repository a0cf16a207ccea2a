package memory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/pkg/errors"
)

func TestEventLog_AppendAssignsMonotonicIDs(t *testing.T) {
	log := NewEventLog()
	ctx := context.Background()

	a, err := log.Append(ctx, "topic.a", "", json.RawMessage(`{"n":1}`), "c1")
	require.NoError(t, err)
	b, err := log.Append(ctx, "topic.b", "", nil, "c2")
	require.NoError(t, err)

	// IDs are globally monotonic, not per topic.
	assert.Equal(t, int64(1), a.ID)
	assert.Equal(t, int64(2), b.ID)
	assert.Equal(t, "topic.a", a.Type, "type defaults to topic")
	assert.JSONEq(t, `{}`, string(b.Payload), "empty payload defaults to {}")

	_, err = log.Append(ctx, "", "", nil, "")
	assert.ErrorIs(t, err, errors.ErrInvalidInput)
}

func TestEventLog_ReadSince(t *testing.T) {
	log := NewEventLog()
	ctx := context.Background()

	for i := 0; i < 5; i++ {
		_, err := log.Append(ctx, "topic", "", nil, "")
		require.NoError(t, err)
	}

	evs, err := log.ReadSince(ctx, "topic", 2, 2)
	require.NoError(t, err)
	require.Len(t, evs, 2)
	assert.Equal(t, int64(3), evs[0].ID)
	assert.Equal(t, int64(4), evs[1].ID)

	// Reads have no side effects.
	again, err := log.ReadSince(ctx, "topic", 2, 2)
	require.NoError(t, err)
	assert.Equal(t, evs, again)

	empty, err := log.ReadSince(ctx, "topic", 5, 10)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestEventLog_AdvanceCompareAndSet(t *testing.T) {
	log := NewEventLog()
	ctx := context.Background()

	offset, err := log.Get(ctx, "c1", "topic")
	require.NoError(t, err)
	assert.Equal(t, int64(0), offset, "missing cursor reads as zero")

	ok, err := log.Advance(ctx, "c1", "topic", 0, 3)
	require.NoError(t, err)
	assert.True(t, ok)

	// A stale `from` loses the compare-and-set.
	ok, err = log.Advance(ctx, "c1", "topic", 0, 5)
	require.NoError(t, err)
	assert.False(t, ok)

	offset, err = log.Get(ctx, "c1", "topic")
	require.NoError(t, err)
	assert.Equal(t, int64(3), offset)

	// The cursor never moves backwards.
	_, err = log.Advance(ctx, "c1", "topic", 3, 3)
	assert.ErrorIs(t, err, errors.ErrOffsetRegression)
	_, err = log.Advance(ctx, "c1", "topic", 3, 1)
	assert.ErrorIs(t, err, errors.ErrOffsetRegression)
}
