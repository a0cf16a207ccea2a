package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hermes/internal/adapters/config"
	"hermes/internal/domain/event"
)

func TestRetainOlder(t *testing.T) {
	now := time.Now()
	cutoff := now.Add(-time.Hour)

	evs := []event.Event{
		{ID: 1, CreatedAt: now.Add(-3 * time.Hour)},
		{ID: 2, CreatedAt: now.Add(-2 * time.Hour)},
		{ID: 3, CreatedAt: now.Add(-time.Minute)},
		{ID: 4, CreatedAt: now},
	}

	kept := retainOlder(evs, cutoff)
	assert.Len(t, kept, 2)
	assert.Equal(t, int64(2), kept[len(kept)-1].ID)

	assert.Empty(t, retainOlder(evs, now.Add(-4*time.Hour)))
	assert.Len(t, retainOlder(evs, now.Add(time.Hour)), 4)
	assert.Empty(t, retainOlder(nil, cutoff))
}

func TestNewWorker_ConfigDefaults(t *testing.T) {
	w := NewWorker(nil, nil, nil, config.ArchiveConfig{})

	assert.Equal(t, time.Hour, w.cfg.Interval)
	assert.Equal(t, 500, w.cfg.BatchSize)
	assert.Equal(t, 7*24*time.Hour, w.cfg.Retention)
	assert.NotEmpty(t, w.topics)
}
