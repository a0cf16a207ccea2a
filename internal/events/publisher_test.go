package events

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/event"
	"hermes/internal/domain/research"
	"hermes/internal/repository/memory"
	"hermes/pkg/logger"
)

func TestPublisher_PublishResearchRequested(t *testing.T) {
	log := memory.NewEventLog()
	p := NewPublisher(log, logger.Get())

	ev, err := p.PublishResearchRequested(context.Background(), "req-1", research.Criteria{
		Category:    "Fitness",
		Constraints: []string{"under $50"},
	})
	require.NoError(t, err)

	assert.Equal(t, event.TopicResearchRequested, ev.Topic)
	assert.Equal(t, "req-1", ev.CorrelationID)

	var payload RequestPayload
	require.NoError(t, ev.DecodePayload(&payload))
	assert.Equal(t, "req-1", payload.RequestID)
	assert.Equal(t, "Fitness", payload.Criteria.Category)
}

func TestPublisher_PublishResearchAborted(t *testing.T) {
	log := memory.NewEventLog()
	p := NewPublisher(log, logger.Get())

	ev, err := p.PublishResearchAborted(context.Background(), "req-2", "gating", "all 4 themes gated out")
	require.NoError(t, err)

	var payload AbortPayload
	require.NoError(t, ev.DecodePayload(&payload))
	assert.Equal(t, "gating", payload.Stage)
	assert.Equal(t, "all 4 themes gated out", payload.Reason)
}

func TestPublisher_PublishBriefs(t *testing.T) {
	log := memory.NewEventLog()
	p := NewPublisher(log, logger.Get())

	briefs := []research.OpportunityBrief{
		{ID: "brf-1", Title: "Yoga Mats Collection", Score: 0.82},
		{ID: "brf-2", Title: "Resistance Band Kits", Score: 0.74},
	}

	ev, err := p.PublishBriefs(context.Background(), "req-5", briefs)
	require.NoError(t, err)
	assert.Equal(t, event.TopicBriefsPublished, ev.Topic)
	assert.Equal(t, "req-5", ev.CorrelationID)

	var payload BriefsPayload
	require.NoError(t, ev.DecodePayload(&payload))
	assert.Equal(t, "req-5", payload.RequestID)
	require.Len(t, payload.Briefs, 2)
	assert.Equal(t, "brf-1", payload.Briefs[0].ID)
}

func TestPublisher_HandoffPayloads(t *testing.T) {
	log := memory.NewEventLog()
	p := NewPublisher(log, logger.Get())

	brief := research.OpportunityBrief{
		ID:              "brf-1",
		Title:           "Yoga Mats Collection",
		TargetPersona:   "home gym beginner",
		BundleOptions:   []string{"starter bundle"},
		Differentiation: "first-mover positioning",
	}

	supplier, err := p.PublishSupplierFeasibilityRequest(context.Background(), "req-3", brief)
	require.NoError(t, err)
	marketing, err := p.PublishMarketingAngleRequest(context.Background(), "req-3", brief)
	require.NoError(t, err)

	var sp HandoffPayload
	require.NoError(t, supplier.DecodePayload(&sp))
	assert.Equal(t, "brf-1", sp.BriefID)
	assert.Equal(t, []string{"starter bundle"}, sp.BundleOptions)
	assert.Empty(t, sp.TargetPersona, "supplier handoff omits marketing fields")

	var mp HandoffPayload
	require.NoError(t, marketing.DecodePayload(&mp))
	assert.Equal(t, "home gym beginner", mp.TargetPersona)
	assert.Equal(t, "first-mover positioning", mp.Differentiation)
}
