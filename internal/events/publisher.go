package events

import (
	"context"
	"encoding/json"

	"hermes/internal/domain/event"
	"hermes/internal/domain/research"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
)

// Publisher writes typed pipeline events to the durable log. A failed append
// is surfaced to the caller; the publisher never drops an event silently.
type Publisher struct {
	log event.Log
	lg  *logger.Logger
}

// NewPublisher creates a new event publisher
func NewPublisher(log event.Log, lg *logger.Logger) *Publisher {
	return &Publisher{log: log, lg: lg}
}

// Publish marshals payload and appends it under topic, with type = topic.
func (p *Publisher) Publish(ctx context.Context, topic string, payload interface{}, correlationID string) (*event.Event, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, errors.Wrapf(err, "marshal payload for %s", topic)
	}

	ev, err := p.log.Append(ctx, topic, topic, data, correlationID)
	if err != nil {
		p.lg.Errorw("Failed to append event", "topic", topic, "error", err)
		return nil, err
	}

	metrics.EventsAppended.WithLabelValues(topic).Inc()
	p.lg.Debugw("Event appended", "topic", topic, "event_id", ev.ID)
	return ev, nil
}

// RequestPayload is the payload of research.requested.
type RequestPayload struct {
	RequestID string            `json:"request_id"`
	Criteria  research.Criteria `json:"criteria"`
}

// PublishResearchRequested enqueues a new research run.
func (p *Publisher) PublishResearchRequested(ctx context.Context, requestID string, criteria research.Criteria) (*event.Event, error) {
	return p.Publish(ctx, event.TopicResearchRequested, RequestPayload{
		RequestID: requestID,
		Criteria:  criteria,
	}, requestID)
}

// AbortPayload is the payload of research.aborted.
type AbortPayload struct {
	RequestID string `json:"request_id"`
	Stage     string `json:"stage"`
	Reason    string `json:"reason"`
}

// PublishResearchAborted records a failed run with a machine-usable reason.
func (p *Publisher) PublishResearchAborted(ctx context.Context, correlationID, stage, reason string) (*event.Event, error) {
	return p.Publish(ctx, event.TopicResearchAborted, AbortPayload{
		RequestID: correlationID,
		Stage:     stage,
		Reason:    reason,
	}, correlationID)
}

// BriefsPayload is the payload of research.briefs_published.
type BriefsPayload struct {
	RequestID string                      `json:"request_id"`
	Briefs    []research.OpportunityBrief `json:"briefs"`
}

// PublishBriefs records the terminal success artifact of a run.
func (p *Publisher) PublishBriefs(ctx context.Context, correlationID string, briefs []research.OpportunityBrief) (*event.Event, error) {
	return p.Publish(ctx, event.TopicBriefsPublished, BriefsPayload{
		RequestID: correlationID,
		Briefs:    briefs,
	}, correlationID)
}

// HandoffPayload is the payload of the supplier/marketing handoff topics.
type HandoffPayload struct {
	RequestID       string   `json:"request_id"`
	BriefID         string   `json:"brief_id"`
	Title           string   `json:"title"`
	TargetPersona   string   `json:"target_persona,omitempty"`
	BundleOptions   []string `json:"bundle_options,omitempty"`
	Differentiation string   `json:"differentiation,omitempty"`
}

// PublishSupplierFeasibilityRequest hands a brief to the sourcing side.
func (p *Publisher) PublishSupplierFeasibilityRequest(ctx context.Context, correlationID string, brief research.OpportunityBrief) (*event.Event, error) {
	return p.Publish(ctx, event.TopicSupplierFeasibility, HandoffPayload{
		RequestID:     correlationID,
		BriefID:       brief.ID,
		Title:         brief.Title,
		BundleOptions: brief.BundleOptions,
	}, correlationID)
}

// PublishMarketingAngleRequest hands a brief to the marketing side.
func (p *Publisher) PublishMarketingAngleRequest(ctx context.Context, correlationID string, brief research.OpportunityBrief) (*event.Event, error) {
	return p.Publish(ctx, event.TopicMarketingAngle, HandoffPayload{
		RequestID:       correlationID,
		BriefID:         brief.ID,
		Title:           brief.Title,
		TargetPersona:   brief.TargetPersona,
		Differentiation: brief.Differentiation,
	}, correlationID)
}
