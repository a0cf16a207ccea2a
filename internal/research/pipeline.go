package research

import (
	"context"
	"fmt"
	"time"

	"hermes/internal/dispatch"
	"hermes/internal/domain/event"
	"hermes/internal/domain/learning"
	"hermes/internal/domain/research"
	"hermes/internal/events"
	"hermes/internal/metrics"
	"hermes/pkg/errors"
	"hermes/pkg/logger"
	"hermes/pkg/retry"
)

const agentName = "opportunity-researcher"

// Pipeline is the event-driven handler for research.requested. One invocation
// runs the eleven stages strictly in order and publishes one progress event
// per completed stage. All working state lives in the invocation's runState;
// nothing is shared between concurrent runs.
type Pipeline struct {
	profile   research.StrategyProfile
	signals   SignalSource
	llm       LanguageModel
	activity  ActivityLogger
	learnings learning.Repository
	publisher *events.Publisher
	estimator Estimator
	capRetry  *retry.Middleware
	log       *logger.Logger
}

// Config wires the pipeline's collaborators.
type Config struct {
	Profile   research.StrategyProfile
	Signals   SignalSource
	LLM       LanguageModel
	Activity  ActivityLogger
	Learnings learning.Repository
	Publisher *events.Publisher
	Estimator Estimator
}

// NewPipeline creates the research pipeline handler.
func NewPipeline(cfg Config) *Pipeline {
	estimator := cfg.Estimator
	if estimator == nil {
		estimator = NewHeuristicEstimator(time.Now().UnixNano())
	}

	return &Pipeline{
		profile:   cfg.Profile,
		signals:   cfg.Signals,
		llm:       cfg.LLM,
		activity:  cfg.Activity,
		learnings: cfg.Learnings,
		publisher: cfg.Publisher,
		estimator: estimator,
		// CapabilityError policy: one retry per stage, then propagate.
		capRetry: retry.New(retry.Config{
			MaxRetries:   1,
			InitialDelay: 200 * time.Millisecond,
			MaxDelay:     time.Second,
			Strategy:     retry.StrategyFixed,
		}, retry.Any),
		log: logger.Get().With("component", "research_pipeline"),
	}
}

// runState is the transient working state of one run. It is created when the
// request event is delivered and garbage once the handler returns; only its
// stage outputs survive, as emitted events.
type runState struct {
	requestID   string
	criteria    research.Criteria
	brief       research.Brief
	learnings   []learning.Learning
	adjustments []learning.Adjustment
	signals     []research.Signal
	themes      []research.Theme
	rejected    []research.Rejection
	shortlist   []research.Theme
	survivors   []research.Theme
	validated   []research.Theme
	concepts    []research.Concept
	briefs      []research.OpportunityBrief
}

type stage struct {
	name  string
	topic string
	run   func(ctx context.Context, st *runState) (interface{}, error)
}

// Handle processes one research.requested event. Any stage error is converted
// into a single research.aborted event; the raw error never escapes to the
// dispatcher unless the abort itself could not be recorded.
func (p *Pipeline) Handle(ctx context.Context, ev event.Event) error {
	correlationID := ev.CorrelationID

	var req events.RequestPayload
	if err := ev.DecodePayload(&req); err != nil {
		// A request this malformed may carry no correlation id at all.
		// Derive one from the event so the abort stays traceable.
		if correlationID == "" {
			correlationID = fmt.Sprintf("evt-%d", ev.ID)
		}
		return p.abort(ctx, correlationID, "intake", errors.Wrap(err, "malformed request payload"))
	}

	if correlationID == "" {
		correlationID = req.RequestID
	}

	st := &runState{
		requestID: req.RequestID,
		criteria:  req.Criteria,
	}

	log := p.log.With("request_id", st.requestID, "category", st.criteria.Category)
	log.Info("Research run started")
	p.activity.Log(agentName, "research run started", "info", map[string]interface{}{
		"request_id": st.requestID,
		"category":   st.criteria.Category,
	})

	// Stage 0: a usable strategy profile is a precondition for everything else.
	if len(p.profile.AllowedCategories) == 0 {
		return p.abort(ctx, correlationID, "preconditions", errors.ErrStrategyUnavailable)
	}

	stages := []stage{
		{"intake", event.TopicBriefCreated, p.stageIntake},
		{"prior_learnings", event.TopicLearningsAttached, p.stageLearnings},
		{"signal_collection", event.TopicSignalsCollected, p.stageSignals},
		{"theme_generation", event.TopicThemesGenerated, p.stageThemes},
		{"gating", event.TopicThemesGated, p.stageGating},
		{"scoring", event.TopicShortlistRanked, p.stageScoring},
		{"time_fitness", event.TopicTimeFiltered, p.stageTimeFitness},
		{"validation", event.TopicCandidatesValidated, p.stageValidation},
		{"productization", event.TopicConceptsCreated, p.stageProductization},
	}

	for _, s := range stages {
		started := time.Now()
		payload, err := s.run(ctx, st)
		metrics.StageDuration.WithLabelValues(s.name).Observe(time.Since(started).Seconds())

		if err != nil {
			return p.abort(ctx, correlationID, s.name, err)
		}

		if _, err := p.publisher.Publish(ctx, s.topic, payload, correlationID); err != nil {
			// The log is unreachable; let the dispatcher redeliver the request.
			return err
		}

		log.Debugw("Stage completed", "stage", s.name)
	}

	// Stage 10: brief assembly. The terminal success artifact goes through
	// its typed publisher so downstream consumers see a stable schema.
	started := time.Now()
	briefs, err := p.stageBriefAssembly(ctx, st)
	metrics.StageDuration.WithLabelValues("brief_assembly").Observe(time.Since(started).Seconds())
	if err != nil {
		return p.abort(ctx, correlationID, "brief_assembly", err)
	}
	if _, err := p.publisher.PublishBriefs(ctx, correlationID, briefs); err != nil {
		return err
	}

	// Stage 11: handoff. No progress topic of its own; the published briefs
	// fan out to the supplier and marketing request topics.
	if err := p.stageHandoff(ctx, correlationID, st); err != nil {
		return err
	}

	metrics.PipelineRuns.WithLabelValues("published").Inc()
	log.Infow("Research run published", "briefs", len(st.briefs))
	p.activity.Log(agentName, "research run published", "info", map[string]interface{}{
		"request_id": st.requestID,
		"briefs":     len(st.briefs),
	})
	return nil
}

// abort records the failure as a terminal event and reports the run as
// handled. Progress events already emitted stay in the log as an audit trail;
// no brief from the failed run is ever published.
func (p *Pipeline) abort(ctx context.Context, correlationID, stage string, cause error) error {
	p.log.Warnw("Research run aborted",
		"correlation_id", correlationID,
		"stage", stage,
		"reason", cause,
	)
	p.activity.Log(agentName, "research run aborted", "warning", map[string]interface{}{
		"correlation_id": correlationID,
		"stage":          stage,
		"reason":         cause.Error(),
	})

	if _, err := p.publisher.PublishResearchAborted(ctx, correlationID, stage, cause.Error()); err != nil {
		// Could not record the abort; surface the original failure so the
		// dispatcher retries the event.
		return cause
	}

	metrics.PipelineRuns.WithLabelValues("aborted").Inc()
	return errors.Wrapf(dispatch.ErrHandled, "aborted at %s: %v", stage, cause)
}

// complete calls the language model with the stage retry policy.
func (p *Pipeline) complete(ctx context.Context, systemPrompt, input string) (string, error) {
	var out string
	err := p.capRetry.Do(ctx, func() error {
		var e error
		out, e = p.llm.Complete(ctx, systemPrompt, input)
		return e
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCapability, err.Error())
	}
	return out, nil
}
