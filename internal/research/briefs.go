package research

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hermes/internal/domain/learning"
	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

const briefLimit = 3

// stageBriefAssembly turns the top concepts into full opportunity briefs. The
// evidence on each brief is restricted to the supporting signals of the
// concept's originating theme, so every claim stays traceable.
func (p *Pipeline) stageBriefAssembly(ctx context.Context, st *runState) ([]research.OpportunityBrief, error) {
	concepts := st.concepts
	if len(concepts) > briefLimit {
		concepts = concepts[:briefLimit]
	}
	if len(concepts) == 0 {
		return nil, errors.Wrap(errors.ErrNoThemes, "no concepts to publish")
	}

	themesByID := make(map[string]research.Theme, len(st.validated))
	for _, t := range st.validated {
		themesByID[t.ID] = t
	}
	byID := signalsByID(st.signals)

	briefs := make([]research.OpportunityBrief, 0, len(concepts))
	for _, c := range concepts {
		theme := themesByID[c.ThemeID]
		briefs = append(briefs, p.assembleBrief(st, c, theme, byID))
	}

	st.briefs = briefs

	// Feed the outcome back into the learnings store so future runs in this
	// category start from what this one found. Best effort; a write failure
	// must not fail a run that is otherwise done.
	for _, b := range briefs {
		l := &learning.Learning{
			Category:  st.brief.Category,
			Insight:   fmt.Sprintf("published opportunity %q scoring %.2f", b.Title, b.Score),
			Sentiment: "positive",
			Relevance: b.Score,
		}
		if err := p.learnings.Record(ctx, l); err != nil {
			p.log.Warnw("Failed to record learning from published brief", "error", err)
		}
	}

	return briefs, nil
}

func (p *Pipeline) assembleBrief(st *runState, c research.Concept, theme research.Theme, byID map[string]research.Signal) research.OpportunityBrief {
	evidence := research.EvidenceReferences{
		Sources: make(map[string]string, len(theme.SupportingSignals)),
	}
	for _, id := range theme.SupportingSignals {
		if s, ok := byID[id]; ok {
			evidence.EvidenceIDs = append(evidence.EvidenceIDs, id)
			evidence.Sources[id] = s.Source
		}
	}

	priceLow, priceHigh := decimal.Zero, decimal.Zero
	risk := fmt.Sprintf("risk tolerance %s; certainty %s", p.profile.RiskTolerance, theme.Certainty)
	if theme.Validation != nil {
		priceLow, priceHigh = theme.Validation.PriceLow, theme.Validation.PriceHigh
		risk = fmt.Sprintf("%s; competition %s; %d operational risks",
			risk, theme.Validation.CompetitionQuality, len(theme.Validation.OperationalRisks))
	}

	return research.OpportunityBrief{
		ID:               "brf-" + uuid.NewString(),
		RequestID:        st.requestID,
		ThemeID:          theme.ID,
		ConceptID:        c.ID,
		Title:            c.Name,
		Hypothesis:       c.Hypothesis,
		TargetPersona:    c.TargetPersona,
		BundleOptions:    c.BundleOptions,
		Differentiation:  c.Differentiation,
		SupplierFeasible: c.SupplierFeasible,
		PriceLow:         priceLow,
		PriceHigh:        priceHigh,
		RiskAssessment:   risk,
		KillCriteria: []string{
			fmt.Sprintf("customer acquisition cost erodes the %s%% target margin inside the test window", p.profile.TargetMargin),
			"landing page converts under 2% after 500 qualified visits",
			"no supplier quote preserves the target margin at launch volume",
		},
		ValidationPlan: []string{
			"run a smoke-test landing page against the target persona",
			"order supplier samples for the leading bundle",
			fmt.Sprintf("launch a capped ad probe before the window closes (%s)", theme.WindowNote),
		},
		Evidence:  evidence,
		Score:     c.Score,
		CreatedAt: time.Now().UTC(),
	}
}

// stageHandoff publishes one supplier-feasibility request and one
// marketing-angle request per published brief. Terminal success state.
func (p *Pipeline) stageHandoff(ctx context.Context, correlationID string, st *runState) error {
	for _, b := range st.briefs {
		if _, err := p.publisher.PublishSupplierFeasibilityRequest(ctx, correlationID, b); err != nil {
			return err
		}
		if _, err := p.publisher.PublishMarketingAngleRequest(ctx, correlationID, b); err != nil {
			return err
		}
	}
	return nil
}
