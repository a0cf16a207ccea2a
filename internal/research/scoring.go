package research

import (
	"context"
	"sort"

	"hermes/internal/domain/research"
)

const (
	baseScore      = 0.5
	observedBonus  = 0.2
	inferredBonus  = 0.1
	perSignalBonus = 0.05
	maxSignalBonus = 0.2
	shortlistLimit = 10
)

// rankedPayload is the artifact carried by research.shortlist_ranked.
type rankedPayload struct {
	RequestID string           `json:"request_id"`
	Shortlist []research.Theme `json:"shortlist"`
}

// stageScoring scores every surviving theme and keeps the top ten. The sort
// is stable, so equal scores preserve clustering order.
func (p *Pipeline) stageScoring(ctx context.Context, st *runState) (interface{}, error) {
	adjustmentSum := 0.0
	for _, a := range st.adjustments {
		adjustmentSum += a.Signed()
	}

	shortlist := make([]research.Theme, len(st.themes))
	copy(shortlist, st.themes)

	for i := range shortlist {
		shortlist[i].Score = p.scoreTheme(shortlist[i], adjustmentSum)
	}

	sort.SliceStable(shortlist, func(i, j int) bool {
		return shortlist[i].Score > shortlist[j].Score
	})
	if len(shortlist) > shortlistLimit {
		shortlist = shortlist[:shortlistLimit]
	}

	st.shortlist = shortlist
	return rankedPayload{RequestID: st.requestID, Shortlist: shortlist}, nil
}

// scoreTheme computes a theme's score: base, certainty bonus, capped
// signal-count bonus, estimator sub-scores, and the run's signed adjustment
// sum, clamped to [0, 1].
func (p *Pipeline) scoreTheme(t research.Theme, adjustmentSum float64) float64 {
	score := baseScore

	if t.Certainty == research.CertaintyObserved {
		score += observedBonus
	} else {
		score += inferredBonus
	}

	signalBonus := float64(len(t.SupportingSignals)) * perSignalBonus
	if signalBonus > maxSignalBonus {
		signalBonus = maxSignalBonus
	}
	score += signalBonus

	score += p.estimator.DemandScore(t)
	score += p.estimator.CompetitionScore(t)
	score += adjustmentSum

	return clamp01(score)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
