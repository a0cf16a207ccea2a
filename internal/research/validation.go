package research

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"hermes/internal/domain/research"
)

const validationLimit = 5

// validatedPayload is the artifact carried by research.candidates_validated.
type validatedPayload struct {
	RequestID string           `json:"request_id"`
	Themes    []research.Theme `json:"themes"`
}

// stageValidation enriches the top surviving themes with qualitative samples,
// a price band, competition quality and operational risks.
func (p *Pipeline) stageValidation(ctx context.Context, st *runState) (interface{}, error) {
	candidates := st.survivors
	if len(candidates) > validationLimit {
		candidates = candidates[:validationLimit]
	}

	byID := signalsByID(st.signals)

	validated := make([]research.Theme, 0, len(candidates))
	for _, t := range candidates {
		t.Validation = p.validateTheme(t, byID)
		validated = append(validated, t)
	}

	st.validated = validated
	return validatedPayload{RequestID: st.requestID, Themes: validated}, nil
}

func (p *Pipeline) validateTheme(t research.Theme, byID map[string]research.Signal) *research.Validation {
	v := &research.Validation{
		PriceLow:  decimal.Zero,
		PriceHigh: decimal.Zero,
	}

	competitors := 0
	strongCompetitors := 0

	for _, id := range t.SupportingSignals {
		s, ok := byID[id]
		if !ok {
			continue
		}

		if name := s.Name(); name != "" && len(v.QualitativeSamples) < 3 {
			v.QualitativeSamples = append(v.QualitativeSamples,
				fmt.Sprintf("shoppers engage with %q via %s", name, s.Source))
		}

		for _, key := range []string{"price", "price_low", "price_high"} {
			if price, ok := s.Data[key].(float64); ok && price > 0 {
				d := decimal.NewFromFloat(price)
				if v.PriceLow.IsZero() || d.LessThan(v.PriceLow) {
					v.PriceLow = d
				}
				if d.GreaterThan(v.PriceHigh) {
					v.PriceHigh = d
				}
			}
		}

		if s.Family == research.FamilyCompetitor {
			competitors++
			if rating, ok := s.Data["rating"].(float64); ok && rating >= 4.5 {
				strongCompetitors++
			}
		}
	}

	switch {
	case competitors == 0:
		v.CompetitionQuality = "weak"
	case strongCompetitors > competitors/2:
		v.CompetitionQuality = "strong"
	default:
		v.CompetitionQuality = "mixed"
	}

	if t.Phase == research.PhasePeaking || t.Phase == research.PhaseDeclining {
		v.OperationalRisks = append(v.OperationalRisks, "late trend entry")
	}
	if v.CompetitionQuality == "strong" {
		v.OperationalRisks = append(v.OperationalRisks, "entrenched competition")
	}
	if v.PriceLow.IsZero() {
		v.OperationalRisks = append(v.OperationalRisks, "unverified price point")
	}

	return v
}

func signalsByID(signals []research.Signal) map[string]research.Signal {
	byID := make(map[string]research.Signal, len(signals))
	for _, s := range signals {
		byID[s.ID] = s
	}
	return byID
}
