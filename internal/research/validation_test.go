package research

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/research"
)

func competitorTestSignal(id string, rating, priceLow, priceHigh float64) research.Signal {
	return research.Signal{
		ID:     id,
		Family: research.FamilyCompetitor,
		Source: "marketplace.competitors",
		Data: map[string]interface{}{
			"name":       "Competitor " + id,
			"rating":     rating,
			"price_low":  priceLow,
			"price_high": priceHigh,
		},
	}
}

func searchTestSignal(id string, price float64) research.Signal {
	return research.Signal{
		ID:     id,
		Family: research.FamilySearch,
		Source: "marketplace.search",
		Data: map[string]interface{}{
			"name":  "Item " + id,
			"price": price,
		},
	}
}

func TestValidateTheme_PriceBandAndSamples(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	byID := signalsByID([]research.Signal{
		searchTestSignal("s1", 24.99),
		searchTestSignal("s2", 39.99),
		competitorTestSignal("c1", 4.0, 19.99, 44.99),
	})

	theme := research.Theme{
		ID:                "thm-1",
		Name:              "Yoga Mats",
		Phase:             research.PhaseGrowing,
		SupportingSignals: []string{"s1", "s2", "c1", "missing"},
	}

	v := env.pipeline.validateTheme(theme, byID)

	assert.True(t, v.PriceLow.Equal(decimal.NewFromFloat(19.99)), "got %s", v.PriceLow)
	assert.True(t, v.PriceHigh.Equal(decimal.NewFromFloat(44.99)), "got %s", v.PriceHigh)
	require.Len(t, v.QualitativeSamples, 3)
	assert.Equal(t, "mixed", v.CompetitionQuality)
	assert.Empty(t, v.OperationalRisks)
}

func TestValidateTheme_CompetitionQuality(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	t.Run("no competitors reads weak", func(t *testing.T) {
		byID := signalsByID([]research.Signal{searchTestSignal("s1", 20)})
		v := env.pipeline.validateTheme(research.Theme{SupportingSignals: []string{"s1"}}, byID)
		assert.Equal(t, "weak", v.CompetitionQuality)
	})

	t.Run("majority of strong competitors reads strong", func(t *testing.T) {
		byID := signalsByID([]research.Signal{
			competitorTestSignal("c1", 4.8, 10, 20),
			competitorTestSignal("c2", 4.6, 10, 20),
			competitorTestSignal("c3", 3.9, 10, 20),
		})
		v := env.pipeline.validateTheme(research.Theme{SupportingSignals: []string{"c1", "c2", "c3"}}, byID)
		assert.Equal(t, "strong", v.CompetitionQuality)
		assert.Contains(t, v.OperationalRisks, "entrenched competition")
	})
}

func TestValidateTheme_OperationalRisks(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	// No price data and a late-cycle phase stack both risks.
	theme := research.Theme{
		Phase:             research.PhaseDeclining,
		SupportingSignals: []string{"none"},
	}
	v := env.pipeline.validateTheme(theme, signalsByID(nil))

	assert.Contains(t, v.OperationalRisks, "late trend entry")
	assert.Contains(t, v.OperationalRisks, "unverified price point")
}

func TestStageValidation_CapsCandidates(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	st := &runState{requestID: "r1"}
	for i := 0; i < 7; i++ {
		st.survivors = append(st.survivors, research.Theme{
			ID:   string(rune('a' + i)),
			Name: "Theme",
		})
	}

	payload, err := env.pipeline.stageValidation(context.Background(), st)
	require.NoError(t, err)

	validated := payload.(validatedPayload)
	assert.Len(t, validated.Themes, 5, "deep validation caps at the top five")
	require.Len(t, st.validated, 5)
	for _, theme := range st.validated {
		assert.NotNil(t, theme.Validation)
	}
}
