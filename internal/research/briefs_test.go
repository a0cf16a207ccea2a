package research

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

func TestAssembleBrief_EvidenceRestrictedToThemeSignals(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	byID := signalsByID([]research.Signal{
		searchTestSignal("s1", 20),
		searchTestSignal("s2", 30),
		searchTestSignal("other", 99),
	})

	theme := research.Theme{
		ID:                "thm-1",
		Name:              "Yoga Mats",
		Certainty:         research.CertaintyObserved,
		SupportingSignals: []string{"s1", "s2", "gone"},
		WindowNote:        "growing phase, window closes 1 month from now",
	}
	concept := research.Concept{
		ID:      "cpt-1",
		ThemeID: "thm-1",
		Name:    "Yoga Mats Collection",
		Score:   0.8,
	}

	st := &runState{requestID: "r1", brief: research.DefaultBrief("Fitness")}

	brief := env.pipeline.assembleBrief(st, concept, theme, byID)

	assert.ElementsMatch(t, []string{"s1", "s2"}, brief.Evidence.EvidenceIDs,
		"evidence excludes signals outside the theme and unknown ids")
	assert.Equal(t, "marketplace.search", brief.Evidence.Sources["s1"])

	assert.Equal(t, "r1", brief.RequestID)
	assert.Equal(t, "thm-1", brief.ThemeID)
	assert.Equal(t, "cpt-1", brief.ConceptID)
	assert.Contains(t, brief.RiskAssessment, "moderate")
	assert.Contains(t, brief.RiskAssessment, "observed")
	require.Len(t, brief.KillCriteria, 3)
	assert.Contains(t, brief.KillCriteria[0], "35%")
	require.Len(t, brief.ValidationPlan, 3)
	assert.Contains(t, brief.ValidationPlan[2], theme.WindowNote)
}

func TestStageBriefAssembly_CapsAtThree(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	st := &runState{requestID: "r1", brief: research.DefaultBrief("Fitness")}
	for i := 0; i < 5; i++ {
		id := string(rune('a' + i))
		st.validated = append(st.validated, research.Theme{ID: "thm-" + id, Name: "Theme " + id})
		st.concepts = append(st.concepts, research.Concept{
			ID:      "cpt-" + id,
			ThemeID: "thm-" + id,
			Name:    "Concept " + id,
			Score:   0.7,
		})
	}

	briefs, err := env.pipeline.stageBriefAssembly(context.Background(), st)
	require.NoError(t, err)

	assert.Len(t, briefs, 3)
	assert.Len(t, st.briefs, 3)

	// Each published brief writes one learning back.
	recorded, err := env.store.ListByCategory(context.Background(), "Fitness", 10)
	require.NoError(t, err)
	assert.Len(t, recorded, 3)
}

func TestStageBriefAssembly_NoConcepts(t *testing.T) {
	env := newTestEnv(FixedEstimator{})
	st := &runState{requestID: "r1", brief: research.DefaultBrief("Fitness")}

	_, err := env.pipeline.stageBriefAssembly(context.Background(), st)
	assert.ErrorIs(t, err, errors.ErrNoThemes)
}

func TestConceptFor_FeasibilityAndDifferentiation(t *testing.T) {
	env := newTestEnv(FixedEstimator{})
	brief := research.DefaultBrief("Fitness")

	t.Run("clean validation is feasible", func(t *testing.T) {
		theme := research.Theme{
			ID: "thm-1", Name: "Yoga Mats", Score: 0.8,
			Validation: &research.Validation{CompetitionQuality: "weak"},
		}
		c := env.pipeline.conceptFor(theme, brief)
		assert.True(t, c.SupplierFeasible)
		assert.Contains(t, c.Differentiation, "first-mover")
		assert.Equal(t, 0.8, c.Score)
		assert.Len(t, c.BundleOptions, 3)
	})

	t.Run("blocking risks turn feasibility off", func(t *testing.T) {
		theme := research.Theme{
			ID: "thm-2", Name: "Yoga Mats",
			Validation: &research.Validation{
				CompetitionQuality: "mixed",
				OperationalRisks:   []string{"unverified price point"},
			},
		}
		c := env.pipeline.conceptFor(theme, brief)
		assert.False(t, c.SupplierFeasible)
	})
}
