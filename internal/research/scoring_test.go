package research

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hermes/internal/domain/learning"
	"hermes/internal/domain/research"
)

func TestScoreTheme(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	cases := []struct {
		name     string
		theme    research.Theme
		adjust   float64
		expected float64
	}{
		{
			name: "observed with capped signal bonus",
			theme: research.Theme{
				Certainty:         research.CertaintyObserved,
				SupportingSignals: []string{"a", "b", "c", "d", "e"},
			},
			expected: 0.9, // 0.5 + 0.2 + capped 0.2
		},
		{
			name: "inferred single signal",
			theme: research.Theme{
				Certainty:         research.CertaintyInferred,
				SupportingSignals: []string{"a"},
			},
			expected: 0.65, // 0.5 + 0.1 + 0.05
		},
		{
			name: "adjustments shift the score",
			theme: research.Theme{
				Certainty:         research.CertaintyInferred,
				SupportingSignals: []string{"a"},
			},
			adjust:   -0.15,
			expected: 0.5,
		},
		{
			name: "clamped at one",
			theme: research.Theme{
				Certainty:         research.CertaintyObserved,
				SupportingSignals: []string{"a", "b", "c", "d"},
			},
			adjust:   0.5,
			expected: 1.0,
		},
		{
			name:     "clamped at zero",
			theme:    research.Theme{Certainty: research.CertaintyInferred},
			adjust:   -2.0,
			expected: 0.0,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.InDelta(t, tc.expected, env.pipeline.scoreTheme(tc.theme, tc.adjust), 1e-9)
		})
	}
}

func TestStageScoring_RanksAndTruncates(t *testing.T) {
	env := newTestEnv(FixedEstimator{})

	st := &runState{requestID: "r1"}
	for i := 0; i < 12; i++ {
		certainty := research.CertaintyInferred
		if i%2 == 0 {
			certainty = research.CertaintyObserved
		}
		st.themes = append(st.themes, research.Theme{
			ID:                fmt.Sprintf("thm-%d", i),
			Name:              fmt.Sprintf("Theme %d", i),
			Certainty:         certainty,
			SupportingSignals: []string{"a"},
		})
	}

	payload, err := env.pipeline.stageScoring(context.Background(), st)
	require.NoError(t, err)

	ranked := payload.(rankedPayload)
	require.Len(t, ranked.Shortlist, 10, "shortlist caps at ten")
	assert.Equal(t, ranked.Shortlist, st.shortlist)

	for i := 1; i < len(ranked.Shortlist); i++ {
		assert.GreaterOrEqual(t, ranked.Shortlist[i-1].Score, ranked.Shortlist[i].Score)
	}

	// The stable sort keeps clustering order among equal scores: all observed
	// themes first in their original order, then the inferred ones.
	assert.Equal(t, "thm-0", ranked.Shortlist[0].ID)
	assert.Equal(t, "thm-2", ranked.Shortlist[1].ID)
}

func TestStageScoring_AppliesSignedAdjustments(t *testing.T) {
	env := newTestEnv(FixedEstimator{},
		learning.Adjustment{Category: "Fitness", Factor: "returns", Type: learning.AdjustmentPenalty, Value: 0.1},
		learning.Adjustment{Category: "Fitness", Factor: "bundles", Type: learning.AdjustmentBoost, Value: 0.05},
	)

	st := &runState{
		requestID: "r1",
		themes: []research.Theme{
			{ID: "thm-1", Certainty: research.CertaintyInferred, SupportingSignals: []string{"a"}},
		},
	}

	adjustments, err := env.store.AdjustmentsByCategory(context.Background(), "Fitness")
	require.NoError(t, err)
	st.adjustments = adjustments

	payload, err := env.pipeline.stageScoring(context.Background(), st)
	require.NoError(t, err)

	ranked := payload.(rankedPayload)
	require.Len(t, ranked.Shortlist, 1)
	// 0.5 + 0.1 + 0.05 - 0.1 + 0.05 = 0.6
	assert.InDelta(t, 0.6, ranked.Shortlist[0].Score, 1e-9)
}
