package research

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"hermes/internal/domain/research"
)

func TestHeuristicEstimator_Ranges(t *testing.T) {
	e := NewHeuristicEstimator(42)
	theme := research.Theme{ID: "thm-1"}

	for i := 0; i < 200; i++ {
		demand := e.DemandScore(theme)
		assert.GreaterOrEqual(t, demand, 0.0)
		assert.LessOrEqual(t, demand, 0.1)

		competition := e.CompetitionScore(theme)
		assert.GreaterOrEqual(t, competition, -0.1)
		assert.LessOrEqual(t, competition, 0.0)

		phase, window := e.TrendPhase(theme)
		switch phase {
		case research.PhaseEmerging:
			assert.GreaterOrEqual(t, window, 30)
			assert.LessOrEqual(t, window, 60)
		case research.PhaseGrowing:
			assert.GreaterOrEqual(t, window, 14)
			assert.LessOrEqual(t, window, 45)
		case research.PhasePeaking:
			assert.GreaterOrEqual(t, window, 7)
			assert.LessOrEqual(t, window, 21)
		case research.PhaseDeclining:
			assert.GreaterOrEqual(t, window, 0)
			assert.LessOrEqual(t, window, 7)
		default:
			t.Fatalf("unknown phase %q", phase)
		}
	}
}

func TestHeuristicEstimator_SeedReproducibility(t *testing.T) {
	a := NewHeuristicEstimator(7)
	b := NewHeuristicEstimator(7)
	theme := research.Theme{ID: "thm-1"}

	for i := 0; i < 50; i++ {
		assert.Equal(t, a.DemandScore(theme), b.DemandScore(theme))
	}
}

func TestFixedEstimator(t *testing.T) {
	e := FixedEstimator{Demand: 0.07, Competition: -0.03, Phase: research.PhaseGrowing, WindowDays: 21}
	theme := research.Theme{}

	assert.Equal(t, 0.07, e.DemandScore(theme))
	assert.Equal(t, -0.03, e.CompetitionScore(theme))
	phase, window := e.TrendPhase(theme)
	assert.Equal(t, research.PhaseGrowing, phase)
	assert.Equal(t, 21, window)
}
