package research

import (
	"math/rand"
	"sync"

	"hermes/internal/domain/research"
)

// Estimator supplies the demand/competition sub-scores and trend-phase
// estimates that have no deterministic source yet. It is pluggable so tests
// can substitute fixed values and assert exact scores.
type Estimator interface {
	// DemandScore returns a demand sub-score in [0, 0.1].
	DemandScore(t research.Theme) float64

	// CompetitionScore returns a competition sub-score in [-0.1, 0].
	CompetitionScore(t research.Theme) float64

	// TrendPhase estimates a theme's trend phase and remaining
	// opportunity-window days.
	TrendPhase(t research.Theme) (research.Phase, int)
}

// HeuristicEstimator produces seeded pseudo-random estimates. It stands in
// for real demand/competition models; the seed makes runs reproducible.
type HeuristicEstimator struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewHeuristicEstimator creates an estimator seeded for reproducibility.
func NewHeuristicEstimator(seed int64) *HeuristicEstimator {
	return &HeuristicEstimator{rng: rand.New(rand.NewSource(seed))}
}

// DemandScore returns a demand sub-score in [0, 0.1].
func (e *HeuristicEstimator) DemandScore(t research.Theme) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.rng.Float64() * 0.1
}

// CompetitionScore returns a competition sub-score in [-0.1, 0].
func (e *HeuristicEstimator) CompetitionScore(t research.Theme) float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return -e.rng.Float64() * 0.1
}

// TrendPhase picks a phase and a window consistent with it. Earlier phases
// leave more runway.
func (e *HeuristicEstimator) TrendPhase(t research.Theme) (research.Phase, int) {
	e.mu.Lock()
	defer e.mu.Unlock()

	switch e.rng.Intn(4) {
	case 0:
		return research.PhaseEmerging, 30 + e.rng.Intn(31) // 30-60 days
	case 1:
		return research.PhaseGrowing, 14 + e.rng.Intn(32) // 14-45 days
	case 2:
		return research.PhasePeaking, 7 + e.rng.Intn(15) // 7-21 days
	default:
		return research.PhaseDeclining, e.rng.Intn(8) // 0-7 days
	}
}

// FixedEstimator returns constant estimates. Test use only.
type FixedEstimator struct {
	Demand      float64
	Competition float64
	Phase       research.Phase
	WindowDays  int
}

func (e FixedEstimator) DemandScore(research.Theme) float64      { return e.Demand }
func (e FixedEstimator) CompetitionScore(research.Theme) float64 { return e.Competition }
func (e FixedEstimator) TrendPhase(research.Theme) (research.Phase, int) {
	return e.Phase, e.WindowDays
}
