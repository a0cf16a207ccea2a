package research

// Criteria is the raw request input published on research.requested.
type Criteria struct {
	Category            string   `json:"category"`
	Constraints         []string `json:"constraints,omitempty"`
	NegativeConstraints []string `json:"negative_constraints,omitempty"`
}

// ExecutionSpeed expresses how quickly the business wants to move on the
// opportunities from a run.
type ExecutionSpeed string

const (
	SpeedFast     ExecutionSpeed = "fast"
	SpeedNormal   ExecutionSpeed = "normal"
	SpeedThorough ExecutionSpeed = "thorough"
)

// Days returns the days-to-launch requirement for the speed. Unknown values
// fall back to the normal cadence.
func (s ExecutionSpeed) Days() int {
	switch s {
	case SpeedFast:
		return 7
	case SpeedThorough:
		return 30
	default:
		return 14
	}
}

// Valid reports whether s is one of the known speeds.
func (s ExecutionSpeed) Valid() bool {
	switch s {
	case SpeedFast, SpeedNormal, SpeedThorough:
		return true
	}
	return false
}

// Brief is the normalized form of a research request, produced by the intake
// stage from raw criteria.
type Brief struct {
	Category            string         `json:"category"`
	SeasonalWindow      string         `json:"seasonal_window"`
	TargetPersonas      []string       `json:"target_personas"`
	CategoryConstraints []string       `json:"category_constraints"`
	NegativeConstraints []string       `json:"negative_constraints"`
	EmergingDefinition  string         `json:"emerging_definition"`
	ExecutionSpeed      ExecutionSpeed `json:"execution_speed"`
	AlignmentScore      float64        `json:"alignment_score"`
}

// DefaultBrief is the fallback used when the language model returns output we
// cannot parse. It keeps the run alive with conservative assumptions.
func DefaultBrief(category string) Brief {
	return Brief{
		Category:           category,
		SeasonalWindow:     "evergreen",
		TargetPersonas:     []string{"general consumer"},
		EmergingDefinition: "sustained search growth over two consecutive quarters",
		ExecutionSpeed:     SpeedNormal,
	}
}
