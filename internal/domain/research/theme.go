package research

import (
	"github.com/shopspring/decimal"
)

// Certainty expresses how well-evidenced a theme is.
type Certainty string

const (
	// CertaintyInferred means the theme rests on a single signal family.
	CertaintyInferred Certainty = "inferred"
	// CertaintyObserved means supporting signals span more than one family.
	CertaintyObserved Certainty = "observed"
)

// Phase is the estimated position of a theme in its trend cycle.
type Phase string

const (
	PhaseEmerging  Phase = "emerging"
	PhaseGrowing   Phase = "growing"
	PhasePeaking   Phase = "peaking"
	PhaseDeclining Phase = "declining"
)

// Theme is a clustered hypothesis about a product opportunity, backed by one
// or more signals.
type Theme struct {
	ID                string      `json:"id"`
	Name              string      `json:"name"`
	Description       string      `json:"description"`
	SupportingSignals []string    `json:"supporting_signals"`
	Certainty         Certainty   `json:"certainty"`
	Score             float64     `json:"score"`
	Phase             Phase       `json:"phase,omitempty"`
	WindowDays        int         `json:"window_days,omitempty"`
	WindowNote        string      `json:"window_note,omitempty"`
	Validation        *Validation `json:"validation,omitempty"`
}

// Rejection records why a theme was gated out. Reason strings are
// machine-readable and stable.
type Rejection struct {
	ThemeID string `json:"theme_id"`
	Name    string `json:"name"`
	Reason  string `json:"reason"`
}

// Validation holds the deep-validation enrichment of a surviving theme.
type Validation struct {
	QualitativeSamples []string        `json:"qualitative_samples"`
	PriceLow           decimal.Decimal `json:"price_low"`
	PriceHigh          decimal.Decimal `json:"price_high"`
	CompetitionQuality string          `json:"competition_quality"` // weak|mixed|strong
	OperationalRisks   []string        `json:"operational_risks"`
}
