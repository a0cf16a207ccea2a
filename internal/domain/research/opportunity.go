package research

import (
	"time"

	"github.com/shopspring/decimal"
)

// Concept is one offer concept synthesized from a validated theme.
type Concept struct {
	ID               string   `json:"id"`
	ThemeID          string   `json:"theme_id"`
	Name             string   `json:"name"`
	Hypothesis       string   `json:"hypothesis"`
	BundleOptions    []string `json:"bundle_options"`
	TargetPersona    string   `json:"target_persona"`
	Differentiation  string   `json:"differentiation"`
	SupplierFeasible bool     `json:"supplier_feasible"`
	Score            float64  `json:"score"`
}

// EvidenceReferences maps signal ids back to their sources so a brief's claims
// stay auditable.
type EvidenceReferences struct {
	EvidenceIDs []string          `json:"evidence_ids"`
	Sources     map[string]string `json:"sources"`
}

// OpportunityBrief is the pipeline's terminal decision artifact for one
// concept. Immutable once published.
type OpportunityBrief struct {
	ID               string             `json:"id"`
	RequestID        string             `json:"request_id"`
	ThemeID          string             `json:"theme_id"`
	ConceptID        string             `json:"concept_id"`
	Title            string             `json:"title"`
	Hypothesis       string             `json:"hypothesis"`
	TargetPersona    string             `json:"target_persona"`
	BundleOptions    []string           `json:"bundle_options"`
	Differentiation  string             `json:"differentiation"`
	SupplierFeasible bool               `json:"supplier_feasible"`
	PriceLow         decimal.Decimal    `json:"price_low"`
	PriceHigh        decimal.Decimal    `json:"price_high"`
	RiskAssessment   string             `json:"risk_assessment"`
	KillCriteria     []string           `json:"kill_criteria"`
	ValidationPlan   []string           `json:"validation_plan"`
	Evidence         EvidenceReferences `json:"evidence_references"`
	Score            float64            `json:"score"`
	CreatedAt        time.Time          `json:"created_at"`
}
