package research

import (
	"context"
	"fmt"
	"strings"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

// Rejection reason prefixes. Stable, machine-readable.
const (
	reasonProhibited  = "prohibited_category"
	reasonFulfillment = "fulfillment_risk"
	reasonConstraint  = "negative_constraint"
	reasonGeneric     = "generic_description"
)

const minDescriptionLen = 10

// fulfillmentRiskTerms flags themes whose fulfillment profile the business
// will not take on: fragile, bulky or regulated goods.
var fulfillmentRiskTerms = []string{
	"glass", "fragile", "ceramic",
	"oversized", "bulky", "furniture",
	"hazmat", "flammable", "battery", "aerosol", "liquid",
	"perishable",
}

// gatedPayload is the artifact carried by research.themes_gated.
type gatedPayload struct {
	RequestID string               `json:"request_id"`
	Passed    int                  `json:"passed"`
	Rejected  int                  `json:"rejected"`
	Themes    []research.Theme     `json:"themes"`
	Reasons   []research.Rejection `json:"reasons"`
}

// stageGating applies the hard filters: strategy risk blacklist, fulfillment
// risk lexicon, brief-specific negative constraints, and a floor on
// description quality. Rejections are outcomes, not errors; each carries a
// reason string.
func (p *Pipeline) stageGating(ctx context.Context, st *runState) (interface{}, error) {
	var passed []research.Theme
	var rejected []research.Rejection

	for _, t := range st.themes {
		if reason, ok := p.gateReason(t, st.brief); ok {
			rejected = append(rejected, research.Rejection{ThemeID: t.ID, Name: t.Name, Reason: reason})
			continue
		}
		passed = append(passed, t)
	}

	if len(passed) == 0 {
		return nil, errors.Wrapf(errors.ErrNoThemes, "all %d themes gated out", len(rejected))
	}

	st.themes = passed
	st.rejected = rejected

	return gatedPayload{
		RequestID: st.requestID,
		Passed:    len(passed),
		Rejected:  len(rejected),
		Themes:    passed,
		Reasons:   rejected,
	}, nil
}

// gateReason returns the first matching rejection reason for a theme.
func (p *Pipeline) gateReason(t research.Theme, brief research.Brief) (string, bool) {
	name := strings.ToLower(t.Name)

	if p.profile.Prohibits(name) {
		return reasonProhibited, true
	}

	for _, term := range fulfillmentRiskTerms {
		if strings.Contains(name, term) {
			return fmt.Sprintf("%s:%s", reasonFulfillment, term), true
		}
	}

	for _, constraint := range brief.NegativeConstraints {
		if constraint != "" && strings.Contains(name, strings.ToLower(constraint)) {
			return fmt.Sprintf("%s:%s", reasonConstraint, constraint), true
		}
	}

	if len(t.Description) < minDescriptionLen {
		return reasonGeneric, true
	}

	return "", false
}
