package research

import (
	"strings"

	"github.com/shopspring/decimal"
)

// StrategyProfile is the static business strategy the pipeline validates every
// request against. It is loaded once at startup and threaded into the handler;
// there is no process-wide mutable strategy state.
type StrategyProfile struct {
	AllowedCategories    []string
	ProhibitedCategories []string
	RiskTolerance        string
	TargetMargin         decimal.Decimal // percent
}

// AllowsCategory reports whether the category, or the "General" wildcard, is
// part of the allowed set. Matching is case-insensitive.
func (p StrategyProfile) AllowsCategory(category string) bool {
	for _, allowed := range p.AllowedCategories {
		if strings.EqualFold(allowed, category) || strings.EqualFold(allowed, "General") {
			return true
		}
	}
	return false
}

// Prohibits reports whether the name hits the strategy risk blacklist.
func (p StrategyProfile) Prohibits(name string) bool {
	lower := strings.ToLower(name)
	for _, banned := range p.ProhibitedCategories {
		if strings.Contains(lower, strings.ToLower(banned)) {
			return true
		}
	}
	return false
}
