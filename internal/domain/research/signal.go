package research

import (
	"time"
)

// Family classifies the origin of a signal.
type Family string

const (
	FamilySearch     Family = "search"
	FamilySocial     Family = "social"
	FamilyCompetitor Family = "competitor"
)

// Signal is one unit of raw external evidence about a candidate theme.
type Signal struct {
	ID        string                 `json:"id"`
	Family    Family                 `json:"family"`
	Source    string                 `json:"source"`
	Timestamp time.Time              `json:"timestamp"`
	Data      map[string]interface{} `json:"data"`
}

// Keyword returns the keyword the signal was gathered under, empty when the
// signal carries none.
func (s Signal) Keyword() string {
	if kw, ok := s.Data["keyword"].(string); ok {
		return kw
	}
	return ""
}

// Name returns the product or competitor name the signal refers to.
func (s Signal) Name() string {
	if n, ok := s.Data["name"].(string); ok {
		return n
	}
	return ""
}

// Families returns the set of distinct families in a signal slice.
func Families(signals []Signal) map[Family]int {
	families := make(map[Family]int)
	for _, s := range signals {
		families[s.Family]++
	}
	return families
}

// RawSignalItem is one product discovered by churning the signal source.
type RawSignalItem struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Rating   float64 `json:"rating"`
	Reviews  int     `json:"reviews"`
}

// CompetitorData is the competitor lookup result from the signal source.
type CompetitorData struct {
	Name           string  `json:"name"`
	EstimatedSales int     `json:"estimated_sales"`
	Rating         float64 `json:"rating"`
	ReviewCount    int     `json:"review_count"`
	PriceLow       float64 `json:"price_low"`
	PriceHigh      float64 `json:"price_high"`
}
