package research

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

const keywordSystemPrompt = `You derive marketplace search keywords.
Given a product category, respond with a JSON array of exactly 3 short keyword variants a shopper would type.
Respond with JSON only, no prose.`

const (
	maxItemsPerKeyword = 5
	competitorSeeds    = 3
	minFamilies        = 2
)

// signalsPayload is the artifact carried by research.signals_collected.
type signalsPayload struct {
	RequestID string            `json:"request_id"`
	Keywords  []string          `json:"keywords"`
	Signals   []research.Signal `json:"signals"`
	Degraded  bool              `json:"degraded,omitempty"`
}

// stageSignals gathers search-family signals for each keyword variant, seeds
// competitor-family signals from the top discovered items, and enforces the
// two-family floor by synthesizing a placeholder when the real data falls
// short. The placeholder path is a documented degraded mode, not a failure.
func (p *Pipeline) stageSignals(ctx context.Context, st *runState) (interface{}, error) {
	keywords := p.keywordVariants(ctx, st.brief.Category)

	var signals []research.Signal
	var items []research.RawSignalItem

	for _, kw := range keywords {
		var found []research.RawSignalItem
		err := p.capRetry.Do(ctx, func() error {
			var e error
			found, e = p.signals.FindProducts(ctx, kw)
			return e
		})
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCapability, "find products for %q: %v", kw, err)
		}

		if len(found) > maxItemsPerKeyword {
			found = found[:maxItemsPerKeyword]
		}
		for _, item := range found {
			signals = append(signals, searchSignal(kw, item))
			items = append(items, item)
		}
	}

	// Seed competitor signals from the most-reviewed discoveries.
	sort.SliceStable(items, func(i, j int) bool { return items[i].Reviews > items[j].Reviews })
	seeds := items
	if len(seeds) > competitorSeeds {
		seeds = seeds[:competitorSeeds]
	}
	for _, item := range seeds {
		var data research.CompetitorData
		err := p.capRetry.Do(ctx, func() error {
			var e error
			data, e = p.signals.AnalyzeCompetitors(ctx, item.Name)
			return e
		})
		if err != nil {
			return nil, errors.Wrapf(errors.ErrCapability, "analyze competitor %q: %v", item.Name, err)
		}
		signals = append(signals, competitorSignal(item, data))
	}

	degraded := false
	if len(research.Families(signals)) < minFamilies {
		missing := research.FamilyCompetitor
		if _, ok := research.Families(signals)[research.FamilySearch]; !ok {
			missing = research.FamilySearch
		}
		signals = append(signals, placeholderSignal(st.brief.Category, missing))
		degraded = true

		p.log.Warnw("Signal set spans fewer than two families, synthesized placeholder",
			"request_id", st.requestID,
			"missing_family", missing,
		)
		p.activity.Log(agentName, "degraded signal collection", "warning", map[string]interface{}{
			"request_id":     st.requestID,
			"missing_family": string(missing),
		})
	}

	st.signals = signals
	return signalsPayload{
		RequestID: st.requestID,
		Keywords:  keywords,
		Signals:   signals,
		Degraded:  degraded,
	}, nil
}

// keywordVariants asks the model for 3 keyword variants; on any failure the
// raw category is the fallback keyword.
func (p *Pipeline) keywordVariants(ctx context.Context, category string) []string {
	out, err := p.complete(ctx, keywordSystemPrompt, category)
	if err != nil {
		p.log.Warnw("Keyword derivation failed, falling back to raw category", "error", err)
		return []string{category}
	}

	var variants []string
	if err := json.Unmarshal([]byte(extractJSON(out)), &variants); err != nil || len(variants) == 0 {
		p.log.Warnw("Keyword derivation returned malformed JSON, falling back to raw category", "error", err)
		return []string{category}
	}
	if len(variants) > 3 {
		variants = variants[:3]
	}
	return variants
}

func searchSignal(keyword string, item research.RawSignalItem) research.Signal {
	return research.Signal{
		ID:        "sig-" + uuid.NewString(),
		Family:    research.FamilySearch,
		Source:    "marketplace.search",
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"keyword": keyword,
			"name":    item.Name,
			"price":   item.Price,
			"rating":  item.Rating,
			"reviews": item.Reviews,
		},
	}
}

func competitorSignal(item research.RawSignalItem, data research.CompetitorData) research.Signal {
	return research.Signal{
		ID:        "sig-" + uuid.NewString(),
		Family:    research.FamilyCompetitor,
		Source:    "marketplace.competitors",
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"name":            data.Name,
			"keyword":         item.Name,
			"estimated_sales": data.EstimatedSales,
			"rating":          data.Rating,
			"review_count":    data.ReviewCount,
			"price_low":       data.PriceLow,
			"price_high":      data.PriceHigh,
		},
	}
}

func placeholderSignal(category string, family research.Family) research.Signal {
	return research.Signal{
		ID:        "sig-" + uuid.NewString(),
		Family:    family,
		Source:    "synthetic.placeholder",
		Timestamp: time.Now().UTC(),
		Data: map[string]interface{}{
			"keyword":     category,
			"name":        fmt.Sprintf("%s (placeholder)", category),
			"placeholder": true,
		},
	}
}
