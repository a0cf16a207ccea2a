package research

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

// themesPayload is the artifact carried by research.themes_generated.
type themesPayload struct {
	RequestID string           `json:"request_id"`
	Themes    []research.Theme `json:"themes"`
}

// stageThemes clusters signals into candidate themes by normalized keyword. A
// theme is Observed only when its supporting signals span more than one
// family; single-family clusters stay Inferred.
func (p *Pipeline) stageThemes(ctx context.Context, st *runState) (interface{}, error) {
	if len(st.signals) == 0 {
		return nil, errors.Wrap(errors.ErrNoThemes, "no signals to cluster")
	}

	type cluster struct {
		key     string
		signals []research.Signal
	}

	var order []string
	groups := make(map[string]*cluster)
	for _, s := range st.signals {
		key := clusterKey(s)
		if key == "" {
			continue
		}
		if _, ok := groups[key]; !ok {
			groups[key] = &cluster{key: key}
			order = append(order, key)
		}
		groups[key].signals = append(groups[key].signals, s)
	}

	themes := make([]research.Theme, 0, len(order))
	for _, key := range order {
		c := groups[key]

		certainty := research.CertaintyInferred
		if len(research.Families(c.signals)) > 1 {
			certainty = research.CertaintyObserved
		}

		ids := make([]string, 0, len(c.signals))
		sources := make(map[string]bool)
		for _, s := range c.signals {
			ids = append(ids, s.ID)
			sources[s.Source] = true
		}

		themes = append(themes, research.Theme{
			ID:                "thm-" + uuid.NewString(),
			Name:              titleCase(key),
			Description:       themeDescription(key, st.brief.Category, len(c.signals), len(sources)),
			SupportingSignals: ids,
			Certainty:         certainty,
		})
	}

	st.themes = themes
	return themesPayload{RequestID: st.requestID, Themes: themes}, nil
}

// clusterKey normalizes a signal's keyword (falling back to its name) into a
// cluster key: lowercase, first two significant tokens.
func clusterKey(s research.Signal) string {
	raw := s.Keyword()
	if raw == "" {
		raw = s.Name()
	}

	var tokens []string
	for _, tok := range strings.Fields(strings.ToLower(raw)) {
		tok = strings.Map(func(r rune) rune {
			if r >= 'a' && r <= 'z' || r >= '0' && r <= '9' {
				return r
			}
			return -1
		}, tok)
		if len(tok) < 3 || stopWords[tok] {
			continue
		}
		tokens = append(tokens, tok)
		if len(tokens) == 2 {
			break
		}
	}
	return strings.Join(tokens, " ")
}

var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true,
	"best": true, "new": true, "top": true, "placeholder": true,
}

func themeDescription(key, category string, signalCount, sourceCount int) string {
	return fmt.Sprintf("Cluster of %d signals around %q in the %s category, drawn from %d sources",
		signalCount, key, category, sourceCount)
}

func titleCase(s string) string {
	words := strings.Fields(s)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
