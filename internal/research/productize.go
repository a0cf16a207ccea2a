package research

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"hermes/internal/domain/research"
)

// conceptsPayload is the artifact carried by research.concepts_created.
type conceptsPayload struct {
	RequestID string             `json:"request_id"`
	Concepts  []research.Concept `json:"concepts"`
}

// stageProductization synthesizes one offer concept per validated theme.
func (p *Pipeline) stageProductization(ctx context.Context, st *runState) (interface{}, error) {
	concepts := make([]research.Concept, 0, len(st.validated))
	for _, t := range st.validated {
		concepts = append(concepts, p.conceptFor(t, st.brief))
	}

	st.concepts = concepts
	return conceptsPayload{RequestID: st.requestID, Concepts: concepts}, nil
}

func (p *Pipeline) conceptFor(t research.Theme, brief research.Brief) research.Concept {
	persona := "general consumer"
	if len(brief.TargetPersonas) > 0 {
		persona = brief.TargetPersonas[0]
	}

	differentiation := "curated bundle with positioning gap against incumbents"
	if t.Validation != nil && t.Validation.CompetitionQuality == "weak" {
		differentiation = "first-mover positioning in an underserved cluster"
	}

	// A concept is supplier-feasible unless validation surfaced risks that
	// block sourcing on the brief's timeline.
	feasible := true
	if t.Validation != nil {
		for _, risk := range t.Validation.OperationalRisks {
			if risk == "unverified price point" || risk == "late trend entry" {
				feasible = false
				break
			}
		}
	}

	return research.Concept{
		ID:      "cpt-" + uuid.NewString(),
		ThemeID: t.ID,
		Name:    fmt.Sprintf("%s Collection", t.Name),
		Hypothesis: fmt.Sprintf("%s buyers in the %s segment will pay a premium for a curated %s offer during the %s window",
			persona, brief.Category, t.Name, brief.SeasonalWindow),
		BundleOptions: []string{
			"starter bundle",
			"premium bundle",
			"subscription refill",
		},
		TargetPersona:    persona,
		Differentiation:  differentiation,
		SupplierFeasible: feasible,
		Score:            t.Score,
	}
}
