package research

import (
	"context"

	"hermes/internal/domain/learning"
	"hermes/pkg/errors"
)

// learningsPayload is the artifact carried by research.learnings_attached.
type learningsPayload struct {
	RequestID   string                `json:"request_id"`
	Learnings   []learning.Learning   `json:"learnings"`
	Adjustments []learning.Adjustment `json:"adjustments"`
}

// stageLearnings attaches category-relevant history from past runs plus the
// signed score adjustments derived from it.
func (p *Pipeline) stageLearnings(ctx context.Context, st *runState) (interface{}, error) {
	category := st.brief.Category

	var ls []learning.Learning
	err := p.capRetry.Do(ctx, func() error {
		var e error
		ls, e = p.learnings.ListByCategory(ctx, category, 10)
		return e
	})
	if err != nil {
		return nil, errors.Wrap(err, "load prior learnings")
	}

	var adjustments []learning.Adjustment
	err = p.capRetry.Do(ctx, func() error {
		var e error
		adjustments, e = p.learnings.AdjustmentsByCategory(ctx, category)
		return e
	})
	if err != nil {
		return nil, errors.Wrap(err, "load score adjustments")
	}

	st.learnings = ls
	st.adjustments = adjustments

	return learningsPayload{
		RequestID:   st.requestID,
		Learnings:   ls,
		Adjustments: adjustments,
	}, nil
}
