package research

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

// timeFitNote describes one theme's phase/window assessment.
type timeFitNote struct {
	ThemeID    string         `json:"theme_id"`
	Name       string         `json:"name"`
	Phase      research.Phase `json:"phase"`
	WindowDays int            `json:"window_days"`
	Note       string         `json:"note"`
	Passed     bool           `json:"passed"`
}

// timeFilteredPayload is the artifact carried by research.time_filtered.
type timeFilteredPayload struct {
	RequestID    string        `json:"request_id"`
	RequiredDays int           `json:"required_days"`
	Notes        []timeFitNote `json:"notes"`
}

// stageTimeFitness keeps themes whose remaining opportunity window covers the
// brief's days-to-launch requirement. The boundary is inclusive: a window
// exactly equal to the requirement passes.
func (p *Pipeline) stageTimeFitness(ctx context.Context, st *runState) (interface{}, error) {
	required := st.brief.ExecutionSpeed.Days()

	var survivors []research.Theme
	notes := make([]timeFitNote, 0, len(st.shortlist))

	for _, t := range st.shortlist {
		phase, window := p.estimator.TrendPhase(t)
		t.Phase = phase
		t.WindowDays = window
		t.WindowNote = windowNote(phase, window)

		passed := window >= required
		notes = append(notes, timeFitNote{
			ThemeID:    t.ID,
			Name:       t.Name,
			Phase:      phase,
			WindowDays: window,
			Note:       t.WindowNote,
			Passed:     passed,
		})
		if passed {
			survivors = append(survivors, t)
		}
	}

	if len(survivors) == 0 {
		return nil, errors.Wrapf(errors.ErrNoThemes, "no theme window covers %d days", required)
	}

	st.survivors = survivors
	return timeFilteredPayload{
		RequestID:    st.requestID,
		RequiredDays: required,
		Notes:        notes,
	}, nil
}

func windowNote(phase research.Phase, windowDays int) string {
	now := time.Now()
	closes := now.AddDate(0, 0, windowDays)
	return fmt.Sprintf("%s phase, window closes %s", phase, humanize.RelTime(closes, now, "ago", "from now"))
}
