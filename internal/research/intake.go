package research

import (
	"context"
	"encoding/json"
	"strings"

	"hermes/internal/domain/research"
	"hermes/pkg/errors"
)

const intakeSystemPrompt = `You normalize product research requests for an autonomous commerce business.
Given raw request criteria, respond with a single JSON object:
{"seasonal_window": "...", "target_personas": ["..."], "emerging_definition": "...", "execution_speed": "fast|normal|thorough"}
Respond with JSON only, no prose.`

// briefCreatedPayload is the artifact carried by research.brief_created.
type briefCreatedPayload struct {
	RequestID string         `json:"request_id"`
	Brief     research.Brief `json:"brief"`
}

// stageIntake normalizes raw criteria into a Brief and applies the strategic
// alignment hard gate. A model failure degrades to the default brief; a poor
// alignment score aborts the run.
func (p *Pipeline) stageIntake(ctx context.Context, st *runState) (interface{}, error) {
	if st.criteria.Category == "" {
		return nil, errors.Wrap(errors.ErrInvalidInput, "request has no category")
	}

	brief := research.DefaultBrief(st.criteria.Category)

	input, _ := json.Marshal(st.criteria)
	out, err := p.complete(ctx, intakeSystemPrompt, string(input))
	if err != nil {
		// Brief defaults are a sane fallback for this stage.
		p.log.Warnw("Intake normalization failed, using default brief", "error", err)
	} else if parsed, perr := parseBriefJSON(out); perr != nil {
		p.log.Warnw("Intake returned malformed JSON, using default brief", "error", perr)
	} else {
		mergeBrief(&brief, parsed)
	}

	brief.CategoryConstraints = st.criteria.Constraints
	brief.NegativeConstraints = st.criteria.NegativeConstraints

	if p.profile.AllowsCategory(brief.Category) {
		brief.AlignmentScore = 1.0
	} else {
		brief.AlignmentScore = 0.1
	}

	if brief.AlignmentScore < 0.5 {
		return nil, errors.Wrapf(errors.ErrPoorAlignment, "category %q vs allowed %v", brief.Category, p.profile.AllowedCategories)
	}

	st.brief = brief
	return briefCreatedPayload{RequestID: st.requestID, Brief: brief}, nil
}

// rawBrief is the loose shape we accept from the model.
type rawBrief struct {
	SeasonalWindow     string   `json:"seasonal_window"`
	TargetPersonas     []string `json:"target_personas"`
	EmergingDefinition string   `json:"emerging_definition"`
	ExecutionSpeed     string   `json:"execution_speed"`
}

// parseBriefJSON extracts a brief object from model output, tolerating code
// fences and surrounding prose.
func parseBriefJSON(out string) (rawBrief, error) {
	var parsed rawBrief
	if err := json.Unmarshal([]byte(extractJSON(out)), &parsed); err != nil {
		return rawBrief{}, err
	}
	return parsed, nil
}

func mergeBrief(brief *research.Brief, parsed rawBrief) {
	if parsed.SeasonalWindow != "" {
		brief.SeasonalWindow = parsed.SeasonalWindow
	}
	if len(parsed.TargetPersonas) > 0 {
		brief.TargetPersonas = parsed.TargetPersonas
	}
	if parsed.EmergingDefinition != "" {
		brief.EmergingDefinition = parsed.EmergingDefinition
	}
	if speed := research.ExecutionSpeed(parsed.ExecutionSpeed); speed.Valid() {
		brief.ExecutionSpeed = speed
	}
}

// extractJSON strips markdown fences and clips to the outermost JSON value.
func extractJSON(out string) string {
	out = strings.TrimSpace(out)
	out = strings.TrimPrefix(out, "```json")
	out = strings.TrimPrefix(out, "```")
	out = strings.TrimSuffix(out, "```")
	out = strings.TrimSpace(out)

	start := strings.IndexAny(out, "{[")
	if start < 0 {
		return out
	}
	var end int
	if out[start] == '{' {
		end = strings.LastIndex(out, "}")
	} else {
		end = strings.LastIndex(out, "]")
	}
	if end <= start {
		return out
	}
	return out[start : end+1]
}
