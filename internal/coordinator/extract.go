// gather_requirements node: one generation call turns the conversation so
// far into a structured update of event details, requirements and
// per-category completeness verdicts.

package coordinator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/selimbz/eventra/internal/prompts"
)

// extractionSchema pins the types of the extractor's output. Every field is
// optional (a pass with little data is well-formed), but a present field
// with the wrong type is malformed output.
const extractionSchema = `{
	"type": "object",
	"properties": {
		"event_details": {
			"type": "object",
			"properties": {
				"event_type":     {"type": ["string", "null"]},
				"title":          {"type": ["string", "null"]},
				"description":    {"type": ["string", "null"]},
				"attendee_count": {"type": ["integer", "null"]},
				"scale":          {"type": ["string", "null"]},
				"timeline_start": {"type": ["string", "null"]},
				"timeline_end":   {"type": ["string", "null"]}
			},
			"additionalProperties": false
		},
		"requirements": {
			"type": "object",
			"properties": {
				"stakeholders":     {"type": "array", "items": {"type": "string"}},
				"resources":        {"type": "array", "items": {"type": "string"}},
				"success_criteria": {"type": "array", "items": {"type": "string"}},
				"risks":            {"type": "array", "items": {"type": "string"}},
				"budget":           {"type": "object", "additionalProperties": {"type": "string"}},
				"location":         {"type": "object", "additionalProperties": {"type": "string"}}
			},
			"additionalProperties": false
		},
		"information_collected": {
			"type": "object",
			"additionalProperties": {"type": "boolean"}
		}
	},
	"additionalProperties": false
}`

// extractionUpdate is the parsed shape of one extraction pass.
type extractionUpdate struct {
	EventDetails         EventDetails    `json:"event_details"`
	Requirements         Requirements    `json:"requirements"`
	InformationCollected map[string]bool `json:"information_collected"`
}

func (c *Coordinator) gatherRequirements(ctx context.Context, s *ConversationState) error {
	system, err := c.buildPrompt(prompts.IDExtraction, nil)
	if err != nil {
		c.appendDiagnostic(s, fmt.Sprintf("extraction prompt unavailable: %v", err))
		return err
	}

	out, err := c.gen.Generate(ctx, system, s.ModelHistory())
	if err != nil {
		genErr := &GenerationError{Node: nodeGather, Err: err}
		c.appendDiagnostic(s, fmt.Sprintf("requirement extraction call failed: %v", err))
		return genErr
	}

	update, err := parseExtraction(out)
	if err != nil {
		// Leave the state untouched; the response node still runs.
		c.appendDiagnostic(s, fmt.Sprintf("requirement extraction output was not usable: %v", err))
		return err
	}

	applyExtraction(s, update)
	c.setPhase(ctx, s, PhaseInformationCollection, nodeGather)

	steps := make([]string, 0, len(AllCategories))
	for _, cat := range s.MissingCategories() {
		steps = append(steps, "collect_"+string(cat))
	}
	s.NextSteps = steps
	return nil
}

// parseExtraction pulls the JSON object out of model output and validates it.
func parseExtraction(content string) (*extractionUpdate, error) {
	doc, err := extractJSONObject(content)
	if err != nil {
		return nil, NewParseError(nodeGather, err.Error(), content)
	}
	if err := validateAgainstSchema(extractionSchema, doc); err != nil {
		return nil, NewParseError(nodeGather, err.Error(), content)
	}

	var update extractionUpdate
	if err := json.Unmarshal([]byte(doc), &update); err != nil {
		return nil, NewParseError(nodeGather, err.Error(), content)
	}
	return &update, nil
}

// applyExtraction merges an extraction pass into the state.
//
// Field values accumulate monotonically: a non-null value from this pass
// wins, a null never blanks an earlier value. Completeness flags are the
// opposite: they are verdicts, re-assessed every pass, so a returned false
// overwrites an earlier true.
func applyExtraction(s *ConversationState, u *extractionUpdate) {
	mergeDetails(&s.EventDetails, &u.EventDetails)
	mergeRequirements(&s.Requirements, &u.Requirements)

	for name, verdict := range u.InformationCollected {
		if !ValidCategory(name) {
			continue // unknown category names are dropped, not stored
		}
		s.InformationCollected[Category(name)] = verdict
	}
}

func mergeDetails(dst, src *EventDetails) {
	if src.EventType != nil {
		dst.EventType = src.EventType
	}
	if src.Title != nil {
		dst.Title = src.Title
	}
	if src.Description != nil {
		dst.Description = src.Description
	}
	if src.AttendeeCount != nil {
		dst.AttendeeCount = src.AttendeeCount
	}
	if src.Scale != nil {
		dst.Scale = src.Scale
	}
	if src.TimelineStart != nil {
		dst.TimelineStart = src.TimelineStart
	}
	if src.TimelineEnd != nil {
		dst.TimelineEnd = src.TimelineEnd
	}
}

func mergeRequirements(dst, src *Requirements) {
	if len(src.Stakeholders) > 0 {
		dst.Stakeholders = src.Stakeholders
	}
	if len(src.Resources) > 0 {
		dst.Resources = src.Resources
	}
	if len(src.SuccessCriteria) > 0 {
		dst.SuccessCriteria = src.SuccessCriteria
	}
	if len(src.Risks) > 0 {
		dst.Risks = src.Risks
	}
	if len(src.Budget) > 0 {
		dst.Budget = src.Budget
	}
	if len(src.Location) > 0 {
		dst.Location = src.Location
	}
}
