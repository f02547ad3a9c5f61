// Package assistant turns free-text commands into organizer records.
// It prefers a generative model and degrades to deterministic rules when
// the model is unreachable.
package assistant

import (
	"encoding/json"
	"strings"

	"github.com/normanking/nextup/internal/gtd"
)

// ActionType tags a structured action derived from user text.
type ActionType string

const (
	ActionTask    ActionType = "task"
	ActionProject ActionType = "project"
	ActionGoal    ActionType = "goal"
)

// Action is one structured instruction extracted from a user message.
type Action struct {
	Type ActionType `json:"type"`
	Data ActionData `json:"data"`
}

// ActionData carries the payload for any action type; which fields are
// meaningful depends on the type tag.
type ActionData struct {
	Text      string        `json:"text,omitempty"`      // tasks, goals
	Title     string        `json:"title,omitempty"`     // projects
	Category  gtd.Category  `json:"category,omitempty"`  // tasks
	Timeframe gtd.Timeframe `json:"timeframe,omitempty"` // goals
	Status    gtd.Status    `json:"status,omitempty"`    // projects
	Notes     string        `json:"notes,omitempty"`     // projects
	ProjectID string        `json:"projectId,omitempty"` // tasks
	AreaID    string        `json:"areaId,omitempty"`    // projects
}

// Interpretation is the outcome of interpreting one user message: a
// human-readable narrative plus zero or more actions, in order.
type Interpretation struct {
	Narrative string
	Actions   []Action
}

// ResultType tags a persisted action outcome.
const (
	ResultTaskCreated    = "task_created"
	ResultProjectCreated = "project_created"
	ResultGoalCreated    = "goal_created"
)

// Result reports one successfully applied action with the persisted record.
type Result struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

// modelEnvelope is the JSON shape the model is instructed to emit. Every
// field is untrusted.
type modelEnvelope struct {
	Response string      `json:"response"`
	Actions  []rawAction `json:"actions"`
}

type rawAction struct {
	Type string         `json:"type"`
	Data map[string]any `json:"data"`
}

// defaultNarrative is used when the model's reply carries no usable
// acknowledgement.
const defaultNarrative = "I understand your request. Let me help you with that."

// decodeModelResponse parses the model's completion defensively. Absent or
// malformed JSON yields zero actions and a generic narrative rather than an
// error; individual actions with an unknown type tag are dropped. Category
// and timeframe values are normalized to the fixed enumerations since the
// model may emit synonyms.
func decodeModelResponse(content string) *Interpretation {
	var envelope modelEnvelope
	if err := json.Unmarshal([]byte(content), &envelope); err != nil {
		return &Interpretation{Narrative: defaultNarrative}
	}

	narrative := strings.TrimSpace(envelope.Response)
	if narrative == "" {
		narrative = defaultNarrative
	}

	actions := make([]Action, 0, len(envelope.Actions))
	for _, raw := range envelope.Actions {
		switch ActionType(raw.Type) {
		case ActionTask:
			actions = append(actions, Action{
				Type: ActionTask,
				Data: ActionData{
					Text:      stringField(raw.Data, "text"),
					Category:  NormalizeCategory(stringField(raw.Data, "category")),
					ProjectID: stringField(raw.Data, "projectId"),
				},
			})
		case ActionProject:
			status := gtd.Status(stringField(raw.Data, "status"))
			if !gtd.ValidStatus(status) {
				status = gtd.StatusActive
			}
			actions = append(actions, Action{
				Type: ActionProject,
				Data: ActionData{
					Title:  stringField(raw.Data, "title"),
					Status: status,
					Notes:  stringField(raw.Data, "notes"),
					AreaID: stringField(raw.Data, "areaId"),
				},
			})
		case ActionGoal:
			actions = append(actions, Action{
				Type: ActionGoal,
				Data: ActionData{
					Text:      stringField(raw.Data, "text"),
					Timeframe: NormalizeTimeframe(stringField(raw.Data, "timeframe")),
				},
			})
		default:
			// Unknown type tag, including the model's explicit "none".
		}
	}

	return &Interpretation{Narrative: narrative, Actions: actions}
}

// stringField pulls a string out of the untrusted payload; wrong-typed or
// missing fields come back empty.
func stringField(data map[string]any, key string) string {
	if data == nil {
		return ""
	}
	v, ok := data[key].(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(v)
}
