// delegate_tasks node: asks the model for the next tasks and appends them
// as assignments. Assignments either all land or none do; a malformed
// agent_type drops that entry alone.

package coordinator

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/selimbz/eventra/internal/prompts"
)

// MaxNewAssignmentsPerTurn bounds how many tasks one delegation pass may add.
const MaxNewAssignmentsPerTurn = 5

const delegationSchema = `{
	"type": "object",
	"properties": {
		"assignments": {
			"type": "array",
			"items": {
				"type": "object",
				"properties": {
					"agent_type": {"type": "string"},
					"task":       {"type": "string"}
				},
				"required": ["agent_type", "task"],
				"additionalProperties": false
			}
		}
	},
	"required": ["assignments"],
	"additionalProperties": false
}`

type delegationOutput struct {
	Assignments []struct {
		AgentType string `json:"agent_type"`
		Task      string `json:"task"`
	} `json:"assignments"`
}

func (c *Coordinator) delegateTasks(ctx context.Context, s *ConversationState) error {
	system, err := c.buildPrompt(prompts.IDDelegation, map[string]string{
		"max_tasks": strconv.Itoa(MaxNewAssignmentsPerTurn),
		"state":     stateSummary(s),
	})
	if err != nil {
		c.appendDiagnostic(s, fmt.Sprintf("delegation prompt unavailable: %v", err))
		return err
	}

	out, err := c.gen.Generate(ctx, system, s.ModelHistory())
	if err != nil {
		genErr := &GenerationError{Node: nodeDelegate, Err: err}
		c.appendDiagnostic(s, fmt.Sprintf("delegation call failed: %v", err))
		return genErr
	}

	parsed, err := parseDelegation(out)
	if err != nil {
		c.appendDiagnostic(s, fmt.Sprintf("delegation output was not usable: %v", err))
		return err
	}

	// Build the batch first so a late rejection never leaves a partial append.
	var batch []AgentAssignment
	for _, entry := range parsed.Assignments {
		if len(batch) >= MaxNewAssignmentsPerTurn {
			break
		}
		task := strings.TrimSpace(entry.Task)
		if task == "" {
			continue
		}
		if !ValidAgentType(entry.AgentType) {
			continue // outside the roster: dropped, never appended
		}
		agent := AgentType(entry.AgentType)
		if hasAssignment(s, agent, task) || batchHas(batch, agent, task) {
			continue
		}
		batch = append(batch, AgentAssignment{
			ID:         c.newID(),
			AgentType:  agent,
			Task:       task,
			Status:     TaskPending,
			AssignedAt: c.now(),
		})
	}

	s.AgentAssignments = append(s.AgentAssignments, batch...)
	c.setPhase(ctx, s, PhaseImplementation, nodeDelegate)

	s.Append(ChatMessage{Role: RoleAssistant, Content: summarizeAssignments(batch)})
	s.NextSteps = []string{"monitor_progress"}
	return nil
}

func parseDelegation(content string) (*delegationOutput, error) {
	doc, err := extractJSONObject(content)
	if err != nil {
		return nil, NewParseError(nodeDelegate, err.Error(), content)
	}
	if err := validateAgainstSchema(delegationSchema, doc); err != nil {
		return nil, NewParseError(nodeDelegate, err.Error(), content)
	}

	var parsed delegationOutput
	if err := json.Unmarshal([]byte(doc), &parsed); err != nil {
		return nil, NewParseError(nodeDelegate, err.Error(), content)
	}
	return &parsed, nil
}

// hasAssignment checks for a verbatim (agent_type, task) duplicate.
func hasAssignment(s *ConversationState, agent AgentType, task string) bool {
	for _, a := range s.AgentAssignments {
		if a.AgentType == agent && a.Task == task {
			return true
		}
	}
	return false
}

func batchHas(batch []AgentAssignment, agent AgentType, task string) bool {
	for _, a := range batch {
		if a.AgentType == agent && a.Task == task {
			return true
		}
	}
	return false
}

func summarizeAssignments(batch []AgentAssignment) string {
	if len(batch) == 0 {
		return "No new tasks needed delegation right now; the existing assignments cover the plan."
	}
	var b strings.Builder
	b.WriteString("The proposal is approved. I have delegated the following tasks:\n")
	for _, a := range batch {
		fmt.Fprintf(&b, "- %s: %s\n", agentLabel(a.AgentType), a.Task)
	}
	b.WriteString("\nI'll keep you posted on progress. Ask for a status update any time.")
	return b.String()
}

func agentLabel(a AgentType) string {
	return strings.ReplaceAll(string(a), "_", " ")
}
