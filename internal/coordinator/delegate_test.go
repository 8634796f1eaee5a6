package coordinator

import (
	"context"
	"fmt"
	"strings"
	"testing"
)

func delegationReply(assignments ...[2]string) string {
	var b strings.Builder
	b.WriteString("```json\n{\"assignments\": [")
	for i, a := range assignments {
		if i > 0 {
			b.WriteString(", ")
		}
		fmt.Fprintf(&b, `{"agent_type": %q, "task": %q}`, a[0], a[1])
	}
	b.WriteString("]}\n```")
	return b.String()
}

func TestDelegateTasksDropsUnknownAgents(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, _ string, _ []ChatMessage) (string, error) {
		return delegationReply(
			[2]string{"resource_planning", "Book the venue"},
			[2]string{"catering", "Order lunch"}, // not on the roster
			[2]string{"financial", "Draft the budget"},
		), nil
	})
	c := New(gen, Options{})

	s := stateWithMessages(ChatMessage{Role: RoleUser, Content: "go"})
	if err := c.delegateTasks(context.Background(), s); err != nil {
		t.Fatalf("delegateTasks: %v", err)
	}

	if len(s.AgentAssignments) != 2 {
		t.Fatalf("got %d assignments, want 2 (unknown agent dropped)", len(s.AgentAssignments))
	}
	for _, a := range s.AgentAssignments {
		if !ValidAgentType(string(a.AgentType)) {
			t.Errorf("assignment stored for non-roster agent %q", a.AgentType)
		}
		if a.Status != TaskPending {
			t.Errorf("new assignment status = %s, want %s", a.Status, TaskPending)
		}
		if a.ID == "" {
			t.Errorf("assignment missing an id")
		}
	}
	if s.CurrentPhase != PhaseImplementation {
		t.Errorf("phase = %s, want %s", s.CurrentPhase, PhaseImplementation)
	}
}

func TestDelegateTasksSkipsDuplicates(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, _ string, _ []ChatMessage) (string, error) {
		return delegationReply(
			[2]string{"financial", "Draft the budget"},
			[2]string{"financial", "Draft the budget"}, // dupe within the batch
			[2]string{"analytics", "Define KPIs"},
		), nil
	})
	c := New(gen, Options{})

	s := stateWithMessages(ChatMessage{Role: RoleUser, Content: "go"})
	s.AgentAssignments = []AgentAssignment{
		{ID: "a1", AgentType: AgentAnalytics, Task: "Define KPIs", Status: TaskInProgress},
	}

	if err := c.delegateTasks(context.Background(), s); err != nil {
		t.Fatalf("delegateTasks: %v", err)
	}

	if len(s.AgentAssignments) != 2 {
		t.Fatalf("got %d assignments, want 2 (existing + one new)", len(s.AgentAssignments))
	}
	if s.AgentAssignments[0].ID != "a1" {
		t.Errorf("existing assignment was disturbed")
	}
	if s.AgentAssignments[1].AgentType != AgentFinancial {
		t.Errorf("new assignment = %+v, want the budget task", s.AgentAssignments[1])
	}
}

func TestDelegateTasksCapsBatchSize(t *testing.T) {
	var many [][2]string
	for i := 0; i < MaxNewAssignmentsPerTurn+3; i++ {
		many = append(many, [2]string{"project_management", fmt.Sprintf("Task %d", i)})
	}
	gen := GeneratorFunc(func(_ context.Context, _ string, _ []ChatMessage) (string, error) {
		return delegationReply(many...), nil
	})
	c := New(gen, Options{})

	s := stateWithMessages(ChatMessage{Role: RoleUser, Content: "go"})
	if err := c.delegateTasks(context.Background(), s); err != nil {
		t.Fatalf("delegateTasks: %v", err)
	}
	if len(s.AgentAssignments) != MaxNewAssignmentsPerTurn {
		t.Errorf("got %d assignments, want cap of %d", len(s.AgentAssignments), MaxNewAssignmentsPerTurn)
	}
}

func TestDelegateTasksAllOrNothing(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, _ string, _ []ChatMessage) (string, error) {
		return `{"assignments": [{"agent_type": "financial"}]}`, nil // missing required task
	})
	c := New(gen, Options{})

	s := stateWithMessages(ChatMessage{Role: RoleUser, Content: "go"})
	err := c.delegateTasks(context.Background(), s)
	if err == nil {
		t.Fatal("expected a parse error")
	}
	if !IsParseError(err) {
		t.Errorf("expected parse error, got %T", err)
	}
	if len(s.AgentAssignments) != 0 {
		t.Errorf("malformed output must not append any assignments, got %d", len(s.AgentAssignments))
	}
	if s.CurrentPhase == PhaseImplementation {
		t.Errorf("failed delegation must not advance the phase")
	}
}

func TestDelegateTasksEmptyBatchStillReplies(t *testing.T) {
	gen := GeneratorFunc(func(_ context.Context, _ string, _ []ChatMessage) (string, error) {
		return `{"assignments": []}`, nil
	})
	c := New(gen, Options{})

	s := stateWithMessages(ChatMessage{Role: RoleUser, Content: "go"})
	if err := c.delegateTasks(context.Background(), s); err != nil {
		t.Fatalf("delegateTasks: %v", err)
	}
	if s.VisibleAssistantCount() != 1 {
		t.Errorf("empty batch should still produce a summary message")
	}
}
