package coordinator

import (
	"time"
)

// EventDetails holds the core facts about the event being planned.
// All fields start nil; extraction passes fill them in field-by-field and a
// nil value from a later pass never blanks a previously-filled field.
type EventDetails struct {
	EventType     *string `json:"event_type,omitempty"`
	Title         *string `json:"title,omitempty"`
	Description   *string `json:"description,omitempty"`
	AttendeeCount *int    `json:"attendee_count,omitempty"`
	Scale         *string `json:"scale,omitempty"`
	TimelineStart *string `json:"timeline_start,omitempty"`
	TimelineEnd   *string `json:"timeline_end,omitempty"`
}

// Requirements groups the categorized planning inputs.
type Requirements struct {
	Stakeholders    []string          `json:"stakeholders,omitempty"`
	Resources       []string          `json:"resources,omitempty"`
	SuccessCriteria []string          `json:"success_criteria,omitempty"`
	Risks           []string          `json:"risks,omitempty"`
	Budget          map[string]string `json:"budget,omitempty"`
	Location        map[string]string `json:"location,omitempty"`
}

// ProposalStatus tracks where a proposal sits in its approval cycle.
type ProposalStatus string

const (
	ProposalPendingApproval ProposalStatus = "pending_approval"
	ProposalApproved        ProposalStatus = "approved"
	ProposalRevised         ProposalStatus = "revised"
)

// Proposal is the generated planning document awaiting approval.
type Proposal struct {
	Content     string         `json:"content"`
	GeneratedAt time.Time      `json:"generated_at"`
	Status      ProposalStatus `json:"status"`
}

// TaskStatus tracks a delegated task's lifecycle.
type TaskStatus string

const (
	TaskPending    TaskStatus = "pending"
	TaskInProgress TaskStatus = "in_progress"
	TaskCompleted  TaskStatus = "completed"
	TaskCancelled  TaskStatus = "cancelled"
)

// AgentAssignment records one delegated task. The assignments list is
// append-only; entries are never removed by the core.
type AgentAssignment struct {
	ID         string     `json:"id"`
	AgentType  AgentType  `json:"agent_type"`
	Task       string     `json:"task"`
	Status     TaskStatus `json:"status"`
	AssignedAt time.Time  `json:"assigned_at"`
}

// ConversationState is the persistent record of one planning dialogue.
// It is owned by the conversation that created it and mutated only by the
// graph's nodes; persistence between turns belongs to an external store.
type ConversationState struct {
	Messages             []ChatMessage     `json:"messages"`
	EventDetails         EventDetails      `json:"event_details"`
	Requirements         Requirements      `json:"requirements"`
	InformationCollected map[Category]bool `json:"information_collected"`
	CurrentPhase         Phase             `json:"current_phase"`
	NextSteps            []string          `json:"next_steps,omitempty"`
	Proposal             *Proposal         `json:"proposal,omitempty"`
	AgentAssignments     []AgentAssignment `json:"agent_assignments,omitempty"`
}

// NewConversationState returns the zero-value state for a fresh dialogue:
// no messages, every field null, every completeness flag false.
func NewConversationState() *ConversationState {
	collected := make(map[Category]bool, len(AllCategories))
	for _, c := range AllCategories {
		collected[c] = false
	}
	return &ConversationState{
		Messages:             []ChatMessage{},
		InformationCollected: collected,
		CurrentPhase:         PhaseInitialAssessment,
	}
}

// Append adds a message to the conversation.
func (s *ConversationState) Append(msg ChatMessage) { s.Messages = append(s.Messages, msg) }

// LatestUserMessage returns the content of the most recent non-ephemeral
// user message, or "" if there is none.
func (s *ConversationState) LatestUserMessage() string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == RoleUser && !m.Ephemeral {
			return m.Content
		}
	}
	return ""
}

// ModelHistory returns the messages that may be sent to the model: ephemeral
// diagnostics are excluded so internal notices never leak into prompts.
func (s *ConversationState) ModelHistory() []ChatMessage {
	out := make([]ChatMessage, 0, len(s.Messages))
	for _, m := range s.Messages {
		if m.Ephemeral {
			continue
		}
		out = append(out, m)
	}
	return out
}

// VisibleAssistantCount counts the assistant messages a user would see.
func (s *ConversationState) VisibleAssistantCount() int {
	n := 0
	for _, m := range s.Messages {
		if m.Role == RoleAssistant && !m.Ephemeral {
			n++
		}
	}
	return n
}

// AllCollected reports whether every completeness flag is true.
func (s *ConversationState) AllCollected() bool {
	if len(s.InformationCollected) == 0 {
		return false
	}
	for _, c := range AllCategories {
		if !s.InformationCollected[c] {
			return false
		}
	}
	return true
}

// MissingCategories returns the categories still flagged incomplete, in
// roster order.
func (s *ConversationState) MissingCategories() []Category {
	var missing []Category
	for _, c := range AllCategories {
		if !s.InformationCollected[c] {
			missing = append(missing, c)
		}
	}
	return missing
}

// HasMinimumViableDetails checks the subset of fields a proposal cannot be
// written without: event type, title, and at least one timeline endpoint.
// Completeness flags alone are not trusted; an extractor can mark a category
// done without usable data behind it.
func (s *ConversationState) HasMinimumViableDetails() bool {
	d := s.EventDetails
	if d.EventType == nil || *d.EventType == "" {
		return false
	}
	if d.Title == nil || *d.Title == "" {
		return false
	}
	hasStart := d.TimelineStart != nil && *d.TimelineStart != ""
	hasEnd := d.TimelineEnd != nil && *d.TimelineEnd != ""
	return hasStart || hasEnd
}
