package coordinator

import (
	"testing"
)

func strPtr(s string) *string { return &s }

func stateWithMessages(msgs ...ChatMessage) *ConversationState {
	s := NewConversationState()
	for _, m := range msgs {
		s.Append(m)
	}
	return s
}

func markAllCollected(s *ConversationState) {
	for _, c := range AllCategories {
		s.InformationCollected[c] = true
	}
}

func TestRoute(t *testing.T) {
	tests := []struct {
		name  string
		setup func() *ConversationState
		want  Action
	}{
		{
			name: "fresh conversation forces gathering",
			setup: func() *ConversationState {
				return stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "I want to plan a conference"},
				)
			},
			want: ActionGatherRequirements,
		},
		{
			name: "all collected with viable details generates proposal",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "I want to plan a conference"},
					ChatMessage{Role: RoleAssistant, Content: "Tell me more."},
					ChatMessage{Role: RoleUser, Content: "Here is everything."},
				)
				markAllCollected(s)
				s.CurrentPhase = PhaseInformationCollection
				s.EventDetails.EventType = strPtr("conference")
				s.EventDetails.Title = strPtr("Annual Summit")
				s.EventDetails.TimelineStart = strPtr("2025-09-15")
				return s
			},
			want: ActionGenerateProposal,
		},
		{
			name: "all collected without viable details falls back to gathering",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "hello"},
					ChatMessage{Role: RoleAssistant, Content: "hi"},
					ChatMessage{Role: RoleUser, Content: "here it is"},
				)
				markAllCollected(s)
				s.CurrentPhase = PhaseInformationCollection
				// Flags say complete but no event type or title exists.
				return s
			},
			want: ActionGatherRequirements,
		},
		{
			name: "approval during review routes to delegation",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "plan it"},
					ChatMessage{Role: RoleAssistant, Content: "proposal text"},
					ChatMessage{Role: RoleUser, Content: "Looks great, I approve"},
				)
				s.CurrentPhase = PhaseProposalReview
				s.Proposal = &Proposal{Content: "p", Status: ProposalPendingApproval}
				return s
			},
			want: ActionDelegateTasks,
		},
		{
			name: "revision request during review regenerates the proposal",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "plan it"},
					ChatMessage{Role: RoleAssistant, Content: "proposal text"},
					ChatMessage{Role: RoleUser, Content: "Please revise the budget section"},
				)
				s.CurrentPhase = PhaseProposalReview
				s.Proposal = &Proposal{Content: "p", Status: ProposalPendingApproval}
				return s
			},
			want: ActionGenerateProposal,
		},
		{
			name: "status keywords route to status reporting",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "plan it"},
					ChatMessage{Role: RoleAssistant, Content: "done"},
					ChatMessage{Role: RoleUser, Content: "What's the status?"},
				)
				s.CurrentPhase = PhaseImplementation
				markAllCollected(s)
				return s
			},
			want: ActionProvideStatus,
		},
		{
			name: "delegate keywords route to delegation",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "plan it"},
					ChatMessage{Role: RoleAssistant, Content: "done"},
					ChatMessage{Role: RoleUser, Content: "Please assign the venue work to the team"},
				)
				s.CurrentPhase = PhaseImplementation
				markAllCollected(s)
				return s
			},
			want: ActionDelegateTasks,
		},
		{
			name: "early phase with missing categories defaults to gathering",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "hello there"},
					ChatMessage{Role: RoleAssistant, Content: "hi"},
					ChatMessage{Role: RoleUser, Content: "it is outdoors"},
				)
				s.CurrentPhase = PhaseInformationCollection
				return s
			},
			want: ActionGatherRequirements,
		},
		{
			name: "late phase with nothing matching falls through to response",
			setup: func() *ConversationState {
				s := stateWithMessages(
					ChatMessage{Role: RoleUser, Content: "plan it"},
					ChatMessage{Role: RoleAssistant, Content: "done"},
					ChatMessage{Role: RoleUser, Content: "thanks!"},
				)
				s.CurrentPhase = PhaseImplementation
				markAllCollected(s)
				return s
			},
			want: ActionGenerateResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := tt.setup()
			if got := Route(s); got != tt.want {
				t.Errorf("Route() = %v, want %v (rule %s)", got, tt.want, RouteName(s))
			}
		})
	}
}

func TestRouteIsIdempotent(t *testing.T) {
	s := stateWithMessages(
		ChatMessage{Role: RoleUser, Content: "plan a wedding"},
		ChatMessage{Role: RoleAssistant, Content: "sure"},
		ChatMessage{Role: RoleUser, Content: "give me a status update"},
	)
	s.CurrentPhase = PhaseImplementation
	markAllCollected(s)

	first := Route(s)
	second := Route(s)
	if first != second {
		t.Errorf("Route not idempotent: first=%v second=%v", first, second)
	}
}

func TestRouteIgnoresEphemeralUserContent(t *testing.T) {
	s := stateWithMessages(
		ChatMessage{Role: RoleUser, Content: "plan it"},
		ChatMessage{Role: RoleAssistant, Content: "done"},
		ChatMessage{Role: RoleUser, Content: "thanks!"},
		ChatMessage{Role: RoleUser, Content: "status status status", Ephemeral: true},
	)
	s.CurrentPhase = PhaseImplementation
	markAllCollected(s)

	if got := Route(s); got != ActionGenerateResponse {
		t.Errorf("Route() = %v, want generate_response (ephemeral message must not drive routing)", got)
	}
}
