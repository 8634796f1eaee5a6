package coordinator

import (
	"strings"
)

// Action names the node the router selected for this turn.
type Action string

const (
	ActionGatherRequirements Action = "gather_requirements"
	ActionGenerateProposal   Action = "generate_proposal"
	ActionDelegateTasks      Action = "delegate_tasks"
	ActionProvideStatus      Action = "provide_status"
	ActionGenerateResponse   Action = "generate_response"
)

// routingRule pairs a pure predicate with the action taken when it fires.
// Rules are evaluated top to bottom; the first match wins.
type routingRule struct {
	name string
	when func(s *ConversationState, latest string) bool
	then Action
}

var approvalTokens = []string{"approve", "accept", "proceed", "go ahead", "looks good", "lgtm"}

var revisionTokens = []string{"revise", "revision", "change", "modify", "rework", "adjust", "instead"}

var gatherTokens = []string{"plan", "organize", "details", "requirement", "need", "want to", "information"}

var delegateTokens = []string{"delegate", "assign", "task", "team", "hand off"}

var statusTokens = []string{"status", "progress", "update", "how is", "where are we", "report"}

var proposalTokens = []string{"proposal", "summary", "summarize", "draft"}

func containsAny(text string, tokens []string) bool {
	lower := strings.ToLower(text)
	for _, tok := range tokens {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}

// routingTable encodes the router contract in priority order. Keeping it as
// data means each predicate can be tested on its own and new intents slot in
// without touching control flow.
var routingTable = []routingRule{
	{
		// A fresh conversation always starts by collecting information,
		// whatever the first message says.
		name: "fresh_conversation",
		when: func(s *ConversationState, _ string) bool { return len(s.Messages) <= 1 },
		then: ActionGatherRequirements,
	},
	{
		name: "ready_for_proposal",
		when: func(s *ConversationState, _ string) bool {
			return s.AllCollected() &&
				s.CurrentPhase == PhaseInformationCollection &&
				s.Proposal == nil &&
				s.HasMinimumViableDetails()
		},
		then: ActionGenerateProposal,
	},
	{
		// Flags all true but the usable-data check failed: keep collecting.
		name: "flags_without_data",
		when: func(s *ConversationState, _ string) bool {
			return s.AllCollected() &&
				s.CurrentPhase == PhaseInformationCollection &&
				s.Proposal == nil
		},
		then: ActionGatherRequirements,
	},
	{
		name: "proposal_approved",
		when: func(s *ConversationState, latest string) bool {
			return s.CurrentPhase == PhaseProposalReview && containsAny(latest, approvalTokens)
		},
		then: ActionDelegateTasks,
	},
	{
		name: "proposal_revision",
		when: func(s *ConversationState, latest string) bool {
			return s.CurrentPhase == PhaseProposalReview && containsAny(latest, revisionTokens)
		},
		then: ActionGenerateProposal,
	},
	{
		name: "keyword_gather",
		when: func(s *ConversationState, latest string) bool {
			return containsAny(latest, gatherTokens) && !s.AllCollected()
		},
		then: ActionGatherRequirements,
	},
	{
		name: "keyword_delegate",
		when: func(s *ConversationState, latest string) bool {
			return containsAny(latest, delegateTokens)
		},
		then: ActionDelegateTasks,
	},
	{
		name: "keyword_status",
		when: func(s *ConversationState, latest string) bool {
			return containsAny(latest, statusTokens)
		},
		then: ActionProvideStatus,
	},
	{
		name: "keyword_proposal",
		when: func(s *ConversationState, latest string) bool {
			if s.CurrentPhase == PhaseProposalReview {
				return false
			}
			return containsAny(latest, proposalTokens) && anyCollected(s)
		},
		then: ActionGenerateProposal,
	},
	{
		name: "default_gather",
		when: func(s *ConversationState, _ string) bool {
			early := s.CurrentPhase == PhaseInitialAssessment || s.CurrentPhase == PhaseInformationCollection
			return early && !s.AllCollected()
		},
		then: ActionGatherRequirements,
	},
}

func anyCollected(s *ConversationState) bool {
	for _, v := range s.InformationCollected {
		if v {
			return true
		}
	}
	return false
}

// Route selects the action node for the current turn. It is a pure function
// of the state: calling it twice on unmutated state yields the same action.
func Route(s *ConversationState) Action {
	latest := s.LatestUserMessage()
	for _, rule := range routingTable {
		if rule.when(s, latest) {
			return rule.then
		}
	}
	return ActionGenerateResponse
}

// RouteName returns the name of the first matching rule, for hook logging.
func RouteName(s *ConversationState) string {
	latest := s.LatestUserMessage()
	for _, rule := range routingTable {
		if rule.when(s, latest) {
			return rule.name
		}
	}
	return "fallthrough_response"
}
