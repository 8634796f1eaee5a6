package coordinator

import (
	"context"
	"log"
)

// LoggerHook logs graph execution with the standard library logger.
type LoggerHook struct{ L *log.Logger }

func (h LoggerHook) OnTurnStart(_ context.Context, s *ConversationState) {
	h.L.Printf("turn start: phase=%s msgs=%d", s.CurrentPhase, len(s.Messages))
}

func (h LoggerHook) OnRoute(_ context.Context, s *ConversationState, rule string, action Action) {
	h.L.Printf("route: rule=%s action=%s phase=%s", rule, action, s.CurrentPhase)
}

func (h LoggerHook) OnNodeStart(_ context.Context, _ *ConversationState, node string) {
	h.L.Printf("node → %s", node)
}

func (h LoggerHook) OnPhaseChange(_ context.Context, _ *ConversationState, from, to Phase, node string) {
	h.L.Printf("phase %s → %s (node=%s)", from, to, node)
}

func (h LoggerHook) OnRecoveredError(_ context.Context, _ *ConversationState, node string, err error) {
	h.L.Printf("node %s recovered: %v", node, err)
}

func (h LoggerHook) OnTurnEnd(_ context.Context, s *ConversationState) {
	h.L.Printf("turn end: phase=%s msgs=%d assignments=%d", s.CurrentPhase, len(s.Messages), len(s.AgentAssignments))
}
