package coordinator

import "context"

// Hooks provides observability into the graph's execution. Implementations
// must be fast and must not mutate state.
type Hooks interface {
	OnTurnStart(ctx context.Context, s *ConversationState)
	OnRoute(ctx context.Context, s *ConversationState, rule string, action Action)
	OnNodeStart(ctx context.Context, s *ConversationState, node string)
	OnPhaseChange(ctx context.Context, s *ConversationState, from, to Phase, node string)
	OnRecoveredError(ctx context.Context, s *ConversationState, node string, err error)
	OnTurnEnd(ctx context.Context, s *ConversationState)
}

// NoopHooks is a Hooks implementation that does nothing.
type NoopHooks struct{}

func (NoopHooks) OnTurnStart(context.Context, *ConversationState)                          {}
func (NoopHooks) OnRoute(context.Context, *ConversationState, string, Action)              {}
func (NoopHooks) OnNodeStart(context.Context, *ConversationState, string)                  {}
func (NoopHooks) OnPhaseChange(context.Context, *ConversationState, Phase, Phase, string)  {}
func (NoopHooks) OnRecoveredError(context.Context, *ConversationState, string, error)      {}
func (NoopHooks) OnTurnEnd(context.Context, *ConversationState)                            {}
