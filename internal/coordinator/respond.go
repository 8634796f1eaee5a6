// generate_response: the terminal node, run on every turn. It is the safety
// net that guarantees each turn ends with exactly one visible reply.

package coordinator

import (
	"context"
	"strings"

	"github.com/selimbz/eventra/internal/prompts"
)

const fallbackReply = "I want to make sure I get this right. Could you rephrase that, " +
	"or tell me a bit more about what you have in mind for the event?"

// generateResponse appends the turn's user-facing reply. If an earlier node
// in this turn already produced a visible assistant message (a proposal, a
// delegation summary, a status report), this node stays silent so the user
// sees exactly one reply per turn.
func (c *Coordinator) generateResponse(ctx context.Context, s *ConversationState, visibleBefore int) {
	if s.VisibleAssistantCount() > visibleBefore {
		return
	}

	system, err := c.buildPrompt(prompts.IDResponse, map[string]string{
		"state": stateSummary(s),
	})
	if err != nil {
		s.Append(ChatMessage{Role: RoleAssistant, Content: fallbackReply})
		return
	}

	reply, err := c.gen.Generate(ctx, system, s.ModelHistory())
	if err != nil || strings.TrimSpace(reply) == "" {
		if err != nil {
			c.appendDiagnostic(s, "response generation failed: "+err.Error())
			c.hooks.OnRecoveredError(ctx, s, nodeRespond, &GenerationError{Node: nodeRespond, Err: err})
		}
		// The turn must still yield a reply.
		s.Append(ChatMessage{Role: RoleAssistant, Content: fallbackReply})
		return
	}

	s.Append(ChatMessage{Role: RoleAssistant, Content: strings.TrimSpace(reply)})
}
