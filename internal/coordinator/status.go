// provide_status node. Purely additive: one assistant message on success,
// nothing at all on failure.

package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/selimbz/eventra/internal/prompts"
)

func (c *Coordinator) provideStatus(ctx context.Context, s *ConversationState) error {
	system, err := c.buildPrompt(prompts.IDStatus, map[string]string{
		"state": stateSummary(s),
	})
	if err != nil {
		return err
	}

	summary, err := c.gen.Generate(ctx, system, s.ModelHistory())
	if err != nil {
		// Skip silently; the response node will still answer the user.
		return &GenerationError{Node: nodeStatus, Err: err}
	}
	summary = strings.TrimSpace(summary)
	if summary == "" {
		return &GenerationError{Node: nodeStatus, Err: fmt.Errorf("empty status summary")}
	}

	s.Append(ChatMessage{Role: RoleAssistant, Content: summary})
	c.setPhase(ctx, s, PhaseStatusReporting, nodeStatus)
	return nil
}
