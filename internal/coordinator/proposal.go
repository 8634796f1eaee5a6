// generate_proposal node. The proposal write is all-or-nothing: a failed or
// empty generation leaves any prior proposal exactly as it was.

package coordinator

import (
	"context"
	"fmt"
	"strings"

	"github.com/selimbz/eventra/internal/prompts"
)

const approvalRequest = "Please review the proposal above. Reply with \"approve\" to move " +
	"forward with delegation, or tell me what you would like changed."

func (c *Coordinator) generateProposal(ctx context.Context, s *ConversationState) error {
	system, err := c.buildPrompt(prompts.IDProposal, map[string]string{
		"state": stateSummary(s),
	})
	if err != nil {
		c.appendDiagnostic(s, fmt.Sprintf("proposal prompt unavailable: %v", err))
		return err
	}

	content, err := c.gen.Generate(ctx, system, s.ModelHistory())
	if err != nil {
		genErr := &GenerationError{Node: nodeProposal, Err: err}
		c.appendDiagnostic(s, fmt.Sprintf("proposal generation call failed: %v", err))
		return genErr
	}
	content = strings.TrimSpace(content)
	if content == "" {
		genErr := &GenerationError{Node: nodeProposal, Err: fmt.Errorf("empty proposal content")}
		c.appendDiagnostic(s, "proposal generation returned empty content; keeping prior proposal")
		return genErr
	}

	// One proposal object per approval cycle. Regenerating (a revision
	// request during review) overwrites content and timestamp but keeps the
	// status; approval is flipped elsewhere, explicitly.
	status := ProposalPendingApproval
	if s.Proposal != nil {
		status = s.Proposal.Status
	}
	s.Proposal = &Proposal{
		Content:     content,
		GeneratedAt: c.now(),
		Status:      status,
	}

	s.Append(ChatMessage{
		Role:    RoleAssistant,
		Content: content + "\n\n" + approvalRequest,
	})
	c.setPhase(ctx, s, PhaseProposalReview, nodeProposal)
	s.NextSteps = []string{"await_approval", "request_revision"}
	return nil
}
