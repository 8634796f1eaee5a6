package coordinator

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/selimbz/eventra/internal/prompts"
)

// Node names, used for hooks and diagnostics.
const (
	nodeGather   = "gather_requirements"
	nodeProposal = "generate_proposal"
	nodeDelegate = "delegate_tasks"
	nodeStatus   = "provide_status"
	nodeRespond  = "generate_response"
)

// Options configures a Coordinator. Zero values fall back to defaults.
type Options struct {
	Hooks   Hooks
	Prompts *prompts.Registry
	Clock   func() time.Time
	NewID   func() string
}

// Coordinator runs the planning dialogue graph: one pass per user turn,
// router first, then one action node, then the response node.
type Coordinator struct {
	gen     Generator
	hooks   Hooks
	prompts *prompts.Registry
	now     func() time.Time
	newID   func() string
}

// New creates a Coordinator around a text-generation backend.
func New(gen Generator, opts Options) *Coordinator {
	c := &Coordinator{
		gen:     gen,
		hooks:   opts.Hooks,
		prompts: opts.Prompts,
		now:     opts.Clock,
		newID:   opts.NewID,
	}
	if c.hooks == nil {
		c.hooks = NoopHooks{}
	}
	if c.prompts == nil {
		c.prompts = prompts.DefaultRegistry()
	}
	if c.now == nil {
		c.now = time.Now
	}
	if c.newID == nil {
		c.newID = uuid.NewString
	}
	return c
}

// AdvanceTurn appends the user message and runs the graph to completion.
// The state is mutated in place. All node-level failures are recovered into
// ephemeral diagnostics; the only returned error is context cancellation.
func (c *Coordinator) AdvanceTurn(ctx context.Context, s *ConversationState, userMessage string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("turn cancelled: %w", err)
	}

	s.Append(ChatMessage{Role: RoleUser, Content: userMessage})
	c.hooks.OnTurnStart(ctx, s)

	visibleBefore := s.VisibleAssistantCount()

	action := Route(s)
	c.hooks.OnRoute(ctx, s, RouteName(s), action)

	// Approval detected while reviewing: the phase transition and the
	// status flip happen here, as an explicit diff, not inside a node body.
	if action == ActionDelegateTasks && s.CurrentPhase == PhaseProposalReview {
		c.setPhase(ctx, s, PhaseTaskDelegation, nodeDelegate)
		if s.Proposal != nil {
			s.Proposal.Status = ProposalApproved
		}
	}

	var nodeErr error
	switch action {
	case ActionGatherRequirements:
		c.hooks.OnNodeStart(ctx, s, nodeGather)
		nodeErr = c.gatherRequirements(ctx, s)
	case ActionGenerateProposal:
		c.hooks.OnNodeStart(ctx, s, nodeProposal)
		nodeErr = c.generateProposal(ctx, s)
	case ActionDelegateTasks:
		c.hooks.OnNodeStart(ctx, s, nodeDelegate)
		nodeErr = c.delegateTasks(ctx, s)
	case ActionProvideStatus:
		c.hooks.OnNodeStart(ctx, s, nodeStatus)
		nodeErr = c.provideStatus(ctx, s)
	case ActionGenerateResponse:
		// Straight to the terminal node.
	}
	if nodeErr != nil {
		c.hooks.OnRecoveredError(ctx, s, string(action), nodeErr)
	}

	c.hooks.OnNodeStart(ctx, s, nodeRespond)
	c.generateResponse(ctx, s, visibleBefore)

	c.hooks.OnTurnEnd(ctx, s)
	return nil
}

// setPhase records a phase transition as an explicit state diff.
func (c *Coordinator) setPhase(ctx context.Context, s *ConversationState, to Phase, node string) {
	if s.CurrentPhase == to {
		return
	}
	from := s.CurrentPhase
	s.CurrentPhase = to
	c.hooks.OnPhaseChange(ctx, s, from, to, node)
}

// appendDiagnostic records an internal notice the user never sees.
func (c *Coordinator) appendDiagnostic(s *ConversationState, text string) {
	s.Append(ChatMessage{Role: RoleSystem, Content: text, Ephemeral: true})
}

func (c *Coordinator) buildPrompt(id string, vars map[string]string) (string, error) {
	b, err := prompts.NewBuilder(c.prompts, id)
	if err != nil {
		return "", err
	}
	for k, v := range vars {
		b.SetVariable(k, v)
	}
	return b.Build(), nil
}

// stateSummary renders the planning state for prompt embedding.
func stateSummary(s *ConversationState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "CURRENT PLANNING STATE\nPhase: %s\n", s.CurrentPhase)

	d := s.EventDetails
	b.WriteString("\nEvent details:\n")
	writeDetail(&b, "type", d.EventType)
	writeDetail(&b, "title", d.Title)
	writeDetail(&b, "description", d.Description)
	if d.AttendeeCount != nil {
		fmt.Fprintf(&b, "  attendees: %d\n", *d.AttendeeCount)
	}
	writeDetail(&b, "scale", d.Scale)
	writeDetail(&b, "timeline start", d.TimelineStart)
	writeDetail(&b, "timeline end", d.TimelineEnd)

	r := s.Requirements
	if len(r.Stakeholders) > 0 {
		fmt.Fprintf(&b, "\nStakeholders: %s\n", strings.Join(r.Stakeholders, ", "))
	}
	if len(r.Resources) > 0 {
		fmt.Fprintf(&b, "Resources: %s\n", strings.Join(r.Resources, ", "))
	}
	if len(r.SuccessCriteria) > 0 {
		fmt.Fprintf(&b, "Success criteria: %s\n", strings.Join(r.SuccessCriteria, ", "))
	}
	if len(r.Risks) > 0 {
		fmt.Fprintf(&b, "Risks: %s\n", strings.Join(r.Risks, ", "))
	}
	if len(r.Budget) > 0 {
		fmt.Fprintf(&b, "Budget: %s\n", formatMap(r.Budget))
	}
	if len(r.Location) > 0 {
		fmt.Fprintf(&b, "Location: %s\n", formatMap(r.Location))
	}

	b.WriteString("\nInformation collected:\n")
	for _, cat := range AllCategories {
		fmt.Fprintf(&b, "  %s: %t\n", cat, s.InformationCollected[cat])
	}

	if s.Proposal != nil {
		fmt.Fprintf(&b, "\nProposal: generated %s, status %s\n",
			s.Proposal.GeneratedAt.Format(time.RFC3339), s.Proposal.Status)
	}

	if len(s.AgentAssignments) > 0 {
		b.WriteString("\nDelegated tasks:\n")
		for _, a := range s.AgentAssignments {
			fmt.Fprintf(&b, "  [%s] %s (%s)\n", a.AgentType, a.Task, a.Status)
		}
	}

	if len(s.NextSteps) > 0 {
		fmt.Fprintf(&b, "\nNext steps: %s\n", strings.Join(s.NextSteps, ", "))
	}

	return b.String()
}

func writeDetail(b *strings.Builder, label string, v *string) {
	if v != nil && *v != "" {
		fmt.Fprintf(b, "  %s: %s\n", label, *v)
	}
}

func formatMap(m map[string]string) string {
	parts := make([]string, 0, len(m))
	for _, k := range sortedKeys(m) {
		parts = append(parts, fmt.Sprintf("%s=%s", k, m[k]))
	}
	return strings.Join(parts, ", ")
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
