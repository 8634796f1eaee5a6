// Package coordinator implements the event-planning conversation graph:
// a router picks one action node per user turn, and a terminal response
// node guarantees every turn ends with a visible reply.

package coordinator

import (
	"context"
	"fmt"
)

// MessageRole represents the role of a chat message.
type MessageRole string

const (
	RoleSystem    MessageRole = "system"
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
)

// ChatMessage is the provider-agnostic message we pass around.
// Ephemeral messages are internal diagnostics: they stay in the state for
// debugging but are never shown to the user and never sent to the model.
type ChatMessage struct {
	Role      MessageRole `json:"role"`
	Content   string      `json:"content"`
	Ephemeral bool        `json:"ephemeral,omitempty"`
}

// Validate checks if the ChatMessage is valid.
func (m ChatMessage) Validate() error {
	switch m.Role {
	case RoleSystem, RoleUser, RoleAssistant:
		return nil
	default:
		return fmt.Errorf("invalid message role: %s", m.Role)
	}
}

// Generator abstracts the text-generation backend (OpenAI, Anthropic, etc.).
// One call, one result: the core never retries; callers layer their own
// timeout/retry policy on top if they want one.
type Generator interface {
	Generate(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error)
}

// GeneratorFunc adapts a plain function to the Generator interface.
type GeneratorFunc func(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error)

func (f GeneratorFunc) Generate(ctx context.Context, systemPrompt string, history []ChatMessage) (string, error) {
	return f(ctx, systemPrompt, history)
}
