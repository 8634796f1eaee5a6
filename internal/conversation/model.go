// Package conversation persists coordinator dialogues per tenant and keeps
// a full-text index of their messages.
package conversation

import (
	"strings"
	"time"

	"github.com/selimbz/eventra/internal/coordinator"
)

// Record wraps one conversation's state with its storage identity.
type Record struct {
	ID        string                         `json:"id"`
	TenantID  string                         `json:"tenant_id"`
	Title     string                         `json:"title"`
	CreatedAt time.Time                      `json:"created_at"`
	UpdatedAt time.Time                      `json:"updated_at"`
	State     *coordinator.ConversationState `json:"state"`
}

// Meta is a lightweight representation for listing conversations.
type Meta struct {
	ID        string            `json:"id"`
	Title     string            `json:"title"`
	Phase     coordinator.Phase `json:"phase"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

// DeriveTitle picks a display title: the extracted event title when we have
// one, otherwise the first user message, truncated.
func DeriveTitle(state *coordinator.ConversationState) string {
	if state == nil {
		return "New conversation"
	}
	if t := state.EventDetails.Title; t != nil && *t != "" {
		return *t
	}
	for _, m := range state.Messages {
		if m.Role == coordinator.RoleUser && !m.Ephemeral {
			title := strings.TrimSpace(m.Content)
			if len(title) > 60 {
				title = title[:60] + "..."
			}
			if title != "" {
				return title
			}
		}
	}
	return "New conversation"
}
