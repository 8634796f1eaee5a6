package conversation

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/selimbz/eventra/internal/coordinator"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(context.Background(), filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreCreateLoadRoundtrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx, "acme")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if rec.ID == "" {
		t.Fatal("created record has no id")
	}
	if rec.State.CurrentPhase != coordinator.PhaseInitialAssessment {
		t.Errorf("fresh state phase = %s", rec.State.CurrentPhase)
	}

	rec.State.Append(coordinator.ChatMessage{Role: coordinator.RoleUser, Content: "plan a gala"})
	rec.State.CurrentPhase = coordinator.PhaseInformationCollection
	if err := store.Save(ctx, rec); err != nil {
		t.Fatalf("Save: %v", err)
	}

	got, err := store.Load(ctx, "acme", rec.ID)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got.Title != "plan a gala" {
		t.Errorf("title = %q, want the first user message", got.Title)
	}
	if got.State.CurrentPhase != coordinator.PhaseInformationCollection {
		t.Errorf("phase = %s after reload", got.State.CurrentPhase)
	}
	if len(got.State.Messages) != 1 {
		t.Errorf("got %d messages after reload, want 1", len(got.State.Messages))
	}
	if len(got.State.InformationCollected) != 8 {
		t.Errorf("completeness flags lost in roundtrip: %d", len(got.State.InformationCollected))
	}
}

func TestStoreTenantIsolation(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	rec, err := store.Create(ctx, "acme")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := store.Load(ctx, "other", rec.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("cross-tenant load err = %v, want ErrNotFound", err)
	}

	metas, err := store.List(ctx, "other")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 0 {
		t.Errorf("cross-tenant list returned %d rows", len(metas))
	}
}

func TestStoreListAndDelete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	a, _ := store.Create(ctx, "acme")
	b, _ := store.Create(ctx, "acme")

	metas, err := store.List(ctx, "acme")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(metas) != 2 {
		t.Fatalf("got %d conversations, want 2", len(metas))
	}

	if err := store.Delete(ctx, "acme", a.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	// Deleting an id twice is not an error.
	if err := store.Delete(ctx, "acme", a.ID); err != nil {
		t.Fatalf("second Delete: %v", err)
	}

	metas, _ = store.List(ctx, "acme")
	if len(metas) != 1 || metas[0].ID != b.ID {
		t.Errorf("after delete, list = %+v, want only %s", metas, b.ID)
	}
}

func TestDeriveTitle(t *testing.T) {
	tests := []struct {
		name  string
		state *coordinator.ConversationState
		want  string
	}{
		{"nil state", nil, "New conversation"},
		{"empty state", coordinator.NewConversationState(), "New conversation"},
		{
			name: "event title wins",
			state: func() *coordinator.ConversationState {
				s := coordinator.NewConversationState()
				title := "Annual Summit"
				s.EventDetails.Title = &title
				s.Append(coordinator.ChatMessage{Role: coordinator.RoleUser, Content: "plan something"})
				return s
			}(),
			want: "Annual Summit",
		},
		{
			name: "ephemeral user messages skipped",
			state: func() *coordinator.ConversationState {
				s := coordinator.NewConversationState()
				s.Append(coordinator.ChatMessage{Role: coordinator.RoleUser, Content: "internal", Ephemeral: true})
				s.Append(coordinator.ChatMessage{Role: coordinator.RoleUser, Content: "plan a picnic"})
				return s
			}(),
			want: "plan a picnic",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DeriveTitle(tt.state); got != tt.want {
				t.Errorf("DeriveTitle() = %q, want %q", got, tt.want)
			}
		})
	}
}
