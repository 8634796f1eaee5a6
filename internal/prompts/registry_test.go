package prompts

import (
	"strings"
	"testing"
)

func TestRegistryVersionSelection(t *testing.T) {
	r := NewRegistry()
	r.Register(&Prompt{ID: "p", Version: "1.0.0", Content: "old"})
	r.Register(&Prompt{ID: "p", Version: "1.1.0", Content: "new"})
	r.Register(&Prompt{ID: "p", Version: "2.0.0", Content: "retired", Deprecated: true})

	got, err := r.GetLatest("p")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if got.Content != "new" {
		t.Errorf("GetLatest content = %q, want the newest non-deprecated version", got.Content)
	}

	pinned, err := r.Get("p", "1.0.0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if pinned.Content != "old" {
		t.Errorf("Get pinned content = %q, want %q", pinned.Content, "old")
	}

	if _, err := r.GetLatest("absent"); err == nil {
		t.Error("GetLatest on unknown id should fail")
	}
}

func TestRegistryOverrides(t *testing.T) {
	r := NewRegistry()
	r.Register(&Prompt{ID: "p", Version: PromptV1, Content: "builtin"})

	r.SetOverride("p", "from disk")
	got, err := r.GetLatest("p")
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if got.Content != "from disk" {
		t.Errorf("override not applied: %q", got.Content)
	}

	// The registered prompt itself must not be mutated by the override.
	pinned, _ := r.Get("p", PromptV1)
	if pinned.Content != "builtin" {
		t.Errorf("override leaked into the registered prompt: %q", pinned.Content)
	}

	r.ClearOverride("p")
	got, _ = r.GetLatest("p")
	if got.Content != "builtin" {
		t.Errorf("clear did not restore builtin content: %q", got.Content)
	}
}

func TestBuilderVariables(t *testing.T) {
	r := NewRegistry()
	r.Register(&Prompt{ID: "p", Version: PromptV1, Content: "Plan for {{state}} with at most {{max}} items."})

	b, err := NewBuilder(r, "p")
	if err != nil {
		t.Fatalf("NewBuilder: %v", err)
	}
	b.SetVariable("state", "phase one").SetVariable("max", "5")
	b.AddFragment("Stay concise.")

	out := b.Build()
	if !strings.Contains(out, "Plan for phase one with at most 5 items.") {
		t.Errorf("variables not substituted: %q", out)
	}
	if !strings.Contains(out, "Stay concise.") {
		t.Errorf("fragment missing: %q", out)
	}
}

func TestDefaultRegistryHasNodePrompts(t *testing.T) {
	r := DefaultRegistry()
	for _, id := range []string{IDExtraction, IDProposal, IDDelegation, IDStatus, IDResponse} {
		p, err := r.GetLatest(id)
		if err != nil {
			t.Errorf("missing built-in prompt %s: %v", id, err)
			continue
		}
		if strings.TrimSpace(p.Content) == "" {
			t.Errorf("built-in prompt %s has empty content", id)
		}
	}
}
