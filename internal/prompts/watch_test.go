package prompts

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWatchOverridesInitialLoad(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, IDResponse+".txt"), []byte("custom response prompt"), 0o644); err != nil {
		t.Fatal(err)
	}
	// A stray file that maps to no prompt id must be ignored.
	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignore me"), 0o644); err != nil {
		t.Fatal(err)
	}

	r := NewRegistry()
	registerBuiltins(r)

	ow, err := WatchOverrides(r, dir)
	if err != nil {
		t.Fatalf("WatchOverrides: %v", err)
	}
	defer ow.Close()

	p, err := r.GetLatest(IDResponse)
	if err != nil {
		t.Fatalf("GetLatest: %v", err)
	}
	if p.Content != "custom response prompt" {
		t.Errorf("override file not loaded at startup: %q", p.Content)
	}

	// Ids without an override file keep their built-in content.
	p, _ = r.GetLatest(IDStatus)
	if p.Content == "" || p.Content == "custom response prompt" {
		t.Errorf("unrelated prompt affected by override load")
	}
}

func TestWatchOverridesMissingDir(t *testing.T) {
	r := NewRegistry()
	if _, err := WatchOverrides(r, filepath.Join(t.TempDir(), "absent")); err == nil {
		t.Error("expected an error for a missing directory")
	}
}

func TestReloadClearsOnEmptyFile(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry()
	registerBuiltins(r)

	ow := &OverrideWatcher{dir: dir, registry: r}

	path := filepath.Join(dir, IDProposal+".txt")
	if err := os.WriteFile(path, []byte("override text"), 0o644); err != nil {
		t.Fatal(err)
	}
	ow.reload(IDProposal)
	p, _ := r.GetLatest(IDProposal)
	if p.Content != "override text" {
		t.Fatalf("reload did not apply override: %q", p.Content)
	}

	if err := os.WriteFile(path, []byte("   \n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ow.reload(IDProposal)
	p, _ = r.GetLatest(IDProposal)
	if p.Content == "override text" || p.Content == "   \n" {
		t.Errorf("whitespace-only file should clear the override, got %q", p.Content)
	}
}

func TestIDForPath(t *testing.T) {
	tests := []struct {
		path   string
		wantID string
		wantOK bool
	}{
		{"/tmp/prompts/extraction.txt", "extraction", true},
		{"/tmp/prompts/response.txt", "response", true},
		{"/tmp/prompts/extraction.md", "", false},
		{"/tmp/prompts/unknown.txt", "", false},
		{"extraction.txt", "extraction", true},
	}
	for _, tt := range tests {
		id, ok := idForPath(tt.path)
		if id != tt.wantID || ok != tt.wantOK {
			t.Errorf("idForPath(%q) = (%q, %t), want (%q, %t)", tt.path, id, ok, tt.wantID, tt.wantOK)
		}
	}
}
