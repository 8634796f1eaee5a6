package prompts

import (
	"fmt"
	"sync"
)

// Registry manages versioned prompts plus optional content overrides
// (loaded from disk by the override watcher).
type Registry struct {
	mu        sync.RWMutex
	prompts   map[string]map[PromptVersion]*Prompt // ID -> Version -> Prompt
	overrides map[string]string                    // ID -> override content
}

var defaultRegistry *Registry
var defaultRegistryOnce sync.Once

// DefaultRegistry returns the default global prompt registry with the
// coordinator's built-in prompts registered.
func DefaultRegistry() *Registry {
	defaultRegistryOnce.Do(func() {
		defaultRegistry = NewRegistry()
		registerBuiltins(defaultRegistry)
	})
	return defaultRegistry
}

// NewRegistry creates a new empty prompt registry.
func NewRegistry() *Registry {
	return &Registry{
		prompts:   make(map[string]map[PromptVersion]*Prompt),
		overrides: make(map[string]string),
	}
}

// Register registers a prompt in the registry.
func (r *Registry) Register(p *Prompt) {
	if p == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.prompts[p.ID] == nil {
		r.prompts[p.ID] = make(map[PromptVersion]*Prompt)
	}
	r.prompts[p.ID][p.Version] = p
}

// Get retrieves a specific version of a prompt. Overrides do not apply here;
// Get returns the registered content as-is.
func (r *Registry) Get(id string, version PromptVersion) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}
	prompt, ok := versions[version]
	if !ok {
		return nil, fmt.Errorf("prompt %s version %s not found", id, version)
	}
	return prompt, nil
}

// GetLatest retrieves the latest non-deprecated version of a prompt, with
// any file override applied to its content.
func (r *Registry) GetLatest(id string) (*Prompt, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	versions, ok := r.prompts[id]
	if !ok {
		return nil, fmt.Errorf("prompt not found: %s", id)
	}

	var latest *Prompt
	var latestVersion PromptVersion
	for version, prompt := range versions {
		if !prompt.Deprecated {
			if latest == nil || version > latestVersion {
				latest = prompt
				latestVersion = version
			}
		}
	}
	// If all versions are deprecated, fall back to the most recent one.
	if latest == nil {
		for version, prompt := range versions {
			if latest == nil || version > latestVersion {
				latest = prompt
				latestVersion = version
			}
		}
	}
	if latest == nil {
		return nil, fmt.Errorf("prompt %s has no versions", id)
	}

	if override, ok := r.overrides[id]; ok && override != "" {
		clone := *latest
		clone.Content = override
		return &clone, nil
	}
	return latest, nil
}

// SetOverride replaces the content served for id until ClearOverride.
func (r *Registry) SetOverride(id, content string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.overrides[id] = content
}

// ClearOverride removes a content override.
func (r *Registry) ClearOverride(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.overrides, id)
}
