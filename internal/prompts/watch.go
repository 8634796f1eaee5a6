package prompts

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// knownIDs lists the prompt ids the watcher will accept override files for.
var knownIDs = []string{IDExtraction, IDProposal, IDDelegation, IDStatus, IDResponse}

// OverrideWatcher watches a directory of <id>.txt files and keeps the
// registry's overrides in sync. Edits are debounced so a burst of writes
// (editors love partial saves) triggers a single reload.
type OverrideWatcher struct {
	dir          string
	registry     *Registry
	watcher      *fsnotify.Watcher
	debounceTime time.Duration

	mu      sync.Mutex
	pending map[string]bool

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// WatchOverrides loads all override files in dir, then starts watching the
// directory for changes. The directory must exist.
func WatchOverrides(registry *Registry, dir string) (*OverrideWatcher, error) {
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		return nil, fmt.Errorf("overrides path is not a directory: %s", dir)
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	ow := &OverrideWatcher{
		dir:          dir,
		registry:     registry,
		watcher:      watcher,
		debounceTime: 500 * time.Millisecond,
		pending:      make(map[string]bool),
		ctx:          ctx,
		cancel:       cancel,
	}

	// Initial load before watching so the registry is consistent from the start.
	for _, id := range knownIDs {
		ow.reload(id)
	}

	if err := watcher.Add(dir); err != nil {
		cancel()
		watcher.Close()
		return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
	}

	ow.wg.Add(1)
	go ow.loop()

	return ow, nil
}

// Close stops watching. Overrides already applied stay in the registry.
func (ow *OverrideWatcher) Close() error {
	ow.cancel()
	err := ow.watcher.Close()
	ow.wg.Wait()
	return err
}

func (ow *OverrideWatcher) loop() {
	defer ow.wg.Done()

	ticker := time.NewTicker(ow.debounceTime)
	defer ticker.Stop()

	for {
		select {
		case <-ow.ctx.Done():
			return
		case event, ok := <-ow.watcher.Events:
			if !ok {
				return
			}
			id, ok := idForPath(event.Name)
			if !ok {
				continue
			}
			ow.mu.Lock()
			ow.pending[id] = true
			ow.mu.Unlock()
		case err, ok := <-ow.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("prompt override watcher error: %v", err)
		case <-ticker.C:
			ow.flush()
		}
	}
}

func (ow *OverrideWatcher) flush() {
	ow.mu.Lock()
	if len(ow.pending) == 0 {
		ow.mu.Unlock()
		return
	}
	ids := make([]string, 0, len(ow.pending))
	for id := range ow.pending {
		ids = append(ids, id)
	}
	ow.pending = make(map[string]bool)
	ow.mu.Unlock()

	for _, id := range ids {
		ow.reload(id)
	}
}

// reload reads the override file for id; a missing or empty file clears the
// override so deleting the file restores the built-in prompt.
func (ow *OverrideWatcher) reload(id string) {
	path := filepath.Join(ow.dir, id+".txt")
	data, err := os.ReadFile(path)
	if err != nil || len(strings.TrimSpace(string(data))) == 0 {
		ow.registry.ClearOverride(id)
		return
	}
	ow.registry.SetOverride(id, string(data))
	log.Printf("prompt override loaded: %s", id)
}

func idForPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".txt") {
		return "", false
	}
	id := strings.TrimSuffix(base, ".txt")
	for _, known := range knownIDs {
		if id == known {
			return id, true
		}
	}
	return "", false
}
