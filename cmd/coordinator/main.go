// Command coordinator is a terminal REPL around the event-planning
// coordinator graph: it wires a provider, the conversation store and the
// prompt registry together and chats turn by turn.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"

	"github.com/selimbz/eventra/internal/config"
	"github.com/selimbz/eventra/internal/conversation"
	"github.com/selimbz/eventra/internal/coordinator"
	"github.com/selimbz/eventra/internal/prompts"
	"github.com/selimbz/eventra/internal/providers"
)

func main() {
	// Load .env if present before anything reads the environment.
	_ = godotenv.Load()

	if err := run(context.Background(), os.Args[1:]); err != nil {
		log.Fatalf("coordinator failed: %v", err)
	}
}

func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("coordinator", flag.ExitOnError)
	tenantFlag := fs.String("tenant", "", "Tenant id (default: config default_tenant or \"default\")")
	convFlag := fs.String("conversation", "", "Conversation id to resume (default: start a new one)")
	dbFlag := fs.String("db", "", "Path to the conversation database (default: config data dir)")
	promptsFlag := fs.String("prompts", "", "Directory of prompt override files")
	listFlag := fs.Bool("list", false, "List the tenant's conversations and exit")
	verboseFlag := fs.Bool("verbose", false, "Log graph execution")

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfgManager, err := config.NewManager()
	if err != nil {
		return fmt.Errorf("failed to initialize config manager: %w", err)
	}
	cfg, err := cfgManager.Load()
	if err != nil {
		log.Printf("failed to load user config: %v (continuing with environment only)", err)
		cfg = &config.Config{}
	}
	cfg.ApplyToEnv()

	tenant := *tenantFlag
	if tenant == "" {
		tenant = cfg.DefaultTenant
	}
	if tenant == "" {
		tenant = "default"
	}

	dbPath := *dbFlag
	if dbPath == "" {
		dataDir := cfg.DataDir
		if dataDir == "" {
			dataDir = cfgManager.DefaultDataDir()
		}
		if err := os.MkdirAll(dataDir, 0755); err != nil {
			return fmt.Errorf("failed to create data directory: %w", err)
		}
		dbPath = filepath.Join(dataDir, "conversations.db")
	}

	store, err := conversation.NewStore(ctx, dbPath)
	if err != nil {
		return err
	}
	defer store.Close()

	if *listFlag {
		return listConversations(ctx, store, tenant)
	}

	search, err := conversation.NewSearchIndex(dbPath)
	if err != nil {
		log.Printf("message search disabled: %v", err)
		search = nil
	} else {
		defer search.Close()
	}

	registry := prompts.DefaultRegistry()
	overridesDir := *promptsFlag
	if overridesDir == "" {
		overridesDir = cfg.PromptsDir
	}
	if overridesDir != "" {
		watcher, err := prompts.WatchOverrides(registry, overridesDir)
		if err != nil {
			log.Printf("prompt overrides disabled: %v", err)
		} else {
			defer watcher.Close()
		}
	}

	gen, modelName, err := providers.NewGeneratorFromEnv()
	if err != nil {
		return err
	}
	log.Printf("model: %s tenant: %s", modelName, tenant)

	var hooks coordinator.Hooks = coordinator.NoopHooks{}
	if *verboseFlag {
		hooks = coordinator.LoggerHook{L: log.Default()}
	}
	coord := coordinator.New(gen, coordinator.Options{Hooks: hooks, Prompts: registry})

	rec, err := openConversation(ctx, store, tenant, *convFlag)
	if err != nil {
		return err
	}
	fmt.Printf("conversation: %s\nType your message, or /state, /search <query>, /quit\n\n", rec.ID)

	return chatLoop(ctx, coord, store, search, rec)
}

func openConversation(ctx context.Context, store *conversation.Store, tenant, id string) (*conversation.Record, error) {
	if id == "" {
		return store.Create(ctx, tenant)
	}
	rec, err := store.Load(ctx, tenant, id)
	if err != nil {
		return nil, fmt.Errorf("failed to resume conversation %s: %w", id, err)
	}
	return rec, nil
}

func listConversations(ctx context.Context, store *conversation.Store, tenant string) error {
	metas, err := store.List(ctx, tenant)
	if err != nil {
		return err
	}
	if len(metas) == 0 {
		fmt.Println("no conversations")
		return nil
	}
	for _, m := range metas {
		fmt.Printf("%s  %-22s  %s  (%s)\n", m.UpdatedAt.Format("2006-01-02 15:04"), m.Phase, m.Title, m.ID)
	}
	return nil
}

func chatLoop(ctx context.Context, coord *coordinator.Coordinator, store *conversation.Store, search *conversation.SearchIndex, rec *conversation.Record) error {
	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			return scanner.Err()
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		switch {
		case line == "/quit" || line == "/exit":
			return nil
		case line == "/state":
			printState(rec.State)
			continue
		case strings.HasPrefix(line, "/search "):
			runSearch(search, rec.TenantID, strings.TrimPrefix(line, "/search "))
			continue
		}

		if err := coord.AdvanceTurn(ctx, rec.State, line); err != nil {
			return err
		}

		fmt.Println()
		fmt.Println(latestVisibleReply(rec.State))
		fmt.Println()

		if err := store.Save(ctx, rec); err != nil {
			log.Printf("failed to save conversation: %v", err)
		}
		if search != nil {
			if err := search.IndexRecord(rec); err != nil {
				log.Printf("failed to index conversation: %v", err)
			}
		}
	}
}

func latestVisibleReply(s *coordinator.ConversationState) string {
	for i := len(s.Messages) - 1; i >= 0; i-- {
		m := s.Messages[i]
		if m.Role == coordinator.RoleAssistant && !m.Ephemeral {
			return m.Content
		}
	}
	return "(no reply)"
}

func printState(s *coordinator.ConversationState) {
	fmt.Printf("phase: %s\n", s.CurrentPhase)
	fmt.Printf("collected:")
	for _, cat := range coordinator.AllCategories {
		if s.InformationCollected[cat] {
			fmt.Printf(" %s", cat)
		}
	}
	fmt.Println()
	if s.Proposal != nil {
		fmt.Printf("proposal: %s (%s)\n", s.Proposal.GeneratedAt.Format("2006-01-02 15:04"), s.Proposal.Status)
	}
	for _, a := range s.AgentAssignments {
		fmt.Printf("task [%s] %s (%s)\n", a.AgentType, a.Task, a.Status)
	}
	if len(s.NextSteps) > 0 {
		fmt.Printf("next: %s\n", strings.Join(s.NextSteps, ", "))
	}
}

func runSearch(search *conversation.SearchIndex, tenant, query string) {
	if search == nil {
		fmt.Println("search is unavailable")
		return
	}
	hits, err := search.Search(tenant, query, 10)
	if err != nil {
		fmt.Printf("search failed: %v\n", err)
		return
	}
	if len(hits) == 0 {
		fmt.Println("no matches")
		return
	}
	for _, h := range hits {
		fmt.Printf("%.3f  %s  (%s)\n", h.Score, h.ConversationID, h.Role)
	}
}
