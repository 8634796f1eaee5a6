package conversation

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/selimbz/eventra/internal/coordinator"
)

// ErrNotFound is returned when a conversation id does not exist for a tenant.
var ErrNotFound = errors.New("conversation not found")

// Store persists conversations in sqlite, one row per (tenant, conversation).
// The whole state goes into a JSON blob; read-modify-write on a single row
// under sqlite's single-writer model gives the per-conversation exclusivity
// the coordinator assumes.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore opens (or creates) the database at dbPath and initializes the schema.
func NewStore(ctx context.Context, dbPath string) (*Store, error) {
	// WAL mode allows readers alongside the single writer.
	dsn := dbPath + "?_journal_mode=WAL&_busy_timeout=5000"

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Store{db: db, now: time.Now}
	if err := s.initSchema(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initSchema(ctx context.Context) error {
	schema := `
	CREATE TABLE IF NOT EXISTS conversations (
		tenant_id       TEXT NOT NULL,
		conversation_id TEXT NOT NULL,
		title           TEXT NOT NULL,
		phase           TEXT NOT NULL,
		state           TEXT NOT NULL,
		created_at      INTEGER NOT NULL,
		updated_at      INTEGER NOT NULL,
		PRIMARY KEY (tenant_id, conversation_id)
	);
	CREATE INDEX IF NOT EXISTS idx_conversations_tenant_updated
		ON conversations (tenant_id, updated_at DESC);
	`
	_, err := s.db.ExecContext(ctx, schema)
	return err
}

// Create inserts a fresh conversation for a tenant and returns its record.
func (s *Store) Create(ctx context.Context, tenantID string) (*Record, error) {
	state := coordinator.NewConversationState()
	now := s.now().UTC()
	rec := &Record{
		ID:        uuid.NewString(),
		TenantID:  tenantID,
		Title:     DeriveTitle(state),
		CreatedAt: now,
		UpdatedAt: now,
		State:     state,
	}
	if err := s.Save(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Save writes the record, replacing any prior row for its id. Title and
// updated_at are refreshed on every save.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	if rec.ID == "" || rec.TenantID == "" {
		return fmt.Errorf("record needs both tenant and conversation ids")
	}

	rec.Title = DeriveTitle(rec.State)
	rec.UpdatedAt = s.now().UTC()
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = rec.UpdatedAt
	}

	blob, err := json.Marshal(rec.State)
	if err != nil {
		return fmt.Errorf("failed to marshal conversation state: %w", err)
	}

	phase := ""
	if rec.State != nil {
		phase = string(rec.State.CurrentPhase)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO conversations (tenant_id, conversation_id, title, phase, state, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (tenant_id, conversation_id) DO UPDATE SET
			title = excluded.title,
			phase = excluded.phase,
			state = excluded.state,
			updated_at = excluded.updated_at`,
		rec.TenantID, rec.ID, rec.Title, phase, string(blob),
		rec.CreatedAt.Unix(), rec.UpdatedAt.Unix())
	if err != nil {
		return fmt.Errorf("failed to save conversation: %w", err)
	}
	return nil
}

// Load retrieves one conversation for a tenant.
func (s *Store) Load(ctx context.Context, tenantID, conversationID string) (*Record, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT title, state, created_at, updated_at
		FROM conversations
		WHERE tenant_id = ? AND conversation_id = ?`,
		tenantID, conversationID)

	var title, blob string
	var createdAt, updatedAt int64
	if err := row.Scan(&title, &blob, &createdAt, &updatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to load conversation: %w", err)
	}

	var state coordinator.ConversationState
	if err := json.Unmarshal([]byte(blob), &state); err != nil {
		return nil, fmt.Errorf("failed to unmarshal conversation state: %w", err)
	}

	return &Record{
		ID:        conversationID,
		TenantID:  tenantID,
		Title:     title,
		CreatedAt: time.Unix(createdAt, 0).UTC(),
		UpdatedAt: time.Unix(updatedAt, 0).UTC(),
		State:     &state,
	}, nil
}

// List returns a tenant's conversations, newest first.
func (s *Store) List(ctx context.Context, tenantID string) ([]Meta, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT conversation_id, title, phase, created_at, updated_at
		FROM conversations
		WHERE tenant_id = ?
		ORDER BY updated_at DESC`,
		tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var metas []Meta
	for rows.Next() {
		var m Meta
		var phase string
		var createdAt, updatedAt int64
		if err := rows.Scan(&m.ID, &m.Title, &phase, &createdAt, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan conversation row: %w", err)
		}
		m.Phase = coordinator.Phase(phase)
		m.CreatedAt = time.Unix(createdAt, 0).UTC()
		m.UpdatedAt = time.Unix(updatedAt, 0).UTC()
		metas = append(metas, m)
	}
	return metas, rows.Err()
}

// Delete removes a conversation. Deleting a missing id is not an error.
func (s *Store) Delete(ctx context.Context, tenantID, conversationID string) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM conversations
		WHERE tenant_id = ? AND conversation_id = ?`,
		tenantID, conversationID)
	if err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}
