package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/rs/zerolog/log"

	"github.com/landai/chatd/domain"
	"github.com/landai/chatd/internal/metrics"
)

// snapshotSlot is the single durable key the collection lives under.
const snapshotSlot = "conversations"

// SQLiteStore implements Adapter on a SQLite database. The collection is
// stored JSON-serialized in one row, so a write replaces the previous
// snapshot atomically and timestamps ride the wire as RFC 3339 strings.
type SQLiteStore struct {
	db *sql.DB
}

var _ Adapter = (*SQLiteStore)(nil)

// NewSQLiteStore opens (and if needed creates) the snapshot database.
func NewSQLiteStore(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// For in-memory SQLite, multiple connections create separate databases.
	// Keep a single connection to avoid schema/data disappearing across goroutines.
	if dsn == ":memory:" || strings.Contains(dsn, "mode=memory") {
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	}

	s := &SQLiteStore{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

func (s *SQLiteStore) migrate() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS snapshots (
		slot TEXT PRIMARY KEY,
		data TEXT NOT NULL,
		updated_at DATETIME NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	return nil
}

// Load reads the snapshot. A missing row or undecodable payload yields an
// empty collection, never an error.
func (s *SQLiteStore) Load(ctx context.Context) ([]*domain.Conversation, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM snapshots WHERE slot = ?`, snapshotSlot).Scan(&data)
	if err == sql.ErrNoRows {
		return []*domain.Conversation{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot: %w", err)
	}

	var conversations []*domain.Conversation
	if err := json.Unmarshal([]byte(data), &conversations); err != nil {
		log.Warn().Err(err).Str("slot", snapshotSlot).
			Msg("snapshot is corrupt, resetting to empty collection")
		metrics.SnapshotResetsTotal.Inc()
		return []*domain.Conversation{}, nil
	}
	if conversations == nil {
		conversations = []*domain.Conversation{}
	}
	return conversations, nil
}

// Save writes the whole collection under the snapshot slot. INSERT OR REPLACE
// runs in its own transaction, so readers see either the old or the new
// snapshot, never a partial write.
func (s *SQLiteStore) Save(ctx context.Context, conversations []*domain.Conversation) error {
	data, err := json.Marshal(conversations)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO snapshots (slot, data, updated_at) VALUES (?, ?, ?)`,
		snapshotSlot, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("failed to write snapshot: %w", err)
	}
	return nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
