package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// SQLite stores layouts in a single table keyed by workspace id.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (creating if needed) the database at path and ensures the
// schema exists. An empty path defaults to ~/.local/share/freeboard/layouts.db.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("get home dir: %w", err)
		}
		path = filepath.Join(home, ".local", "share", "freeboard", "layouts.db")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	s := &SQLite{db: db}
	if err := s.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// EnsureSchema creates the layouts table.
func (s *SQLite) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS layouts (
			workspace_id TEXT PRIMARY KEY,
			payload BLOB NOT NULL,
			updated_at TEXT NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

func (s *SQLite) Get(ctx context.Context, workspaceID string) ([]byte, error) {
	var data []byte
	row := s.db.QueryRowContext(ctx, `SELECT payload FROM layouts WHERE workspace_id = ?`, workspaceID)
	if err := row.Scan(&data); err != nil {
		if err == sql.ErrNoRows {
			return nil, notFound(workspaceID)
		}
		return nil, storageErr(err, "read", workspaceID)
	}
	return data, nil
}

func (s *SQLite) Put(ctx context.Context, workspaceID string, data []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO layouts (workspace_id, payload, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(workspace_id) DO UPDATE SET
			payload = excluded.payload,
			updated_at = excluded.updated_at`,
		workspaceID, data, time.Now().UTC().Format(time.RFC3339Nano))
	if err != nil {
		return storageErr(err, "write", workspaceID)
	}
	return nil
}

func (s *SQLite) Close() error { return s.db.Close() }
