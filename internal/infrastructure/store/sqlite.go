// Package store provides the durable token store: the browser-profile
// equivalent of the client. Exactly one key-value entry is persisted, the
// bearer token, read at startup and before every outgoing request.
package store

import (
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

const tokenKey = "token"

// SQLite persists the token in a single-row kv table on disk, so a restart
// of the client behaves like a page reload: the token survives and the
// profile is re-resolved.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (or creates) the store at path and ensures the schema.
func OpenSQLite(path string) (*SQLite, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("store: open %s: %w", path, err)
	}
	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS kv (key TEXT PRIMARY KEY, value TEXT NOT NULL)`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: ensure schema: %w", err)
	}
	return &SQLite{db: db}, nil
}

// Load returns the persisted token, or "" when none is stored.
func (s *SQLite) Load() (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM kv WHERE key = ?`, tokenKey).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("store: load token: %w", err)
	}
	return value, nil
}

func (s *SQLite) Save(token string) error {
	_, err := s.db.Exec(
		`INSERT INTO kv (key, value) VALUES (?, ?)
		 ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		tokenKey, token,
	)
	if err != nil {
		return fmt.Errorf("store: save token: %w", err)
	}
	return nil
}

// Clear removes the token. Clearing an empty store is not an error, which
// keeps logout idempotent.
func (s *SQLite) Clear() error {
	if _, err := s.db.Exec(`DELETE FROM kv WHERE key = ?`, tokenKey); err != nil {
		return fmt.Errorf("store: clear token: %w", err)
	}
	return nil
}

func (s *SQLite) Close() error {
	return s.db.Close()
}
