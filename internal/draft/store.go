// Package draft persists unsubmitted form state between sessions. Storage is
// a small sqlite database keyed by module draft key; every operation is
// best-effort from the caller's point of view.
package draft

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

// DocMeta records what was attached to a slot when the draft was saved.
// File content is not persisted; the user re-attaches after a reload.
type DocMeta struct {
	FileName   string `json:"fileName"`
	Size       int64  `json:"size"`
	DocumentID string `json:"documentId,omitempty"`
}

// Payload is the serialized draft of one form session.
type Payload struct {
	FormState map[string]string  `json:"formState"`
	DocMeta   map[string]DocMeta `json:"docMeta"`
	Step      string             `json:"step"`
}

const schemaSQL = `
CREATE TABLE IF NOT EXISTS drafts (
	key        TEXT PRIMARY KEY,
	payload    TEXT NOT NULL,
	updated_at TEXT NOT NULL
);`

// Store is a sqlite-backed draft store.
type Store struct {
	db *sql.DB
}

// Open opens (and if needed creates) the draft database at path. Use
// ":memory:" for an ephemeral store.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("draft: open %s: %w", path, err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("draft: init schema: %w", err)
	}
	return &Store{db: db}, nil
}

// Save upserts the draft under key. Last write wins.
func (s *Store) Save(key string, p *Payload) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("draft: encode: %w", err)
	}
	_, err = s.db.Exec(
		`INSERT INTO drafts (key, payload, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET payload = excluded.payload, updated_at = excluded.updated_at`,
		key, string(data), time.Now().UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("draft: save %s: %w", key, err)
	}
	return nil
}

// Load returns the stored draft, or (nil, nil) when there is none. A stored
// payload that fails to decode is treated as absent rather than an error.
func (s *Store) Load(key string) (*Payload, error) {
	var raw string
	err := s.db.QueryRow(`SELECT payload FROM drafts WHERE key = ?`, key).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("draft: load %s: %w", key, err)
	}
	var p Payload
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, nil // corrupt draft, ignore silently
	}
	return &p, nil
}

// Clear removes the draft under key. Clearing a missing key is not an error.
func (s *Store) Clear(key string) error {
	if _, err := s.db.Exec(`DELETE FROM drafts WHERE key = ?`, key); err != nil {
		return fmt.Errorf("draft: clear %s: %w", key, err)
	}
	return nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}
