// Package sqlite implements ports.DefinitionStore on a single SQLite file.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/aretw0/stagepath/pkg/domain"
	_ "modernc.org/sqlite"
)

// DefaultFile is the database filename used when only a directory is given.
const DefaultFile = "stagepath.db"

const schema = `
CREATE TABLE IF NOT EXISTS definitions (
	name       TEXT PRIMARY KEY,
	body       TEXT NOT NULL,
	updated_at TEXT NOT NULL
)`

// Store persists definitions as JSON rows.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and runs migrations.
// If path is a directory, DefaultFile is created inside it.
func Open(path string) (*Store, error) {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		path = filepath.Join(path, DefaultFile)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("sqlite: create data dir: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("sqlite: open database: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("sqlite: pragma %q: %w", p, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("sqlite: migration: %w", err)
	}
	return &Store{db: db}, nil
}

// Save inserts or replaces the definition.
func (s *Store) Save(ctx context.Context, def domain.Definition) error {
	if def.Name == "" {
		return fmt.Errorf("definition missing name")
	}
	body, err := json.Marshal(def)
	if err != nil {
		return fmt.Errorf("failed to marshal definition: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO definitions (name, body, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`,
		def.Name, string(body), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("sqlite: save %s: %w", def.Name, err)
	}
	return nil
}

// Load returns the named definition or domain.ErrDefinitionNotFound.
func (s *Store) Load(ctx context.Context, name string) (domain.Definition, error) {
	var body string
	err := s.db.QueryRowContext(ctx, `SELECT body FROM definitions WHERE name = ?`, name).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Definition{}, fmt.Errorf("%w: %s", domain.ErrDefinitionNotFound, name)
	}
	if err != nil {
		return domain.Definition{}, fmt.Errorf("sqlite: load %s: %w", name, err)
	}

	var def domain.Definition
	if err := json.Unmarshal([]byte(body), &def); err != nil {
		return domain.Definition{}, fmt.Errorf("failed to unmarshal definition %s: %w", name, err)
	}
	return def, nil
}

// Delete removes the definition. Missing rows are not an error.
func (s *Store) Delete(ctx context.Context, name string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM definitions WHERE name = ?`, name); err != nil {
		return fmt.Errorf("sqlite: delete %s: %w", name, err)
	}
	return nil
}

// List returns all definition names in ascending order.
func (s *Store) List(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name FROM definitions ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list: %w", err)
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("sqlite: scan: %w", err)
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}
