// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package history records import attempts in a local SQLite database so
// past saves can be listed and re-checked. The history is an audit
// trail, not a cache: extraction always goes back to the source.
package history

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"go.yaml.in/yaml/v3"

	"github.com/zotlink/zotlink/pkg/types"
)

const dbFile = "history.db"

const defaultMaxEntries = 20

// Status values for an import attempt.
const (
	StatusSaved  = "saved"
	StatusFailed = "failed"
)

// Entry is one recorded import attempt.
type Entry struct {
	ID        int64     `yaml:"id"`
	URL       string    `yaml:"url"`
	Title     string    `yaml:"title,omitempty"`
	ItemType  string    `yaml:"item_type,omitempty"`
	Extractor string    `yaml:"extractor,omitempty"`
	Status    string    `yaml:"status"`
	Message   string    `yaml:"message,omitempty"`
	CreatedAt time.Time `yaml:"created_at"`
}

// Store manages the import history SQLite database.
type Store struct {
	db         *sql.DB
	maxEntries int
}

// NewStore opens or creates the history database at dir/history.db,
// creating the schema when missing.
func NewStore(cfg types.HistoryConfig) (*Store, error) {
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating history directory: %w", err)
	}

	dbPath := filepath.Join(cfg.Dir, dbFile)
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	maxEntries := cfg.MaxEntries
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	s := &Store{db: db, maxEntries: maxEntries}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) createSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS imports (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT,
			item_type TEXT,
			extractor TEXT,
			status TEXT NOT NULL,
			message TEXT,
			created_at TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_created_at ON imports(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_imports_url ON imports(url)`,
	}
	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("executing schema statement: %w", err)
		}
	}
	return nil
}

// Record appends one import attempt. The entry's CreatedAt is assigned
// here; the returned entry carries the database ID.
func (s *Store) Record(ctx context.Context, e Entry) (Entry, error) {
	e.CreatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO imports (url, title, item_type, extractor, status, message, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		e.URL, e.Title, e.ItemType, e.Extractor, e.Status, e.Message,
		e.CreatedAt.Format(time.RFC3339Nano),
	)
	if err != nil {
		return Entry{}, fmt.Errorf("recording import: %w", err)
	}
	e.ID, err = res.LastInsertId()
	if err != nil {
		return Entry{}, fmt.Errorf("reading insert id: %w", err)
	}
	return e, nil
}

// Recent returns the latest import attempts, newest first. A limit of 0
// uses the configured default.
func (s *Store) Recent(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = s.maxEntries
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, item_type, extractor, status, message, created_at
		 FROM imports ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

// ByURL returns all attempts for one URL, newest first.
func (s *Store) ByURL(ctx context.Context, url string) ([]Entry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, item_type, extractor, status, message, created_at
		 FROM imports WHERE url = ? ORDER BY id DESC`, url)
	if err != nil {
		return nil, fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()
	return scanEntries(rows)
}

func scanEntries(rows *sql.Rows) ([]Entry, error) {
	var entries []Entry
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &e.URL, &e.Title, &e.ItemType, &e.Extractor,
			&e.Status, &e.Message, &created); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}
		t, err := time.Parse(time.RFC3339Nano, created)
		if err != nil {
			return nil, fmt.Errorf("parsing entry timestamp %q: %w", created, err)
		}
		e.CreatedAt = t
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// ExportYAML writes the full history, oldest first, as YAML.
func (s *Store) ExportYAML(ctx context.Context, path string) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, url, title, item_type, extractor, status, message, created_at
		 FROM imports ORDER BY id ASC`)
	if err != nil {
		return fmt.Errorf("querying history: %w", err)
	}
	defer rows.Close()

	entries, err := scanEntries(rows)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(entries)
	if err != nil {
		return fmt.Errorf("encoding history: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing export: %w", err)
	}
	return nil
}
