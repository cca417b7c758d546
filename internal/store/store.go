// Package store provides SQLite persistence for sportus: the access token the
// fetch path reads and the navigation intents the router records.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/jisooooooooooo/sportus/internal/store/migrations"
)

// ErrNoToken means no access token has been stored.
var ErrNoToken = errors.New("no access token stored")

// accessTokenKey is the credentials row holding the bearer token.
const accessTokenKey = "access_token"

// Store handles SQLite persistence. Safe for concurrent use.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Selection is one recorded navigation intent.
type Selection struct {
	ID         int64
	PlaceID    int64
	Name       string
	Category   string // place category code, e.g. "SWIMMING"
	Feed       string // "courses" or "facilities"
	SelectedAt time.Time
}

// Open opens the database at dbPath and applies pending migrations.
// ":memory:" opens a shared in-memory database limited to one connection.
func Open(dbPath string) (*Store, error) {
	connStr := dbPath
	if dbPath == ":memory:" {
		connStr = "file::memory:?cache=shared"
	}

	db, err := sql.Open("sqlite", connStr)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if dbPath == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if dbPath != ":memory:" {
		if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
			db.Close()
			return nil, fmt.Errorf("enable WAL mode: %w", err)
		}
	}

	if err := migrations.Run(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

// AccessToken returns the stored bearer token, or ErrNoToken.
func (s *Store) AccessToken(ctx context.Context) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var token string
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM credentials WHERE name = ?`, accessTokenKey).Scan(&token)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNoToken
	}
	if err != nil {
		return "", fmt.Errorf("query token: %w", err)
	}
	return token, nil
}

// SetAccessToken stores token, replacing any previous value. Surrounding
// whitespace is trimmed; an empty token is rejected.
func (s *Store) SetAccessToken(ctx context.Context, token string) error {
	token = strings.TrimSpace(token)
	if token == "" {
		return errors.New("set token: empty token")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (name, value, updated_at) VALUES (?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`,
		accessTokenKey, token, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("set token: %w", err)
	}
	return nil
}

// ClearAccessToken removes the stored token. Clearing an empty store is not
// an error.
func (s *Store) ClearAccessToken(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials WHERE name = ?`, accessTokenKey); err != nil {
		return fmt.Errorf("clear token: %w", err)
	}
	return nil
}

// RecordSelection appends a navigation intent and returns its row id.
// A zero SelectedAt is stamped with the current time.
func (s *Store) RecordSelection(ctx context.Context, sel Selection) (int64, error) {
	if sel.SelectedAt.IsZero() {
		sel.SelectedAt = time.Now()
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO selections (place_id, name, category, feed, selected_at)
		VALUES (?, ?, ?, ?, ?)`,
		sel.PlaceID, sel.Name, sel.Category, sel.Feed, sel.SelectedAt.UTC())
	if err != nil {
		return 0, fmt.Errorf("record selection: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("record selection: %w", err)
	}
	return id, nil
}

// RecentSelections returns up to limit selections, newest first.
func (s *Store) RecentSelections(ctx context.Context, limit int) ([]Selection, error) {
	if limit <= 0 {
		return nil, nil
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, place_id, name, category, feed, selected_at
		FROM selections
		ORDER BY selected_at DESC, id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query selections: %w", err)
	}
	defer rows.Close()

	var out []Selection
	for rows.Next() {
		var sel Selection
		if err := rows.Scan(&sel.ID, &sel.PlaceID, &sel.Name, &sel.Category, &sel.Feed, &sel.SelectedAt); err != nil {
			return nil, fmt.Errorf("scan selection: %w", err)
		}
		out = append(out, sel)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate selections: %w", err)
	}
	return out, nil
}
