// ABOUTME: SQLite implementation of the store using modernc.org/sqlite
// ABOUTME: Provides page and user persistence with automatic schema creation

package store

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// SQLiteStore implements page and user persistence using SQLite. Every
// statement runs through the connection gateway so checkout and release are
// uniform across operations.
type SQLiteStore struct {
	db      *sql.DB
	gateway *Gateway
	logger  *slog.Logger
}

// NewSQLiteStore creates a new SQLite store at the given path.
// The schema is automatically created if it doesn't exist.
// Parent directories are created if needed.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	logger := slog.Default().With("component", "store")

	// Ensure parent directory exists
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// Enable WAL mode for better concurrent performance
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	// Enable foreign keys
	if _, err := db.Exec("PRAGMA foreign_keys=ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		gateway: NewGateway(db),
		logger:  logger,
	}

	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	logger.Info("SQLite store initialized", "path", path)
	return s, nil
}

// createSchema creates the database tables if they don't exist
func (s *SQLiteStore) createSchema() error {
	schema := `
		CREATE TABLE IF NOT EXISTS pages (
			id      TEXT PRIMARY KEY,
			name    TEXT NOT NULL UNIQUE,
			content TEXT NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_pages_name ON pages(name);

		CREATE TABLE IF NOT EXISTS users (
			login         TEXT PRIMARY KEY,
			password_hash TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS user_roles (
			login TEXT NOT NULL,
			role  TEXT NOT NULL,

			PRIMARY KEY (login, role),
			FOREIGN KEY (login) REFERENCES users(login) ON DELETE CASCADE
		);
	`

	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("executing schema: %w", err)
	}
	return nil
}

// Gateway exposes the store's connection gateway for callers that run their
// own statements.
func (s *SQLiteStore) Gateway() *Gateway {
	return s.gateway
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
