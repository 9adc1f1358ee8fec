// ABOUTME: Page CRUD operations riding on the connection gateway
// ABOUTME: One logical statement per gateway checkout

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ListPageNames returns all page names in sorted order.
func (s *SQLiteStore) ListPageNames(ctx context.Context) ([]string, error) {
	var names []string

	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx, `SELECT name FROM pages ORDER BY name`)
		if err != nil {
			return fmt.Errorf("listing pages: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var name string
			if err := rows.Scan(&name); err != nil {
				return fmt.Errorf("scanning page name: %w", err)
			}
			names = append(names, name)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

// GetPage returns a page by ID, or ErrNotFound.
func (s *SQLiteStore) GetPage(ctx context.Context, id string) (*Page, error) {
	return s.getPage(ctx, `SELECT id, name, content FROM pages WHERE id = ?`, id)
}

// GetPageByName returns a page by name, or ErrNotFound.
func (s *SQLiteStore) GetPageByName(ctx context.Context, name string) (*Page, error) {
	return s.getPage(ctx, `SELECT id, name, content FROM pages WHERE name = ?`, name)
}

func (s *SQLiteStore) getPage(ctx context.Context, query, arg string) (*Page, error) {
	var page Page

	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, query, arg)
		if err := row.Scan(&page.ID, &page.Name, &page.Content); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return ErrNotFound
			}
			return fmt.Errorf("fetching page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &page, nil
}

// CreatePage inserts a new page and returns it. A taken name yields
// ErrDuplicatePage.
func (s *SQLiteStore) CreatePage(ctx context.Context, name, content string) (*Page, error) {
	page := &Page{
		ID:      uuid.NewString(),
		Name:    name,
		Content: content,
	}

	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx,
			`INSERT INTO pages (id, name, content) VALUES (?, ?, ?)`,
			page.ID, page.Name, page.Content,
		)
		if err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicatePage
			}
			return fmt.Errorf("creating page: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("page created", "id", page.ID, "name", page.Name)
	return page, nil
}

// UpdatePage replaces a page's content. Returns ErrNotFound if no page has
// the given ID.
func (s *SQLiteStore) UpdatePage(ctx context.Context, id, content string) error {
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx,
			`UPDATE pages SET content = ? WHERE id = ?`, content, id,
		)
		if err != nil {
			return fmt.Errorf("updating page: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking update result: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("page updated", "id", id)
	return nil
}

// DeletePage removes a page. Returns ErrNotFound if no page has the given ID.
func (s *SQLiteStore) DeletePage(ctx context.Context, id string) error {
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		result, err := conn.ExecContext(ctx, `DELETE FROM pages WHERE id = ?`, id)
		if err != nil {
			return fmt.Errorf("deleting page: %w", err)
		}

		affected, err := result.RowsAffected()
		if err != nil {
			return fmt.Errorf("checking delete result: %w", err)
		}
		if affected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Debug("page deleted", "id", id)
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique-constraint error.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
