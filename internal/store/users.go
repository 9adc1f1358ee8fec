// ABOUTME: Store-backed credential backend with bcrypt password verification
// ABOUTME: Users and role assignments in SQLite, timing-safe on unknown logins

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/scrawlhq/scrawl/internal/auth"
)

// dummyHash keeps password comparison constant-time for unknown logins so
// login probing cannot enumerate accounts.
const dummyHash = "$2a$10$N9qo8uLOickgx2ZMRZoMyeIjZAgcfl7p92ldGxad68LJZdL17lhWy"

// CreateUser inserts a user with a bcrypt-hashed password and the given
// roles. A taken login yields ErrDuplicateUser.
func (s *SQLiteStore) CreateUser(ctx context.Context, login, password string, roles []string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("hashing password: %w", err)
	}

	err = s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		if _, err := conn.ExecContext(ctx,
			`INSERT INTO users (login, password_hash) VALUES (?, ?)`,
			login, string(hash),
		); err != nil {
			if isUniqueViolation(err) {
				return ErrDuplicateUser
			}
			return fmt.Errorf("creating user: %w", err)
		}

		for _, role := range roles {
			if _, err := conn.ExecContext(ctx,
				`INSERT OR IGNORE INTO user_roles (login, role) VALUES (?, ?)`,
				login, role,
			); err != nil {
				return fmt.Errorf("assigning role %q: %w", role, err)
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("user created", "login", login, "roles", roles)
	return nil
}

// HasUser reports whether a login exists.
func (s *SQLiteStore) HasUser(ctx context.Context, login string) (bool, error) {
	var count int
	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx, `SELECT COUNT(*) FROM users WHERE login = ?`, login)
		return row.Scan(&count)
	})
	if err != nil {
		return false, fmt.Errorf("checking user: %w", err)
	}
	return count > 0, nil
}

// Authenticate implements auth.CredentialStore. A bad login or password
// yields auth.ErrAuthenticationFailed; any other error means the backend
// itself failed.
func (s *SQLiteStore) Authenticate(ctx context.Context, login, password string) ([]string, error) {
	var passwordHash string

	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		row := conn.QueryRowContext(ctx,
			`SELECT password_hash FROM users WHERE login = ?`, login,
		)
		return row.Scan(&passwordHash)
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Burn the same time as a real comparison.
			_ = bcrypt.CompareHashAndPassword([]byte(dummyHash), []byte(password))
			return nil, auth.ErrAuthenticationFailed
		}
		return nil, fmt.Errorf("looking up user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)); err != nil {
		return nil, auth.ErrAuthenticationFailed
	}

	return s.userRoles(ctx, login)
}

// userRoles returns the role set assigned to a login.
func (s *SQLiteStore) userRoles(ctx context.Context, login string) ([]string, error) {
	var roles []string

	err := s.gateway.WithConn(ctx, func(ctx context.Context, conn *sql.Conn) error {
		rows, err := conn.QueryContext(ctx,
			`SELECT role FROM user_roles WHERE login = ? ORDER BY role`, login,
		)
		if err != nil {
			return fmt.Errorf("listing roles: %w", err)
		}
		defer rows.Close()

		for rows.Next() {
			var role string
			if err := rows.Scan(&role); err != nil {
				return fmt.Errorf("scanning role: %w", err)
			}
			roles = append(roles, role)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	return roles, nil
}
