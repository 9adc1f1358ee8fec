// ABOUTME: Connection gateway serializing acquire-operate-release around the pool
// ABOUTME: Guarantees release on every exit path and keeps acquisition failures distinct

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
)

// ErrAcquire is returned when a connection cannot be checked out of the
// pool. It is distinct from operation failures so callers can surface it as
// a backend outage rather than a data error.
var ErrAcquire = errors.New("acquiring connection")

// Gateway checks one connection out of the pool, runs exactly one logical
// operation on it, and releases it on every path. It knows nothing about
// principals or capabilities: the guard chain has already decided by the
// time an operation reaches it.
type Gateway struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewGateway creates a gateway over the given pool.
func NewGateway(db *sql.DB) *Gateway {
	return &Gateway{
		db:     db,
		logger: slog.Default().With("component", "gateway"),
	}
}

// WithConn acquires a connection, invokes op with it, and releases it when
// op returns — whether op succeeds, fails, or panics. Acquisition failure
// wraps ErrAcquire; op's own error is returned untouched.
func (g *Gateway) WithConn(ctx context.Context, op func(ctx context.Context, conn *sql.Conn) error) error {
	conn, err := g.db.Conn(ctx)
	if err != nil {
		g.logger.Error("connection checkout failed", "error", err)
		return fmt.Errorf("%w: %v", ErrAcquire, err)
	}
	defer conn.Close()

	return op(ctx, conn)
}
