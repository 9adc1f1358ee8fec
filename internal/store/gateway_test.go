// ABOUTME: Tests for the connection gateway
// ABOUTME: Verifies release on success, operation failure, and panic, plus acquisition errors

package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockGateway(t *testing.T) (*Gateway, *sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return NewGateway(db), db, mock
}

func TestGateway_ReleasesOnSuccess(t *testing.T) {
	gw, db, mock := newMockGateway(t)
	mock.ExpectExec("UPDATE pages").WillReturnResult(sqlmock.NewResult(0, 1))

	err := gw.WithConn(context.Background(), func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, "UPDATE pages SET content = ? WHERE id = ?", "x", "1")
		return err
	})
	require.NoError(t, err)

	assert.Zero(t, db.Stats().InUse, "connection still checked out after success")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGateway_ReleasesOnOperationFailure(t *testing.T) {
	gw, db, mock := newMockGateway(t)

	opErr := errors.New("table is on fire")
	mock.ExpectExec("UPDATE pages").WillReturnError(opErr)

	err := gw.WithConn(context.Background(), func(ctx context.Context, conn *sql.Conn) error {
		_, err := conn.ExecContext(ctx, "UPDATE pages SET content = ? WHERE id = ?", "x", "1")
		return err
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, opErr, "operation error must pass through unchanged")
	assert.NotErrorIs(t, err, ErrAcquire, "operation failure must not look like an acquisition failure")
	assert.Zero(t, db.Stats().InUse, "connection still checked out after operation failure")
}

func TestGateway_ReleasesOnPanic(t *testing.T) {
	gw, db, _ := newMockGateway(t)

	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the operation panic to propagate")
			}
		}()
		_ = gw.WithConn(context.Background(), func(ctx context.Context, conn *sql.Conn) error {
			panic("operation exploded")
		})
	}()

	assert.Zero(t, db.Stats().InUse, "connection still checked out after panic")
}

func TestGateway_AcquisitionFailure(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	// Closing the pool makes every checkout fail.
	mock.ExpectClose()
	require.NoError(t, db.Close())

	gw := NewGateway(db)

	opCalls := 0
	err = gw.WithConn(context.Background(), func(ctx context.Context, conn *sql.Conn) error {
		opCalls++
		return nil
	})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrAcquire)
	assert.Zero(t, opCalls, "operation must not run when acquisition fails")
}

func TestGateway_ReleasesExactlyOnce(t *testing.T) {
	// Run several operations through a single-connection pool; if any path
	// leaked or double-released, later checkouts would fail.
	gw, db, mock := newMockGateway(t)
	db.SetMaxOpenConns(1)

	for i := 0; i < 5; i++ {
		mock.ExpectExec("DELETE FROM pages").WillReturnResult(sqlmock.NewResult(0, 1))
	}

	for i := 0; i < 5; i++ {
		err := gw.WithConn(context.Background(), func(ctx context.Context, conn *sql.Conn) error {
			_, err := conn.ExecContext(ctx, "DELETE FROM pages WHERE id = ?", "1")
			return err
		})
		require.NoError(t, err, "iteration %d", i)
	}

	assert.Zero(t, db.Stats().InUse)
}
