package services

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/remote"

	_ "modernc.org/sqlite"
)

func discardLogger() logging.Logger {
	return logging.NewSlogLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func setupNamespaceDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE records (
  tbl TEXT NOT NULL,
  id TEXT NOT NULL,
  payload BLOB NOT NULL,
  sync_status TEXT NOT NULL DEFAULT 'synced',
  last_modified INTEGER NOT NULL,
  deleted INTEGER NOT NULL DEFAULT 0,
  deleted_at INTEGER,
  PRIMARY KEY (tbl, id)
);
CREATE TABLE trash (
  id TEXT PRIMARY KEY,
  tbl TEXT NOT NULL,
  original_id TEXT NOT NULL,
  payload BLOB NOT NULL,
  deleted_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL
);
CREATE TABLE outbox (
  id TEXT PRIMARY KEY,
  tbl TEXT NOT NULL,
  action TEXT NOT NULL,
  data BLOB NOT NULL,
  ts INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func setupCredentialsDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE credentials (
  identifier TEXT PRIMARY KEY,
  hashed_password TEXT NOT NULL,
  user_id TEXT NOT NULL,
  display_name TEXT NOT NULL DEFAULT '',
  last_login INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

// remoteCall records one backend invocation made by the sync driver.
type remoteCall struct {
	Op    string
	Table string
	Data  string
	ID    string
}

// fakeRemote is a scriptable remote.Client.
type fakeRemote struct {
	mu    sync.Mutex
	calls []remoteCall

	loginResult *remote.AuthResult
	loginErr    error
	registerErr error
	pingErr     error

	// failOp makes the matching mutation fail with failErr until
	// failCount reaches zero.
	failOp    string
	failErr   error
	failCount int
}

func (f *fakeRemote) Login(ctx context.Context, identifier string, secret []byte) (*remote.AuthResult, error) {
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	return f.loginResult, nil
}

func (f *fakeRemote) Register(ctx context.Context, identifier string, secret []byte, displayName string) error {
	return f.registerErr
}

func (f *fakeRemote) Ping(ctx context.Context) error { return f.pingErr }

func (f *fakeRemote) Insert(ctx context.Context, table string, data []byte) error {
	return f.record("insert", table, string(data), "")
}

func (f *fakeRemote) Update(ctx context.Context, table string, data []byte) error {
	return f.record("update", table, string(data), "")
}

func (f *fakeRemote) Delete(ctx context.Context, table, id string) error {
	return f.record("delete", table, "", id)
}

func (f *fakeRemote) Close() error { return nil }

func (f *fakeRemote) record(op, table, data, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failOp == op && f.failCount != 0 {
		if f.failCount > 0 {
			f.failCount--
		}
		return f.failErr
	}
	f.calls = append(f.calls, remoteCall{Op: op, Table: table, Data: data, ID: id})
	return nil
}

func (f *fakeRemote) recorded() []remoteCall {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]remoteCall, len(f.calls))
	copy(out, f.calls)
	return out
}
