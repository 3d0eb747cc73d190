package trash

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ainarsv/trove/internal/models"

	_ "modernc.org/sqlite"
)

func setupDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, err = db.Exec(`
CREATE TABLE trash (
  id TEXT PRIMARY KEY,
  tbl TEXT NOT NULL,
  original_id TEXT NOT NULL,
  payload BLOB NOT NULL,
  deleted_at INTEGER NOT NULL,
  expires_at INTEGER NOT NULL
);
`)
	require.NoError(t, err)
	return db
}

func entryAt(id string, deletedAt time.Time) models.TrashEntry {
	return models.TrashEntry{
		ID:         id,
		Table:      models.TableAccounts,
		OriginalID: "a1",
		Payload:    []byte(`{"id":"a1","name":"Work"}`),
		DeletedAt:  deletedAt,
		ExpiresAt:  deletedAt.Add(models.TrashTTL),
	}
}

func TestInsertAndGet(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Now()

	e := entryAt("t1", now)
	require.NoError(t, r.Insert(ctx, e))

	got, err := r.Get(ctx, "t1", now)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e.Table, got.Table)
	assert.Equal(t, e.OriginalID, got.OriginalID)
	assert.JSONEq(t, string(e.Payload), string(got.Payload))
	assert.Equal(t, e.ExpiresAt.UTC().UnixNano(), got.ExpiresAt.UnixNano())
}

func TestInsert_SameLogicalIDTwice(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	now := time.Now()

	e1 := entryAt(models.TrashID(models.TableAccounts, "a1", now), now)
	e2 := entryAt(models.TrashID(models.TableAccounts, "a1", now.Add(time.Second)), now.Add(time.Second))
	require.NoError(t, r.Insert(ctx, e1))
	require.NoError(t, r.Insert(ctx, e2))

	list, err := r.List(ctx, now.Add(2*time.Second))
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestList_FiltersExpiredAndOrdersNewestFirst(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, r.Insert(ctx, entryAt("old", base.Add(-31*24*time.Hour))))
	require.NoError(t, r.Insert(ctx, entryAt("mid", base.Add(-10*24*time.Hour))))
	require.NoError(t, r.Insert(ctx, entryAt("new", base)))

	list, err := r.List(ctx, base)
	require.NoError(t, err)
	require.Len(t, list, 2, "expired entries are filtered out even before a sweep")
	assert.Equal(t, "new", list[0].ID)
	assert.Equal(t, "mid", list[1].ID)
}

func TestTTLBoundary(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	t0 := time.Now()

	require.NoError(t, r.Insert(ctx, entryAt("e", t0)))
	expiry := t0.Add(models.TrashTTL)

	justBefore, err := r.List(ctx, expiry.Add(-time.Nanosecond))
	require.NoError(t, err)
	assert.Len(t, justBefore, 1)

	atExpiry, err := r.List(ctx, expiry)
	require.NoError(t, err)
	assert.Empty(t, atExpiry, "expiresAt <= now means gone")

	got, err := r.Get(ctx, "e", expiry)
	require.NoError(t, err)
	assert.Nil(t, got, "an expired entry must not be restorable")
}

func TestDelete(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()

	require.NoError(t, r.Insert(ctx, entryAt("t1", time.Now())))

	ok, err := r.Delete(ctx, "t1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = r.Delete(ctx, "t1")
	require.NoError(t, err)
	assert.False(t, ok, "second delete finds nothing")
}

func TestDeleteExpired(t *testing.T) {
	db := setupDB(t)
	r := NewSQLiteRepository(db)
	ctx := context.Background()
	base := time.Now()

	require.NoError(t, r.Insert(ctx, entryAt("a", base.Add(-40*24*time.Hour))))
	require.NoError(t, r.Insert(ctx, entryAt("b", base.Add(-35*24*time.Hour))))
	require.NoError(t, r.Insert(ctx, entryAt("c", base)))

	n, err := r.DeleteExpired(ctx, base)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)

	var remaining int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM trash`).Scan(&remaining))
	assert.Equal(t, 1, remaining)
}
