package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ainarsv/trove/internal/models"
)

func TestSave_PairsRecordWithOutboxEntry(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableAccounts, "a1", []byte(`{"id":"a1","name":"Work"}`)))

	rec, err := s.Get(ctx, models.TableAccounts, "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.SyncStatusPending, rec.SyncStatus)

	actions, err := s.Outbox(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 1)
	assert.Equal(t, models.ActionInsert, actions[0].Action)

	// a second save of the same id is an update
	require.NoError(t, s.Save(ctx, models.TableAccounts, "a1", []byte(`{"id":"a1","name":"Home"}`)))
	actions, err = s.Outbox(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionUpdate, actions[1].Action)
}

func TestSaveMany_AllRecordsAndActions(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	docs := []models.Document{
		{ID: "l1", Data: []byte(`{"id":"l1","url":"https://a"}`)},
		{ID: "l2", Data: []byte(`{"id":"l2","url":"https://b"}`)},
		{ID: "l3", Data: []byte(`{"id":"l3","url":"https://c"}`)},
	}
	require.NoError(t, s.SaveMany(ctx, models.TableLinks, docs))

	all, err := s.GetAll(ctx, models.TableLinks)
	require.NoError(t, err)
	assert.Len(t, all, 3)

	n, err := s.OutboxCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestImportMany_NoOutboxEntries(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	docs := []models.Document{{ID: "n1", Data: []byte(`{"id":"n1"}`)}}
	require.NoError(t, s.ImportMany(ctx, models.TableNotes, docs))

	rec, err := s.Get(ctx, models.TableNotes, "n1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.Equal(t, models.SyncStatusPending, rec.SyncStatus)

	n, err := s.OutboxCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "mirror imports rely on the pending status, not the outbox")
}

// The worked scenario: insert, trash, restore.
func TestTrashRoundTrip(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()
	payload := []byte(`{"id":"a1","name":"Work"}`)

	require.NoError(t, s.Save(ctx, models.TableAccounts, "a1", payload))

	all, err := s.GetAll(ctx, models.TableAccounts)
	require.NoError(t, err)
	require.Len(t, all, 1)

	entry, err := s.Trash(ctx, models.TableAccounts, "a1")
	require.NoError(t, err)
	require.NotNil(t, entry)
	assert.Equal(t, "a1", entry.OriginalID)

	all, err = s.GetAll(ctx, models.TableAccounts)
	require.NoError(t, err)
	assert.Empty(t, all)

	rec, err := s.Get(ctx, models.TableAccounts, "a1")
	require.NoError(t, err)
	assert.Nil(t, rec)

	bin, err := s.GetTrash(ctx)
	require.NoError(t, err)
	require.Len(t, bin, 1)
	assert.Equal(t, models.TableAccounts, bin[0].Table)

	restored, err := s.RestoreFromTrash(ctx, entry.ID)
	require.NoError(t, err)
	require.NotNil(t, restored)
	assert.Equal(t, models.TableAccounts, restored.Table)
	assert.JSONEq(t, string(payload), string(restored.Payload))

	rec, err = s.Get(ctx, models.TableAccounts, "a1")
	require.NoError(t, err)
	require.NotNil(t, rec)
	assert.JSONEq(t, string(payload), string(rec.Payload))
	assert.Equal(t, models.SyncStatusPending, rec.SyncStatus)

	bin, err = s.GetTrash(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)
}

func TestTrash_MissingRecordLeavesNothingBehind(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	entry, err := s.Trash(ctx, models.TableAccounts, "ghost")
	require.NoError(t, err)
	assert.Nil(t, entry)

	bin, err := s.GetTrash(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	n, err := s.OutboxCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestTrash_AppendsDeleteAction(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	_, err := s.Trash(ctx, models.TableNotes, "n1")
	require.NoError(t, err)

	actions, err := s.Outbox(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 2)
	assert.Equal(t, models.ActionDelete, actions[1].Action)
	assert.Equal(t, "n1", actions[1].RecordID())
}

func TestRestoreFromTrash_SecondCallFailsSoft(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableIdeas, "i1", []byte(`{"id":"i1"}`)))
	entry, err := s.Trash(ctx, models.TableIdeas, "i1")
	require.NoError(t, err)
	require.NotNil(t, entry)

	first, err := s.RestoreFromTrash(ctx, entry.ID)
	require.NoError(t, err)
	assert.NotNil(t, first)

	second, err := s.RestoreFromTrash(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, second, "restore is not idempotent; the second call returns nil")
}

func TestRestoreFromTrash_ExpiredEntryNotRestorable(t *testing.T) {
	db := setupNamespaceDB(t)
	current := time.Now()
	s := NewVaultService(db, discardLogger(), WithClock(func() time.Time { return current }))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	entry, err := s.Trash(ctx, models.TableNotes, "n1")
	require.NoError(t, err)
	require.NotNil(t, entry)

	current = current.Add(models.TrashTTL) // exactly at expiry

	bin, err := s.GetTrash(ctx)
	require.NoError(t, err)
	assert.Empty(t, bin)

	restored, err := s.RestoreFromTrash(ctx, entry.ID)
	require.NoError(t, err)
	assert.Nil(t, restored)
}

func TestCleanExpiredTrash_LeavesTombstonesAlone(t *testing.T) {
	db := setupNamespaceDB(t)
	current := time.Now()
	s := NewVaultService(db, discardLogger(), WithClock(func() time.Time { return current }))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	_, err := s.Trash(ctx, models.TableNotes, "n1")
	require.NoError(t, err)

	current = current.Add(models.TrashTTL + time.Hour)

	n, err := s.CleanExpiredTrash(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var tombstones int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM records WHERE deleted=1`).Scan(&tombstones))
	assert.Equal(t, 1, tombstones, "sweeping trash must not purge record tombstones")
}

func TestPurgeTombstones(t *testing.T) {
	db := setupNamespaceDB(t)
	current := time.Now()
	s := NewVaultService(db, discardLogger(), WithClock(func() time.Time { return current }))
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	_, err := s.Trash(ctx, models.TableNotes, "n1")
	require.NoError(t, err)

	current = current.Add(models.TrashTTL + time.Hour)

	n, err := s.PurgeTombstones(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	var remaining int
	require.NoError(t, db.QueryRow(`SELECT count(*) FROM records`).Scan(&remaining))
	assert.Zero(t, remaining)
}

func TestPendingIDs_BadgesUnsyncedItems(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	require.NoError(t, s.Save(ctx, models.TableLinks, "l1", []byte(`{"id":"l1"}`)))

	ids, err := s.PendingIDs(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]struct{}{"n1": {}, "l1": {}}, ids)
}

func TestOutboxOrder_UnaffectedByInterleavedReads(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	_, err := s.GetAll(ctx, models.TableLinks)
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, models.TableNotes, "n2", []byte(`{"id":"n2"}`)))
	_, err = s.Get(ctx, models.TableReminders, "nothing")
	require.NoError(t, err)
	require.NoError(t, s.Save(ctx, models.TableNotes, "n3", []byte(`{"id":"n3"}`)))

	actions, err := s.Outbox(ctx)
	require.NoError(t, err)
	require.Len(t, actions, 3)
	assert.Equal(t, "n1", actions[0].RecordID())
	assert.Equal(t, "n2", actions[1].RecordID())
	assert.Equal(t, "n3", actions[2].RecordID())
}

func TestClear_WipesTable(t *testing.T) {
	db := setupNamespaceDB(t)
	s := NewVaultService(db, discardLogger())
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, models.TableNotes, "n1", []byte(`{"id":"n1"}`)))
	require.NoError(t, s.Clear(ctx, models.TableNotes))

	all, err := s.GetAll(ctx, models.TableNotes)
	require.NoError(t, err)
	assert.Empty(t, all)
}
