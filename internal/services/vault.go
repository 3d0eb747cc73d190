// Package services wires the repositories into the operations the client
// surface uses: transactional mutations paired with outbox appends, the
// trash lifecycle, offline authentication and outbox replay.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ainarsv/trove/internal/dbx"
	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/models"
	"github.com/ainarsv/trove/internal/repositories/outbox"
	"github.com/ainarsv/trove/internal/repositories/records"
	"github.com/ainarsv/trove/internal/repositories/trash"
)

// Restored is what a successful trash restore hands back.
type Restored struct {
	Table   string
	Payload json.RawMessage
}

// VaultService is the single mutation entry point over one namespace.
// Every write performs the record change and its outbox append inside one
// transaction, so the pairing can never drift apart.
type VaultService struct {
	db  *sql.DB
	log logging.Logger
	ttl time.Duration
	now func() time.Time
}

type VaultOption func(*VaultService)

// WithTrashTTL overrides the default 30-day retention window.
func WithTrashTTL(ttl time.Duration) VaultOption {
	return func(s *VaultService) { s.ttl = ttl }
}

// WithClock injects a time source, for tests.
func WithClock(now func() time.Time) VaultOption {
	return func(s *VaultService) { s.now = now }
}

func NewVaultService(db *sql.DB, log logging.Logger, opts ...VaultOption) *VaultService {
	s := &VaultService{db: db, log: log, ttl: models.TrashTTL, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetAll returns every live record of a table.
func (s *VaultService) GetAll(ctx context.Context, table string) ([]models.StoredRecord, error) {
	return records.NewSQLiteRepository(s.db).GetAll(ctx, table)
}

// Get is a point lookup; nil means absent or tombstoned.
func (s *VaultService) Get(ctx context.Context, table, id string) (*models.StoredRecord, error) {
	return records.NewSQLiteRepository(s.db).Get(ctx, table, id)
}

// Save upserts one record as pending and appends the matching insert or
// update action to the outbox, atomically.
func (s *VaultService) Save(ctx context.Context, table, id string, payload []byte) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recRepo := records.NewSQLiteRepository(tx)

		existing, err := recRepo.Get(ctx, table, id)
		if err != nil {
			return err
		}
		action := models.ActionInsert
		if existing != nil {
			action = models.ActionUpdate
		}

		if err := recRepo.Put(ctx, table, id, payload, models.SyncStatusPending); err != nil {
			return err
		}
		return s.append(ctx, tx, table, action, payload)
	})
}

// SaveMany bulk-upserts as pending in a single transaction; either all
// records and their outbox entries land, or none do.
func (s *VaultService) SaveMany(ctx context.Context, table string, docs []models.Document) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recRepo := records.NewSQLiteRepository(tx)
		for _, d := range docs {
			existing, err := recRepo.Get(ctx, table, d.ID)
			if err != nil {
				return err
			}
			action := models.ActionInsert
			if existing != nil {
				action = models.ActionUpdate
			}
			if err := recRepo.Put(ctx, table, d.ID, d.Data, models.SyncStatusPending); err != nil {
				return err
			}
			if err := s.append(ctx, tx, table, action, d.Data); err != nil {
				return err
			}
		}
		return nil
	})
}

// ImportMany loads mirror-restored documents as pending without touching
// the outbox: the pending status alone marks them for the next full sync.
func (s *VaultService) ImportMany(ctx context.Context, table string, docs []models.Document) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		return records.NewSQLiteRepository(tx).PutMany(ctx, table, docs, models.SyncStatusPending)
	})
}

// Trash soft-deletes one record: in a single transaction it copies the
// payload into the recovery bin, tombstones the record and appends a delete
// action to the outbox. Returns nil when the record does not exist.
func (s *VaultService) Trash(ctx context.Context, table, id string) (*models.TrashEntry, error) {
	var entry *models.TrashEntry

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		recRepo := records.NewSQLiteRepository(tx)

		rec, err := recRepo.Get(ctx, table, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return nil
		}

		now := s.now()
		e := models.TrashEntry{
			ID:         models.TrashID(table, id, now),
			Table:      table,
			OriginalID: id,
			Payload:    rec.Payload,
			DeletedAt:  now,
			ExpiresAt:  now.Add(s.ttl),
		}
		if err := trash.NewSQLiteRepository(tx).Insert(ctx, e); err != nil {
			return err
		}

		ok, err := recRepo.Tombstone(ctx, table, id, now)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("%w: record %s/%s vanished mid-trash", models.ErrStorage, table, id)
		}

		data, err := json.Marshal(map[string]string{"id": id})
		if err != nil {
			return err
		}
		if err := s.append(ctx, tx, table, models.ActionDelete, data); err != nil {
			return err
		}

		entry = &e
		return nil
	})
	if err != nil {
		return nil, err
	}
	if entry != nil {
		s.log.Debug(ctx, "record trashed", "table", table, "id", id, "expires_at", entry.ExpiresAt)
	}
	return entry, nil
}

// GetTrash lists the recovery bin entries still inside their window.
func (s *VaultService) GetTrash(ctx context.Context) ([]models.TrashEntry, error) {
	return trash.NewSQLiteRepository(s.db).List(ctx, s.now())
}

// RestoreFromTrash re-inserts the original payload into its table as
// pending, appends an insert action and removes the trash entry, all in one
// transaction. Returns nil when the entry no longer exists (expired, purged
// or already restored); a second restore of the same id fails soft.
func (s *VaultService) RestoreFromTrash(ctx context.Context, trashID string) (*Restored, error) {
	var restored *Restored

	err := dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		trashRepo := trash.NewSQLiteRepository(tx)

		e, err := trashRepo.Get(ctx, trashID, s.now())
		if err != nil {
			return err
		}
		if e == nil {
			return nil
		}

		if err := records.NewSQLiteRepository(tx).Put(ctx, e.Table, e.OriginalID, e.Payload, models.SyncStatusPending); err != nil {
			return err
		}
		if err := s.append(ctx, tx, e.Table, models.ActionInsert, e.Payload); err != nil {
			return err
		}
		if _, err := trashRepo.Delete(ctx, trashID); err != nil {
			return err
		}

		restored = &Restored{Table: e.Table, Payload: e.Payload}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return restored, nil
}

// CleanExpiredTrash permanently removes expired recovery-bin entries.
// It deliberately leaves the underlying record tombstones alone; see
// PurgeTombstones for that separate concern.
func (s *VaultService) CleanExpiredTrash(ctx context.Context) (int64, error) {
	n, err := trash.NewSQLiteRepository(s.db).DeleteExpired(ctx, s.now())
	if err != nil {
		return 0, err
	}
	if n > 0 {
		s.log.Info(ctx, "expired trash swept", "count", n)
	}
	return n, nil
}

// PurgeTombstones physically removes record tombstones older than the trash
// window, so dead storage does not grow without bound.
func (s *VaultService) PurgeTombstones(ctx context.Context) (int64, error) {
	return records.NewSQLiteRepository(s.db).PurgeTombstones(ctx, s.now().Add(-s.ttl))
}

// Outbox returns the pending actions oldest-first.
func (s *VaultService) Outbox(ctx context.Context) ([]models.PendingAction, error) {
	return outbox.NewSQLiteRepository(s.db).List(ctx)
}

// OutboxCount returns the number of pending actions.
func (s *VaultService) OutboxCount(ctx context.Context) (int, error) {
	return outbox.NewSQLiteRepository(s.db).Count(ctx)
}

// PendingIDs returns every record id with unsynced mutations.
func (s *VaultService) PendingIDs(ctx context.Context) (map[string]struct{}, error) {
	return outbox.NewSQLiteRepository(s.db).PendingIDs(ctx)
}

// Clear wipes one table. Destructive resets only.
func (s *VaultService) Clear(ctx context.Context, table string) error {
	return records.NewSQLiteRepository(s.db).Clear(ctx, table)
}

func (s *VaultService) append(ctx context.Context, tx dbx.DBTX, table string, action models.ActionType, data []byte) error {
	return outbox.NewSQLiteRepository(tx).Append(ctx, models.PendingAction{
		ID:        uuid.NewString(),
		Table:     table,
		Action:    action,
		Data:      data,
		Timestamp: s.now(),
	})
}
