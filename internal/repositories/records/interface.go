package records

import (
	"context"
	"time"

	"github.com/ainarsv/trove/internal/models"
)

// Repository is the generic per-table CRUD surface of the record store.
// All reads exclude tombstoned records; absence is reported as nil, not an
// error. The table argument must be one of the fixed logical tables.
type Repository interface {
	// GetAll returns every non-tombstoned record of a table, unordered.
	GetAll(ctx context.Context, table string) ([]models.StoredRecord, error)

	// Get is a point lookup. It returns nil both when the record is absent
	// and when it is tombstoned; the two are indistinguishable by design.
	Get(ctx context.Context, table, id string) (*models.StoredRecord, error)

	// Put upserts by id, refreshes lastModified and clears any tombstone.
	Put(ctx context.Context, table, id string, payload []byte, status models.SyncStatus) error

	// PutMany is the bulk variant of Put. Run it inside a transaction when
	// all-or-nothing semantics are required.
	PutMany(ctx context.Context, table string, docs []models.Document, status models.SyncStatus) error

	// Tombstone marks a record deleted at the given time and flips it to
	// pending. Reports whether a live record was actually tombstoned.
	Tombstone(ctx context.Context, table, id string, at time.Time) (bool, error)

	// MarkSynced flips a record's sync status to synced.
	MarkSynced(ctx context.Context, table, id string) error

	// Delete physically removes the record wrapper, tombstoned or not.
	// Used only by purge paths, never by user-facing deletes.
	Delete(ctx context.Context, table, id string) error

	// Clear wipes a table entirely. Destructive resets only.
	Clear(ctx context.Context, table string) error

	// PurgeTombstones physically removes tombstones older than cutoff and
	// returns how many rows went away.
	PurgeTombstones(ctx context.Context, cutoff time.Time) (int64, error)
}
