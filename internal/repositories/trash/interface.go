package trash

import (
	"context"
	"time"

	"github.com/ainarsv/trove/internal/models"
)

// Repository stores the shared recovery bin. Expiry is evaluated against an
// explicit now so sweeps and reads stay deterministic under test.
type Repository interface {
	// Insert adds one trash entry. The synthetic id must be unique; the
	// same logical record deleted twice yields two distinct entries.
	Insert(ctx context.Context, e models.TrashEntry) error

	// List returns the entries still inside their retention window
	// (expiresAt > now), newest deletion first. Expired-but-unswept
	// entries are filtered out even before a sweep runs.
	List(ctx context.Context, now time.Time) ([]models.TrashEntry, error)

	// Get returns a restorable entry or nil when it is absent or already
	// expired. Expired entries must never be restorable.
	Get(ctx context.Context, id string, now time.Time) (*models.TrashEntry, error)

	// Delete removes one entry and reports whether it existed.
	Delete(ctx context.Context, id string) (bool, error)

	// DeleteExpired permanently removes every entry with expiresAt <= now
	// and returns the count.
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
