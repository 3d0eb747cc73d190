package outbox

import (
	"context"

	"github.com/ainarsv/trove/internal/models"
)

// Repository is the ordered, durable log of not-yet-synchronized mutations.
// Entries are append-only: never mutated, never reordered, never coalesced.
type Repository interface {
	// Append records one immutable pending action and returns its id.
	Append(ctx context.Context, a models.PendingAction) error

	// List returns all entries oldest-first. This order is the contract a
	// replay driver must honor.
	List(ctx context.Context) ([]models.PendingAction, error)

	// Remove deletes a single confirmed-synced entry.
	Remove(ctx context.Context, id string) error

	// Clear wipes the whole log (full resync or local reset only).
	Clear(ctx context.Context) error

	// Count returns the number of pending entries.
	Count(ctx context.Context) (int, error)

	// PendingIDs collects every record id referenced by the log, used to
	// badge not-yet-synced items.
	PendingIDs(ctx context.Context) (map[string]struct{}, error)
}
