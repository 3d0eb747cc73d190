package credentials

import (
	"context"
	"time"

	"github.com/ainarsv/trove/internal/models"
)

// Repository stores hashed login credentials in the device-global vault.
// Identifiers are already normalized (lower-cased) by the auth service.
type Repository interface {
	// Save upserts the entry for an identifier, overwriting any prior hash.
	Save(ctx context.Context, c models.StoredCredentials) error

	// Get returns the entry for an identifier, or nil when unknown.
	Get(ctx context.Context, identifier string) (*models.StoredCredentials, error)

	// Touch refreshes the lastLogin timestamp.
	Touch(ctx context.Context, identifier string, at time.Time) error

	// Delete removes one identifier's entry.
	Delete(ctx context.Context, identifier string) error

	// Clear wipes the whole vault.
	Clear(ctx context.Context) error
}
