// Package remote defines the contract of the remote backend the sync driver
// replays against, plus the default HTTP transport. Everything above this
// package consumes the Client interface only.
package remote

import "context"

// AuthResult is what a successful online login yields.
type AuthResult struct {
	UserID      string
	DisplayName string
	AccessToken string
}

// Client is the conventional per-table CRUD surface of the remote backend,
// keyed by the same id scheme used locally, plus the identity operations the
// auth service needs.
type Client interface {
	// Login authenticates against the remote identity service.
	Login(ctx context.Context, identifier string, secret []byte) (*AuthResult, error)

	// Register creates a remote account.
	Register(ctx context.Context, identifier string, secret []byte, displayName string) error

	// Ping checks backend reachability.
	Ping(ctx context.Context) error

	// Insert creates a record remotely. data is the full entity payload.
	Insert(ctx context.Context, table string, data []byte) error

	// Update replaces a record remotely.
	Update(ctx context.Context, table string, data []byte) error

	// Delete removes a record remotely by id.
	Delete(ctx context.Context, table, id string) error

	// Close releases transport resources.
	Close() error
}
