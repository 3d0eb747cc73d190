// Package migrations embeds the goose SQL migrations that provision a user
// namespace database (namespace/) and the device-global credentials
// database (credentials/).
package migrations

import "embed"

//go:embed namespace/*.sql credentials/*.sql
var FS embed.FS

// Directories inside FS, passed to goose as the migration root.
const (
	NamespaceDir   = "namespace"
	CredentialsDir = "credentials"
)
