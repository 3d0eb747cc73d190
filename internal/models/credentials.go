package models

import "time"

// StoredCredentials caches a verifiable local credential so authentication
// can succeed while the remote identity service is unreachable. One entry
// per normalized (lower-cased) login identifier, global to the device.
type StoredCredentials struct {
	Identifier     string
	HashedPassword string
	UserID         string
	DisplayName    string
	LastLogin      time.Time
}
