// Package models defines the persistence envelopes of the local store:
// stored records with sync metadata, trash entries, pending outbox actions
// and cached offline credentials.
package models

import (
	"encoding/json"
	"time"
)

// SyncStatus tracks how a locally stored record relates to the remote side.
type SyncStatus string

const (
	// SyncStatusSynced means the record matches what the remote backend holds.
	SyncStatusSynced SyncStatus = "synced"
	// SyncStatusPending means the record carries local changes awaiting replay.
	SyncStatusPending SyncStatus = "pending"
	// SyncStatusConflict is reserved for a replay driver that detects
	// divergent remote edits; the store itself never sets it.
	SyncStatusConflict SyncStatus = "conflict"
)

// StoredRecord wraps one logical entity inside a namespace table.
// Payload is the entity's own JSON; the id is assigned by the caller before
// storage and duplicated in the wrapper for keyed access.
type StoredRecord struct {
	Table        string
	ID           string
	Payload      json.RawMessage
	SyncStatus   SyncStatus
	LastModified time.Time

	// Deleted marks the record as a tombstone. Tombstoned records are
	// excluded from every read path until physically purged.
	Deleted   bool
	DeletedAt time.Time
}

// Document pairs a caller-assigned id with an opaque payload, the unit of
// bulk puts and mirror snapshots.
type Document struct {
	ID   string          `json:"id"`
	Data json.RawMessage `json:"data"`
}
