package models

import (
	"encoding/json"
	"fmt"
	"time"
)

// TrashTTL is the fixed retention window of the recovery bin.
const TrashTTL = 30 * 24 * time.Hour

// TrashEntry is an independent copy of a deleted entity kept in the shared
// recovery bin. It is keyed by a synthetic id so the same logical id can be
// deleted and trashed multiple times over its lifetime.
type TrashEntry struct {
	ID         string
	Table      string
	OriginalID string
	Payload    json.RawMessage
	DeletedAt  time.Time
	ExpiresAt  time.Time
}

// TrashID builds the synthetic key {table, originalId, deletionTime}.
func TrashID(table, originalID string, deletedAt time.Time) string {
	return fmt.Sprintf("%s:%s:%d", table, originalID, deletedAt.UnixNano())
}

// Expired reports whether the entry is past its retention window at now.
func (e TrashEntry) Expired(now time.Time) bool {
	return !e.ExpiresAt.After(now)
}
