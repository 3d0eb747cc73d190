package models

import (
	"encoding/json"
	"time"
)

// ActionType names the mutation recorded in a pending action.
type ActionType string

const (
	ActionInsert ActionType = "insert"
	ActionUpdate ActionType = "update"
	ActionDelete ActionType = "delete"
)

// PendingAction is one immutable entry of the outbox. Timestamp order is
// the replay order; entries are only ever appended and later removed once
// the remote backend confirms them.
type PendingAction struct {
	ID        string
	Table     string
	Action    ActionType
	Data      json.RawMessage
	Timestamp time.Time
}

// RecordID extracts the id of the record the action refers to from its
// payload. Returns "" when the payload carries no id.
func (a PendingAction) RecordID() string {
	var probe struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(a.Data, &probe); err != nil {
		return ""
	}
	return probe.ID
}
