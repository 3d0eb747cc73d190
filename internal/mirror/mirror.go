// Package mirror exports the vault's live records to plain JSON snapshots
// and loads them back. A snapshot is one document collection per logical
// table; sync metadata deliberately stays behind, so a mirror restored on
// another device re-enters as pending local data.
package mirror

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/models"
)

// Destination is one place snapshots live: a local directory or an S3
// bucket. Read returns nil with no error when the named snapshot does not
// exist.
type Destination interface {
	Write(ctx context.Context, name string, data []byte) error
	Read(ctx context.Context, name string) ([]byte, error)
}

// Snapshot is the serialized form of one table's live records.
type Snapshot struct {
	Table      string            `json:"table"`
	ExportedAt time.Time         `json:"exported_at"`
	Documents  []models.Document `json:"documents"`
}

// Store is the slice of the vault the mirror needs.
type Store interface {
	GetAll(ctx context.Context, table string) ([]models.StoredRecord, error)
	ImportMany(ctx context.Context, table string, docs []models.Document) error
}

// Mirror moves full snapshots between a vault and a destination.
type Mirror struct {
	store Store
	dest  Destination
	log   logging.Logger
	now   func() time.Time
}

func New(store Store, dest Destination, log logging.Logger) *Mirror {
	return &Mirror{store: store, dest: dest, log: log, now: time.Now}
}

func snapshotName(table string) string {
	return table + ".json"
}

// Export writes one snapshot per logical table and returns the number of
// documents exported. Tombstoned records never leave the vault, so a mirror
// only ever carries live data.
func (m *Mirror) Export(ctx context.Context) (int, error) {
	total := 0
	for _, table := range models.Tables {
		recs, err := m.store.GetAll(ctx, table)
		if err != nil {
			return total, err
		}

		docs := make([]models.Document, 0, len(recs))
		for _, r := range recs {
			docs = append(docs, models.Document{ID: r.ID, Data: r.Payload})
		}

		snap := Snapshot{Table: table, ExportedAt: m.now(), Documents: docs}
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return total, err
		}
		if err := m.dest.Write(ctx, snapshotName(table), data); err != nil {
			return total, fmt.Errorf("write snapshot %s: %w", table, err)
		}
		total += len(docs)
	}

	m.log.Info(ctx, "mirror exported", "documents", total)
	return total, nil
}

// Import reads every present snapshot and loads its documents as pending
// records. Missing snapshots are skipped; a partially mirrored destination
// restores what it has.
func (m *Mirror) Import(ctx context.Context) (int, error) {
	total := 0
	for _, table := range models.Tables {
		data, err := m.dest.Read(ctx, snapshotName(table))
		if err != nil {
			return total, fmt.Errorf("read snapshot %s: %w", table, err)
		}
		if data == nil {
			continue
		}

		var snap Snapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return total, fmt.Errorf("decode snapshot %s: %w", table, err)
		}
		if len(snap.Documents) == 0 {
			continue
		}

		if err := m.store.ImportMany(ctx, table, snap.Documents); err != nil {
			return total, err
		}
		total += len(snap.Documents)
	}

	m.log.Info(ctx, "mirror imported", "documents", total)
	return total, nil
}
