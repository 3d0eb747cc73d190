// Package records implements the generic per-table record store over a
// single SQLite `records` relation keyed by (tbl, id). Every record is
// wrapped with sync metadata and a tombstone flag.
package records

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ainarsv/trove/internal/dbx"
	"github.com/ainarsv/trove/internal/models"
)

// SQLiteRepository implements Repository over a dbx.DBTX, so it runs either
// standalone or inside a caller-owned transaction.
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Put(ctx context.Context, table, id string, payload []byte, status models.SyncStatus) error {
	models.MustTable(table)

	query := `INSERT INTO records (tbl, id, payload, sync_status, last_modified, deleted, deleted_at)
		VALUES (?, ?, ?, ?, ?, 0, NULL)
		ON CONFLICT(tbl, id) DO UPDATE SET payload = excluded.payload,
			sync_status = excluded.sync_status,
			last_modified = excluded.last_modified,
			deleted = 0,
			deleted_at = NULL
	`
	_, err := r.db.ExecContext(ctx, query, table, id, payload, string(status), time.Now().UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: upsert %s/%s: %v", models.ErrStorage, table, id, err)
	}
	return nil
}

func (r *SQLiteRepository) PutMany(ctx context.Context, table string, docs []models.Document, status models.SyncStatus) error {
	for _, d := range docs {
		if err := r.Put(ctx, table, d.ID, d.Data, status); err != nil {
			return err
		}
	}
	return nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context, table string) ([]models.StoredRecord, error) {
	models.MustTable(table)

	query := `SELECT id, payload, sync_status, last_modified FROM records WHERE tbl = ? AND deleted = 0`
	rows, err := r.db.QueryContext(ctx, query, table)
	if err != nil {
		return nil, fmt.Errorf("%w: select %s: %v", models.ErrStorage, table, err)
	}
	defer rows.Close()

	var result []models.StoredRecord
	for rows.Next() {
		rec := models.StoredRecord{Table: table}
		var status string
		var modified int64
		if err := rows.Scan(&rec.ID, &rec.Payload, &status, &modified); err != nil {
			return nil, err
		}
		rec.SyncStatus = models.SyncStatus(status)
		rec.LastModified = time.Unix(0, modified).UTC()
		result = append(result, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, table, id string) (*models.StoredRecord, error) {
	models.MustTable(table)

	query := `SELECT payload, sync_status, last_modified FROM records WHERE tbl = ? AND id = ? AND deleted = 0`
	row := r.db.QueryRowContext(ctx, query, table, id)

	rec := &models.StoredRecord{Table: table, ID: id}
	var status string
	var modified int64
	if err := row.Scan(&rec.Payload, &status, &modified); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get %s/%s: %v", models.ErrStorage, table, id, err)
	}
	rec.SyncStatus = models.SyncStatus(status)
	rec.LastModified = time.Unix(0, modified).UTC()
	return rec, nil
}

func (r *SQLiteRepository) Tombstone(ctx context.Context, table, id string, at time.Time) (bool, error) {
	models.MustTable(table)

	query := `UPDATE records SET deleted = 1, deleted_at = ?, sync_status = ?, last_modified = ?
		WHERE tbl = ? AND id = ? AND deleted = 0`
	res, err := r.db.ExecContext(ctx, query,
		at.UTC().UnixNano(), string(models.SyncStatusPending), at.UTC().UnixNano(), table, id)
	if err != nil {
		return false, fmt.Errorf("%w: tombstone %s/%s: %v", models.ErrStorage, table, id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) MarkSynced(ctx context.Context, table, id string) error {
	models.MustTable(table)

	_, err := r.db.ExecContext(ctx,
		`UPDATE records SET sync_status = ? WHERE tbl = ? AND id = ?`,
		string(models.SyncStatusSynced), table, id)
	if err != nil {
		return fmt.Errorf("%w: mark synced %s/%s: %v", models.ErrStorage, table, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, table, id string) error {
	models.MustTable(table)

	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE tbl = ? AND id = ?`, table, id)
	if err != nil {
		return fmt.Errorf("%w: delete %s/%s: %v", models.ErrStorage, table, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context, table string) error {
	models.MustTable(table)

	_, err := r.db.ExecContext(ctx, `DELETE FROM records WHERE tbl = ?`, table)
	if err != nil {
		return fmt.Errorf("%w: clear %s: %v", models.ErrStorage, table, err)
	}
	return nil
}

func (r *SQLiteRepository) PurgeTombstones(ctx context.Context, cutoff time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM records WHERE deleted = 1 AND deleted_at <= ?`, cutoff.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("%w: purge tombstones: %v", models.ErrStorage, err)
	}
	return res.RowsAffected()
}
