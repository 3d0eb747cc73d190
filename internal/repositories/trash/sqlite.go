// Package trash implements the time-boxed recovery bin backing soft deletes.
package trash

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/ainarsv/trove/internal/dbx"
	"github.com/ainarsv/trove/internal/models"
)

type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) Insert(ctx context.Context, e models.TrashEntry) error {
	query := `INSERT INTO trash (id, tbl, original_id, payload, deleted_at, expires_at)
		VALUES (?, ?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		e.ID, e.Table, e.OriginalID, []byte(e.Payload),
		e.DeletedAt.UTC().UnixNano(), e.ExpiresAt.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: insert trash entry %s: %v", models.ErrStorage, e.ID, err)
	}
	return nil
}

func (r *SQLiteRepository) List(ctx context.Context, now time.Time) ([]models.TrashEntry, error) {
	query := `SELECT id, tbl, original_id, payload, deleted_at, expires_at FROM trash
		WHERE expires_at > ? ORDER BY deleted_at DESC`
	rows, err := r.db.QueryContext(ctx, query, now.UTC().UnixNano())
	if err != nil {
		return nil, fmt.Errorf("%w: list trash: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.TrashEntry
	for rows.Next() {
		e, err := scanEntry(rows.Scan)
		if err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Get(ctx context.Context, id string, now time.Time) (*models.TrashEntry, error) {
	query := `SELECT id, tbl, original_id, payload, deleted_at, expires_at FROM trash
		WHERE id = ? AND expires_at > ?`
	row := r.db.QueryRowContext(ctx, query, id, now.UTC().UnixNano())

	e, err := scanEntry(row.Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get trash entry %s: %v", models.ErrStorage, id, err)
	}
	return &e, nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trash WHERE id = ?`, id)
	if err != nil {
		return false, fmt.Errorf("%w: delete trash entry %s: %v", models.ErrStorage, id, err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return ra == 1, nil
}

func (r *SQLiteRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM trash WHERE expires_at <= ?`, now.UTC().UnixNano())
	if err != nil {
		return 0, fmt.Errorf("%w: sweep trash: %v", models.ErrStorage, err)
	}
	return res.RowsAffected()
}

func scanEntry(scan func(dest ...any) error) (models.TrashEntry, error) {
	var e models.TrashEntry
	var deletedAt, expiresAt int64
	if err := scan(&e.ID, &e.Table, &e.OriginalID, &e.Payload, &deletedAt, &expiresAt); err != nil {
		return models.TrashEntry{}, err
	}
	e.DeletedAt = time.Unix(0, deletedAt).UTC()
	e.ExpiresAt = time.Unix(0, expiresAt).UTC()
	return e, nil
}
