// Package outbox implements the pending-action log that drives later replay
// of offline mutations against the remote backend.
package outbox

import (
	"context"
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

func (r *SQLiteRepository) Append(ctx context.Context, a models.PendingAction) error {
	models.MustTable(a.Table)

	query := `INSERT INTO outbox (id, tbl, action, data, ts) VALUES (?, ?, ?, ?, ?)`
	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Table, string(a.Action), []byte(a.Data), a.Timestamp.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: append action %s: %v", models.ErrStorage, a.ID, err)
	}
	return nil
}

// List orders by timestamp with rowid as the tie-breaker, so two appends in
// the same nanosecond still replay in insertion order.
func (r *SQLiteRepository) List(ctx context.Context) ([]models.PendingAction, error) {
	query := `SELECT id, tbl, action, data, ts FROM outbox ORDER BY ts, rowid`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: list outbox: %v", models.ErrStorage, err)
	}
	defer rows.Close()

	var result []models.PendingAction
	for rows.Next() {
		var a models.PendingAction
		var action string
		var ts int64
		if err := rows.Scan(&a.ID, &a.Table, &action, &a.Data, &ts); err != nil {
			return nil, err
		}
		a.Action = models.ActionType(action)
		a.Timestamp = time.Unix(0, ts).UTC()
		result = append(result, a)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outbox WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("%w: remove action %s: %v", models.ErrStorage, id, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM outbox`)
	if err != nil {
		return fmt.Errorf("%w: clear outbox: %v", models.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM outbox`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count outbox: %v", models.ErrStorage, err)
	}
	return n, nil
}

func (r *SQLiteRepository) PendingIDs(ctx context.Context) (map[string]struct{}, error) {
	actions, err := r.List(ctx)
	if err != nil {
		return nil, err
	}
	ids := make(map[string]struct{}, len(actions))
	for _, a := range actions {
		if id := a.RecordID(); id != "" {
			ids[id] = struct{}{}
		}
	}
	return ids, nil
}
