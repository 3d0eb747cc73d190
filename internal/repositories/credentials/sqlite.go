// Package credentials implements the device-global offline credential vault.
package credentials

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

func (r *SQLiteRepository) Save(ctx context.Context, c models.StoredCredentials) error {
	query := `INSERT INTO credentials (identifier, hashed_password, user_id, display_name, last_login)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(identifier) DO UPDATE SET hashed_password = excluded.hashed_password,
			user_id = excluded.user_id,
			display_name = excluded.display_name,
			last_login = excluded.last_login
	`
	_, err := r.db.ExecContext(ctx, query,
		c.Identifier, c.HashedPassword, c.UserID, c.DisplayName, c.LastLogin.UTC().UnixNano())
	if err != nil {
		return fmt.Errorf("%w: save credentials: %v", models.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Get(ctx context.Context, identifier string) (*models.StoredCredentials, error) {
	query := `SELECT identifier, hashed_password, user_id, display_name, last_login
		FROM credentials WHERE identifier = ?`
	row := r.db.QueryRowContext(ctx, query, identifier)

	var c models.StoredCredentials
	var lastLogin int64
	if err := row.Scan(&c.Identifier, &c.HashedPassword, &c.UserID, &c.DisplayName, &lastLogin); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("%w: get credentials: %v", models.ErrStorage, err)
	}
	c.LastLogin = time.Unix(0, lastLogin).UTC()
	return &c, nil
}

func (r *SQLiteRepository) Touch(ctx context.Context, identifier string, at time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE credentials SET last_login = ? WHERE identifier = ?`, at.UTC().UnixNano(), identifier)
	if err != nil {
		return fmt.Errorf("%w: touch credentials: %v", models.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, identifier string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials WHERE identifier = ?`, identifier)
	if err != nil {
		return fmt.Errorf("%w: delete credentials: %v", models.ErrStorage, err)
	}
	return nil
}

func (r *SQLiteRepository) Clear(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM credentials`)
	if err != nil {
		return fmt.Errorf("%w: clear credentials: %v", models.ErrStorage, err)
	}
	return nil
}
