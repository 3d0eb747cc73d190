package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/ainarsv/trove/internal/dbx"
	"github.com/ainarsv/trove/internal/logging"
	"github.com/ainarsv/trove/internal/models"
	"github.com/ainarsv/trove/internal/remote"
	"github.com/ainarsv/trove/internal/repositories/outbox"
	"github.com/ainarsv/trove/internal/repositories/records"
)

// SyncService drains the outbox against the remote backend. It is the
// single consumer of the log: entries are replayed strictly oldest-first,
// one remote call per pending action, and only a confirmed call removes its
// entry. A persistent failure stops the drain so order is never violated;
// the unconfirmed suffix simply replays on the next run.
type SyncService struct {
	db     *sql.DB
	client remote.Client
	log    logging.Logger

	maxRetries uint64
	baseDelay  time.Duration
}

type SyncOption func(*SyncService)

// WithRetryPolicy tunes the per-action backoff used for transient
// backend unavailability.
func WithRetryPolicy(maxRetries uint64, baseDelay time.Duration) SyncOption {
	return func(s *SyncService) {
		s.maxRetries = maxRetries
		s.baseDelay = baseDelay
	}
}

func NewSyncService(db *sql.DB, client remote.Client, log logging.Logger, opts ...SyncOption) *SyncService {
	s := &SyncService{db: db, client: client, log: log, maxRetries: 3, baseDelay: 500 * time.Millisecond}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Drain replays every pending action in order and returns how many were
// confirmed. On failure it returns the count replayed so far together with
// the error; already-confirmed entries stay removed.
func (s *SyncService) Drain(ctx context.Context) (int, error) {
	actions, err := outbox.NewSQLiteRepository(s.db).List(ctx)
	if err != nil {
		return 0, err
	}

	done := 0
	for _, a := range actions {
		backoff := retry.WithMaxRetries(s.maxRetries, retry.NewFibonacci(s.baseDelay))
		err := retry.Do(ctx, backoff, func(ctx context.Context) error {
			err := s.apply(ctx, a)
			if errors.Is(err, remote.ErrUnavailable) {
				return retry.RetryableError(err)
			}
			return err
		})
		if err != nil {
			s.log.Warn(ctx, "replay stopped", "action", a.ID, "table", a.Table, "done", done, "err", err)
			return done, fmt.Errorf("replay action %s: %w", a.ID, err)
		}

		if err := s.confirm(ctx, a); err != nil {
			return done, err
		}
		done++
	}

	if done > 0 {
		s.log.Info(ctx, "outbox drained", "count", done)
	}
	return done, nil
}

// apply maps one pending action 1:1 onto a remote call.
func (s *SyncService) apply(ctx context.Context, a models.PendingAction) error {
	switch a.Action {
	case models.ActionInsert:
		return s.client.Insert(ctx, a.Table, a.Data)
	case models.ActionUpdate:
		return s.client.Update(ctx, a.Table, a.Data)
	case models.ActionDelete:
		return s.client.Delete(ctx, a.Table, a.RecordID())
	default:
		return fmt.Errorf("unknown action type %q", a.Action)
	}
}

// confirm removes the replayed entry and flips the record to synced in one
// transaction.
func (s *SyncService) confirm(ctx context.Context, a models.PendingAction) error {
	return dbx.WithTx(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		if err := outbox.NewSQLiteRepository(tx).Remove(ctx, a.ID); err != nil {
			return err
		}
		if id := a.RecordID(); id != "" {
			return records.NewSQLiteRepository(tx).MarkSynced(ctx, a.Table, id)
		}
		return nil
	})
}
