package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strava-import/internal/domain"
)

// InvalidationStore applies SegmentEffortsInvalidated events: it drops the
// stale efforts for an activity and records an audit row in the same
// transaction, so the delete and its audit trail cannot diverge.
type InvalidationStore struct {
	pool *pgxpool.Pool
}

// NewInvalidationStore constructs an InvalidationStore.
func NewInvalidationStore(pool *pgxpool.Pool) *InvalidationStore {
	return &InvalidationStore{pool: pool}
}

// Apply deletes all segment efforts stored for id and writes an audit row.
// It returns the number of efforts deleted.
func (s *InvalidationStore) Apply(ctx context.Context, id domain.ActivityID, occurredAt time.Time) (int64, error) {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return 0, err
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM activity_segment_efforts WHERE activity_id=$1`, int64(id))
	if err != nil {
		return 0, err
	}
	deleted := tag.RowsAffected()

	if _, err := tx.Exec(ctx,
		`INSERT INTO segment_effort_invalidations (activity_id, efforts_deleted, occurred_at, applied_at)
         VALUES ($1,$2,$3,$4)`,
		int64(id), deleted, occurredAt, time.Now().UTC(),
	); err != nil {
		return 0, err
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, err
	}
	return deleted, nil
}
