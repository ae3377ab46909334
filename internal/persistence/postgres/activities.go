// Package postgres provides Postgres-backed stores for imported activities
// and their child collections.
package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strava-import/internal/domain"
)

// ActivityStore persists activity metadata keyed by the Strava activity id.
type ActivityStore struct {
	pool *pgxpool.Pool
}

// NewActivityStore constructs an ActivityStore.
func NewActivityStore(pool *pgxpool.Pool) *ActivityStore {
	return &ActivityStore{pool: pool}
}

// Exists reports whether an activity record is already stored for id.
func (s *ActivityStore) Exists(ctx context.Context, id domain.ActivityID) (bool, error) {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return false, err
	}
	defer conn.Release()

	var one int
	err = conn.QueryRow(ctx, `SELECT 1 FROM activities WHERE activity_id=$1`, int64(id)).Scan(&one)
	if errors.Is(err, pgx.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Upsert inserts the activity record or overwrites an existing one keyed by
// the same id.
func (s *ActivityStore) Upsert(ctx context.Context, activity *domain.RemoteActivity) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	const stmt = `INSERT INTO activities
        (activity_id, name, sport_type, visibility, start_date, start_date_local, distance_m, moving_time_s, elapsed_time_s, total_photo_count, gear_id, imported_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$12)
        ON CONFLICT (activity_id) DO UPDATE SET
            name = EXCLUDED.name,
            sport_type = EXCLUDED.sport_type,
            visibility = EXCLUDED.visibility,
            start_date = EXCLUDED.start_date,
            start_date_local = EXCLUDED.start_date_local,
            distance_m = EXCLUDED.distance_m,
            moving_time_s = EXCLUDED.moving_time_s,
            elapsed_time_s = EXCLUDED.elapsed_time_s,
            total_photo_count = EXCLUDED.total_photo_count,
            gear_id = EXCLUDED.gear_id,
            updated_at = EXCLUDED.updated_at`

	_, err = conn.Exec(ctx, stmt,
		int64(activity.ID),
		activity.Name,
		activity.SportType,
		string(activity.Visibility),
		activity.StartDate,
		activity.StartDateLocal,
		activity.Distance,
		activity.MovingTime,
		activity.ElapsedTime,
		activity.TotalPhotoCount,
		nullIfEmpty(activity.GearID),
		time.Now().UTC(),
	)
	return err
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
