package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/strava-import/internal/domain"
)

// Child collections are always written as a whole set for one activity:
// delete-then-insert inside a single transaction, so a re-import supersedes
// whatever was stored before instead of accumulating.

// StreamStore persists time-series streams.
type StreamStore struct {
	pool *pgxpool.Pool
}

// NewStreamStore constructs a StreamStore.
func NewStreamStore(pool *pgxpool.Pool) *StreamStore {
	return &StreamStore{pool: pool}
}

// Save replaces all stored streams for id.
func (s *StreamStore) Save(ctx context.Context, id domain.ActivityID, streams domain.StreamSet) error {
	return replaceChildren(ctx, s.pool, id, `DELETE FROM activity_streams WHERE activity_id=$1`, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO activity_streams (activity_id, stream_type, series_type, original_size, resolution, payload)
            VALUES ($1,$2,$3,$4,$5,$6)`
		for streamType, stream := range streams {
			if _, err := tx.Exec(ctx, stmt, int64(id), streamType, stream.SeriesType, stream.OriginalSize, stream.Resolution, []byte(stream.Data)); err != nil {
				return err
			}
		}
		return nil
	})
}

// LapStore persists laps.
type LapStore struct {
	pool *pgxpool.Pool
}

// NewLapStore constructs a LapStore.
func NewLapStore(pool *pgxpool.Pool) *LapStore {
	return &LapStore{pool: pool}
}

// Save replaces all stored laps for id.
func (s *LapStore) Save(ctx context.Context, id domain.ActivityID, laps []domain.Lap) error {
	return replaceChildren(ctx, s.pool, id, `DELETE FROM activity_laps WHERE activity_id=$1`, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO activity_laps (lap_id, activity_id, name, lap_index, start_date, elapsed_time_s, moving_time_s, distance_m, average_speed, max_speed)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`
		for _, lap := range laps {
			if _, err := tx.Exec(ctx, stmt, lap.ID, int64(id), lap.Name, lap.LapIndex, lap.StartDate, lap.ElapsedTime, lap.MovingTime, lap.Distance, lap.AverageSpeed, lap.MaxSpeed); err != nil {
				return err
			}
		}
		return nil
	})
}

// SegmentEffortStore persists segment efforts.
type SegmentEffortStore struct {
	pool *pgxpool.Pool
}

// NewSegmentEffortStore constructs a SegmentEffortStore.
func NewSegmentEffortStore(pool *pgxpool.Pool) *SegmentEffortStore {
	return &SegmentEffortStore{pool: pool}
}

// Save replaces all stored segment efforts for id. The delete inside the same
// transaction keeps the no-duplicate-accumulation invariant even when the
// asynchronous invalidation consumer lags behind.
func (s *SegmentEffortStore) Save(ctx context.Context, id domain.ActivityID, efforts []domain.SegmentEffort) error {
	return replaceChildren(ctx, s.pool, id, `DELETE FROM activity_segment_efforts WHERE activity_id=$1`, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO activity_segment_efforts (effort_id, activity_id, segment_id, segment_name, name, start_date, elapsed_time_s, moving_time_s, distance_m)
            VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
		for _, effort := range efforts {
			if _, err := tx.Exec(ctx, stmt, effort.ID, int64(id), effort.Segment.ID, effort.Segment.Name, effort.Name, effort.StartDate, effort.ElapsedTime, effort.MovingTime, effort.Distance); err != nil {
				return err
			}
		}
		return nil
	})
}

// PhotoStore persists photo references.
type PhotoStore struct {
	pool *pgxpool.Pool
}

// NewPhotoStore constructs a PhotoStore.
func NewPhotoStore(pool *pgxpool.Pool) *PhotoStore {
	return &PhotoStore{pool: pool}
}

// Save replaces all stored photo references for id.
func (s *PhotoStore) Save(ctx context.Context, id domain.ActivityID, photos []domain.PhotoRef) error {
	return replaceChildren(ctx, s.pool, id, `DELETE FROM activity_photos WHERE activity_id=$1`, func(tx pgx.Tx) error {
		const stmt = `INSERT INTO activity_photos (activity_id, unique_id, source, urls, created_at)
            VALUES ($1,$2,$3,$4,$5)`
		for _, photo := range photos {
			createdAt := photo.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now().UTC()
			}
			if _, err := tx.Exec(ctx, stmt, int64(id), photo.UniqueID, photo.Source, photo.URLs, createdAt); err != nil {
				return err
			}
		}
		return nil
	})
}

func replaceChildren(ctx context.Context, pool *pgxpool.Pool, id domain.ActivityID, deleteStmt string, insert func(pgx.Tx) error) error {
	tx, err := pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, deleteStmt, int64(id)); err != nil {
		return err
	}
	if err := insert(tx); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
