package domain

import (
	"context"
	"errors"
)

// ErrActivityGone indicates the remote resource is missing or inaccessible:
// deleted, made private, or never existed. Source implementations wrap this
// sentinel so the importer can treat it as an expected outcome.
var ErrActivityGone = errors.New("activity not found or not accessible")

// ActivitySource fetches activity data from Strava. Implementations report
// missing or private resources through errors the importer can classify.
type ActivitySource interface {
	FetchActivity(ctx context.Context, id ActivityID) (*RemoteActivity, error)
	FetchStreams(ctx context.Context, id ActivityID) (StreamSet, error)
	FetchPhotos(ctx context.Context, id ActivityID) ([]PhotoRef, error)
}

// ActivityStore persists activity metadata keyed by ActivityID.
type ActivityStore interface {
	Exists(ctx context.Context, id ActivityID) (bool, error)
	Upsert(ctx context.Context, activity *RemoteActivity) error
}

// StreamStore persists time-series streams for one activity, replacing any
// previously stored set.
type StreamStore interface {
	Save(ctx context.Context, id ActivityID, streams StreamSet) error
}

// LapStore persists laps for one activity, replacing any previously stored set.
type LapStore interface {
	Save(ctx context.Context, id ActivityID, laps []Lap) error
}

// SegmentEffortStore persists segment efforts for one activity. Save must
// fully supersede previously stored efforts for the id: a re-import never
// accumulates duplicates.
type SegmentEffortStore interface {
	Save(ctx context.Context, id ActivityID, efforts []SegmentEffort) error
}

// PhotoStore persists photo references for one activity.
type PhotoStore interface {
	Save(ctx context.Context, id ActivityID, photos []PhotoRef) error
}

// EventSink publishes domain events for downstream collaborators.
type EventSink interface {
	PublishSegmentEffortsInvalidated(ctx context.Context, id ActivityID) error
}
