// Package importer drives the multi-step import of a single Strava activity
// into local storage.
package importer

import (
	"context"
	"errors"
	"log"
	"time"

	"golang.org/x/sync/singleflight"

	"example.com/strava-import/internal/domain"
	"example.com/strava-import/internal/observability"
	"example.com/strava-import/internal/output"
)

// Stores groups the persistence collaborators, each keyed by ActivityID.
type Stores struct {
	Activities     domain.ActivityStore
	Streams        domain.StreamStore
	Laps           domain.LapStore
	SegmentEfforts domain.SegmentEffortStore
	Photos         domain.PhotoStore
}

// Option configures optional behaviour for the Importer.
type Option func(*Importer)

// WithLogger overrides the logger used for structured progress and errors.
func WithLogger(logger *log.Logger) Option {
	return func(imp *Importer) {
		imp.logger = logger
	}
}

// Importer fetches and persists one activity's data in a fixed order:
// metadata, filters, create-vs-update, activity upsert, streams, laps,
// segment efforts, photos. All steps are sequential; later steps depend on
// data fetched earlier, and each step commits durable state.
type Importer struct {
	source  domain.ActivitySource
	stores  Stores
	events  domain.EventSink
	filters []Filter
	logger  *log.Logger

	// group serialises concurrent imports per activity id, so a rapid
	// create-then-update webhook pair cannot interleave steps.
	group singleflight.Group
}

// New constructs an Importer. Filters are evaluated in the order given.
func New(source domain.ActivitySource, stores Stores, events domain.EventSink, filters []Filter, opts ...Option) *Importer {
	imp := &Importer{
		source:  source,
		stores:  stores,
		events:  events,
		filters: filters,
		logger:  log.New(log.Writer(), "[importer] ", log.LstdFlags),
	}
	for _, opt := range opts {
		opt(imp)
	}
	return imp
}

// Import runs one complete import for id. Concurrent calls for the same id
// share a single run and its outcome. Failures are absorbed into the returned
// Outcome; this method never panics across the boundary and never returns an
// error to propagate, because the webhook caller must acknowledge delivery
// regardless.
func (imp *Importer) Import(ctx context.Context, id domain.ActivityID, progress output.Sink) Outcome {
	v, _, _ := imp.group.Do(id.String(), func() (interface{}, error) {
		start := time.Now()
		outcome := imp.run(ctx, id, progress)
		recordOutcome(outcome.Kind, time.Since(start))
		return outcome, nil
	})
	return v.(Outcome)
}

func (imp *Importer) run(ctx context.Context, id domain.ActivityID, progress output.Sink) Outcome {
	progress.Printf("importing single activity: %s", id)

	activity, err := imp.source.FetchActivity(ctx, id)
	if err != nil {
		return imp.finishFetchError(id, "fetch activity", err, progress)
	}

	if reason := firstRejection(imp.filters, id, activity); reason != "" {
		progress.Printf("skipping activity %s: %s", id, reason)
		imp.logger.Printf("activity %s filtered: %s", id, reason)
		return skippedFiltered(reason)
	}

	exists, err := imp.stores.Activities.Exists(ctx, id)
	if err != nil {
		return imp.finishFailure(id, "check existing activity", err, progress)
	}
	if exists {
		progress.Printf("activity %s already exists, updating...", id)
		if err := imp.events.PublishSegmentEffortsInvalidated(ctx, id); err != nil {
			return imp.finishFailure(id, "publish segment efforts invalidated", err, progress)
		}
	}

	if err := imp.stores.Activities.Upsert(ctx, activity); err != nil {
		return imp.finishFailure(id, "save activity", err, progress)
	}

	streams, err := imp.source.FetchStreams(ctx, id)
	if err != nil {
		return imp.finishFetchError(id, "fetch streams", err, progress)
	}
	if err := imp.stores.Streams.Save(ctx, id, streams); err != nil {
		return imp.finishFailure(id, "save streams", err, progress)
	}

	if err := imp.stores.Laps.Save(ctx, id, activity.Laps); err != nil {
		return imp.finishFailure(id, "save laps", err, progress)
	}

	if err := imp.stores.SegmentEfforts.Save(ctx, id, activity.SegmentEfforts); err != nil {
		return imp.finishFailure(id, "save segment efforts", err, progress)
	}

	// Photos are an enhancement, not core data: a failure here is logged and
	// counted but does not undo or fail steps that already committed.
	imp.importPhotos(ctx, id, progress)

	progress.Printf("successfully imported activity: %s", id)
	observability.RecordActivityImported(time.Now().UTC())
	return imported()
}

func (imp *Importer) importPhotos(ctx context.Context, id domain.ActivityID, progress output.Sink) {
	photos, err := imp.source.FetchPhotos(ctx, id)
	if err != nil {
		imp.notePhotoFailure(id, "fetch photos", err, progress)
		return
	}
	if err := imp.stores.Photos.Save(ctx, id, photos); err != nil {
		imp.notePhotoFailure(id, "save photos", err, progress)
	}
}

func (imp *Importer) notePhotoFailure(id domain.ActivityID, step string, err error, progress output.Sink) {
	recordPhotoFailure()
	progress.Printf("activity %s: photos not imported (%s)", id, step)
	imp.logger.Printf("activity %s: %s: %v (photos skipped, import kept)", id, step, err)
}

// finishFetchError classifies an external-source failure: missing or private
// resources are an expected outcome, everything else is a real failure.
func (imp *Importer) finishFetchError(id domain.ActivityID, step string, err error, progress output.Sink) Outcome {
	if errors.Is(err, domain.ErrActivityGone) {
		progress.Printf("activity %s not found or private, skipping", id)
		imp.logger.Printf("activity %s not found or private, skipping", id)
		return skippedNotFound()
	}
	return imp.finishFailure(id, step, err, progress)
}

func (imp *Importer) finishFailure(id domain.ActivityID, step string, err error, progress output.Sink) Outcome {
	progress.Printf("error importing activity %s: %v", id, err)
	imp.logger.Printf("error importing activity %s: %s: %v", id, step, err)
	return failed(step, err)
}
