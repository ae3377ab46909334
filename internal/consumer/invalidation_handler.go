package consumer

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"example.com/strava-import/internal/domain"
	"example.com/strava-import/internal/events"
	"example.com/strava-import/internal/observability"
)

type invalidationApplier interface {
	Apply(ctx context.Context, id domain.ActivityID, occurredAt time.Time) (int64, error)
}

// InvalidationHandler applies SegmentEffortsInvalidated events by deleting the
// stale efforts for the activity. Events of any other type are skipped and
// committed; this topic may carry more event types later.
type InvalidationHandler struct {
	store  invalidationApplier
	logger *log.Logger
}

// NewInvalidationHandler constructs a handler backed by the provided store.
func NewInvalidationHandler(store invalidationApplier, logger *log.Logger) *InvalidationHandler {
	if logger == nil {
		logger = log.New(log.Writer(), "[invalidator] ", log.LstdFlags)
	}
	return &InvalidationHandler{store: store, logger: logger}
}

// Handle processes one decoded Kafka message.
func (h *InvalidationHandler) Handle(ctx context.Context, msg Message) error {
	if msg.EventType != events.EventTypeSegmentEffortsInvalidated {
		h.logger.Printf("skipping event_type=%s (offset=%d)", msg.EventType, msg.Offset)
		return nil
	}

	var event events.SegmentEffortsInvalidated
	if err := json.Unmarshal(msg.Payload, &event); err != nil {
		return fmt.Errorf("decoding %s payload: %w", msg.EventType, err)
	}
	if event.ActivityID == 0 {
		return fmt.Errorf("event %s has no activity_id", msg.EventType)
	}

	deleted, err := h.store.Apply(ctx, event.ActivityID, event.OccurredAt)
	if err != nil {
		return fmt.Errorf("invalidating efforts for activity %s: %w", event.ActivityID, err)
	}

	h.logger.Printf("invalidated activity=%s efforts_deleted=%d", event.ActivityID, deleted)
	observability.RecordSegmentEffortsInvalidated(time.Now().UTC())
	return nil
}
