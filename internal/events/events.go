// Package events publishes domain events to Kafka using Schema Registry framing.
package events

import (
	"time"

	"example.com/strava-import/internal/domain"
)

// SegmentEffortsInvalidated signals that the segment efforts persisted for an
// activity are stale and must be rebuilt from the freshly imported set.
type SegmentEffortsInvalidated struct {
	ActivityID domain.ActivityID `json:"activity_id"`
	OccurredAt time.Time         `json:"occurred_at"`
}

// EventTypeSegmentEffortsInvalidated is the event_type header value.
const EventTypeSegmentEffortsInvalidated = "activity.segment_efforts_invalidated"

const segmentEffortsInvalidatedSchema = `{
  "type": "object",
  "title": "SegmentEffortsInvalidated",
  "properties": {
    "activity_id": {"type": "integer"},
    "occurred_at": {"type": "string", "format": "date-time"}
  },
  "required": ["activity_id", "occurred_at"],
  "additionalProperties": false
}`
