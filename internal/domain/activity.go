// Package domain defines the activity import model and the collaborator
// contracts the orchestration pipeline is built against.
package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ActivityID identifies an activity in Strava's namespace. The same value is
// used as the local primary key. Its canonical string form is the unprefixed
// decimal representation, which is what logs and the skip-list filter match on.
type ActivityID int64

// ParseActivityID parses the canonical decimal form.
func ParseActivityID(raw string) (ActivityID, error) {
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid activity id %q: %w", raw, err)
	}
	return ActivityID(n), nil
}

func (id ActivityID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Visibility is Strava's audience setting on an activity.
type Visibility string

const (
	VisibilityEveryone  Visibility = "everyone"
	VisibilityFollowers Visibility = "followers_only"
	VisibilityOnlyMe    Visibility = "only_me"
)

// RemoteActivity is Strava's representation of an activity, fetched fresh on
// every import and discarded afterwards. Laps and segment efforts arrive
// embedded; streams and photos require separate fetches.
type RemoteActivity struct {
	ID              ActivityID      `json:"id"`
	Name            string          `json:"name"`
	SportType       string          `json:"sport_type"`
	Visibility      Visibility      `json:"visibility"`
	StartDate       time.Time       `json:"start_date"`
	StartDateLocal  time.Time       `json:"start_date_local"`
	Distance        float64         `json:"distance"`
	MovingTime      int             `json:"moving_time"`
	ElapsedTime     int             `json:"elapsed_time"`
	TotalPhotoCount int             `json:"total_photo_count"`
	GearID          string          `json:"gear_id"`
	Laps            []Lap           `json:"laps"`
	SegmentEfforts  []SegmentEffort `json:"segment_efforts"`
}

// Lap is one embedded lap of a RemoteActivity.
type Lap struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	LapIndex     int       `json:"lap_index"`
	StartDate    time.Time `json:"start_date"`
	ElapsedTime  int       `json:"elapsed_time"`
	MovingTime   int       `json:"moving_time"`
	Distance     float64   `json:"distance"`
	AverageSpeed float64   `json:"average_speed"`
	MaxSpeed     float64   `json:"max_speed"`
}

// SegmentEffort is one embedded segment effort of a RemoteActivity.
type SegmentEffort struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	StartDate   time.Time `json:"start_date"`
	ElapsedTime int       `json:"elapsed_time"`
	MovingTime  int       `json:"moving_time"`
	Distance    float64   `json:"distance"`
	Segment     Segment   `json:"segment"`
}

// Segment is the segment a SegmentEffort was recorded on.
type Segment struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

// Stream is one time series of an activity, keyed by stream type. Data points
// are kept raw: depending on the stream type they are numbers, booleans, or
// latlng pairs.
type Stream struct {
	SeriesType   string          `json:"series_type"`
	OriginalSize int             `json:"original_size"`
	Resolution   string          `json:"resolution"`
	Data         json.RawMessage `json:"data"`
}

// StreamSet maps stream type (e.g. "time", "heartrate", "latlng") to its series.
type StreamSet map[string]Stream

// PhotoRef points at a photo hosted by Strava. Downloading the image bytes is
// the photo store's concern.
type PhotoRef struct {
	UniqueID  string            `json:"unique_id"`
	Source    int               `json:"source"`
	URLs      map[string]string `json:"urls"`
	CreatedAt time.Time         `json:"created_at"`
}
