package strava

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"testing"

	"github.com/jarcoal/httpmock"

	"example.com/strava-import/internal/domain"
)

func newTestClient() *Client {
	base, _ := url.Parse(BaseURL)
	return NewClient(base, nil)
}

func TestFetchActivity(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	body := `{
		"id": 123,
		"name": "Morning Ride",
		"sport_type": "Ride",
		"visibility": "everyone",
		"start_date": "2024-05-01T06:00:00Z",
		"start_date_local": "2024-05-01T08:00:00Z",
		"distance": 40120.5,
		"laps": [{"id": 1, "lap_index": 1, "elapsed_time": 600}],
		"segment_efforts": [{"id": 9, "segment": {"id": 77, "name": "Col du Test"}}]
	}`
	httpmock.RegisterResponder("GET", BaseURL+"/activities/123",
		httpmock.NewStringResponder(200, body))

	got, err := newTestClient().FetchActivity(context.Background(), domain.ActivityID(123))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if got.ID != 123 || got.Name != "Morning Ride" {
		t.Fatalf("unexpected activity %+v", got)
	}
	if len(got.Laps) != 1 || len(got.SegmentEfforts) != 1 {
		t.Fatalf("expected embedded children, got %+v", got)
	}
}

func TestFetchStreams(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	body := `{
		"time": {"series_type": "time", "original_size": 3, "resolution": "high", "data": [0, 1, 2]},
		"latlng": {"series_type": "distance", "original_size": 3, "resolution": "high", "data": [[51.5, -0.1], [51.6, -0.1], [51.7, -0.2]]}
	}`
	httpmock.RegisterResponder("GET", BaseURL+"/activities/123/streams",
		httpmock.NewStringResponder(200, body))

	streams, err := newTestClient().FetchStreams(context.Background(), domain.ActivityID(123))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(streams) != 2 {
		t.Fatalf("expected 2 streams, got %d", len(streams))
	}
	if streams["time"].OriginalSize != 3 {
		t.Fatalf("unexpected time stream %+v", streams["time"])
	}
}

func TestFetchPhotos(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	body := `[{"unique_id": "abc-1", "source": 1, "urls": {"5000": "https://example.com/p.jpg"}}]`
	httpmock.RegisterResponder("GET", BaseURL+"/activities/123/photos",
		httpmock.NewStringResponder(200, body))

	photos, err := newTestClient().FetchPhotos(context.Background(), domain.ActivityID(123))
	if err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
	if len(photos) != 1 || photos[0].UniqueID != "abc-1" {
		t.Fatalf("unexpected photos %+v", photos)
	}
}

func TestErrorKinds(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	tests := []struct {
		name   string
		status int
		want   ErrorKind
		gone   bool
	}{
		{"not found", http.StatusNotFound, KindNotFound, true},
		{"forbidden", http.StatusForbidden, KindForbidden, true},
		{"unauthorized", http.StatusUnauthorized, KindUnauthorized, false},
		{"rate limited", http.StatusTooManyRequests, KindRateLimited, false},
		{"server error", http.StatusInternalServerError, KindAPI, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			httpmock.RegisterResponder("GET", BaseURL+"/activities/123",
				httpmock.NewStringResponder(tc.status, `{}`))

			_, err := newTestClient().FetchActivity(context.Background(), domain.ActivityID(123))
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if got := KindOf(err); got != tc.want {
				t.Fatalf("expected kind %q, got %q", tc.want, got)
			}
			if IsGone(err) != tc.gone {
				t.Fatalf("expected IsGone=%v for %q", tc.gone, tc.want)
			}
			if errors.Is(err, domain.ErrActivityGone) != tc.gone {
				t.Fatalf("expected ErrActivityGone wrapping=%v for %q", tc.gone, tc.want)
			}
		})
	}
}

func TestDecodeErrorKind(t *testing.T) {
	httpmock.Activate()
	defer httpmock.DeactivateAndReset()

	httpmock.RegisterResponder("GET", BaseURL+"/activities/123",
		httpmock.NewStringResponder(200, `{invalid json`))

	_, err := newTestClient().FetchActivity(context.Background(), domain.ActivityID(123))
	if KindOf(err) != KindDecode {
		t.Fatalf("expected decode kind, got %v", err)
	}
}
