// Package strava implements the read side of the Strava v3 API used by the
// import pipeline.
package strava

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"golang.org/x/oauth2"

	"example.com/strava-import/internal/domain"
)

// BaseURL is the Strava API v3 root.
const BaseURL = "https://www.strava.com/api/v3"

const userAgent = "strava-import/0.1"

// streamKeys is the set of time series requested for every activity.
const streamKeys = "time,distance,latlng,altitude,heartrate,cadence,watts,velocity_smooth,moving,grade_smooth,temp"

// OAuthEndpoint is Strava's token endpoint, used to mint access tokens from a
// long-lived refresh token.
var OAuthEndpoint = oauth2.Endpoint{
	AuthURL:  "https://www.strava.com/oauth/authorize",
	TokenURL: "https://www.strava.com/oauth/token",
}

// NewOAuthClient returns an *http.Client that authenticates against Strava
// with the supplied application credentials and refresh token, refreshing
// access tokens as they expire.
func NewOAuthClient(ctx context.Context, clientID, clientSecret, refreshToken string) *http.Client {
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     OAuthEndpoint,
		Scopes:       []string{"activity:read_all"},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return oauth2.NewClient(ctx, ts)
}

// Client is a thin JSON client over the Strava API. It satisfies
// domain.ActivitySource.
type Client struct {
	baseURL    *url.URL
	httpClient *http.Client
}

// NewClient returns a Client rooted at baseURL. If httpClient is nil,
// http.DefaultClient is used; pass an oauth2-backed client for authenticated
// calls.
func NewClient(baseURL *url.URL, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Client{baseURL: baseURL, httpClient: httpClient}
}

// FetchActivity retrieves full activity metadata, including embedded laps and
// segment efforts.
func (c *Client) FetchActivity(ctx context.Context, id domain.ActivityID) (*domain.RemoteActivity, error) {
	var activity domain.RemoteActivity
	path := fmt.Sprintf("/activities/%s?include_all_efforts=true", id)
	if err := c.get(ctx, "fetch activity", path, &activity); err != nil {
		return nil, err
	}
	return &activity, nil
}

// FetchStreams retrieves the activity's time series, keyed by stream type.
func (c *Client) FetchStreams(ctx context.Context, id domain.ActivityID) (domain.StreamSet, error) {
	var streams domain.StreamSet
	path := fmt.Sprintf("/activities/%s/streams?keys=%s&key_by_type=true", id, streamKeys)
	if err := c.get(ctx, "fetch streams", path, &streams); err != nil {
		return nil, err
	}
	return streams, nil
}

// FetchPhotos retrieves photo references at full size.
func (c *Client) FetchPhotos(ctx context.Context, id domain.ActivityID) ([]domain.PhotoRef, error) {
	var photos []domain.PhotoRef
	path := fmt.Sprintf("/activities/%s/photos?size=5000&photo_sources=true", id)
	if err := c.get(ctx, "fetch photos", path, &photos); err != nil {
		return nil, err
	}
	return photos, nil
}

func (c *Client) get(ctx context.Context, op, path string, v interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL.String()+path, nil)
	if err != nil {
		return &APIError{Kind: KindAPI, Op: op, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &APIError{Kind: KindNetwork, Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &APIError{Kind: KindNetwork, Op: op, Err: err}
	}

	if resp.StatusCode >= 300 {
		apiErr := &APIError{Kind: kindForStatus(resp.StatusCode), StatusCode: resp.StatusCode, Op: op}
		if apiErr.Kind == KindNotFound || apiErr.Kind == KindForbidden {
			apiErr.Err = domain.ErrActivityGone
		}
		return apiErr
	}

	if v != nil && len(data) != 0 {
		if err := json.Unmarshal(data, v); err != nil {
			return &APIError{Kind: KindDecode, Op: op, Err: err}
		}
	}
	return nil
}
