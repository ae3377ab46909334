package strava

import (
	"errors"
	"fmt"
)

// ErrorKind partitions API failures so callers can react to categories rather
// than one collapsed error.
type ErrorKind string

const (
	KindNotFound     ErrorKind = "not_found"
	KindForbidden    ErrorKind = "forbidden"
	KindUnauthorized ErrorKind = "unauthorized"
	KindRateLimited  ErrorKind = "rate_limited"
	KindNetwork      ErrorKind = "network"
	KindDecode       ErrorKind = "decode"
	KindAPI          ErrorKind = "api"
)

// APIError is returned for any failed Strava call.
type APIError struct {
	Kind       ErrorKind
	StatusCode int
	Op         string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("strava: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("strava: %s: %s (status %d)", e.Op, e.Kind, e.StatusCode)
}

func (e *APIError) Unwrap() error { return e.Err }

// KindOf extracts the error kind, or "" for non-API errors.
func KindOf(err error) ErrorKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return ""
}

// IsGone reports whether the resource is missing or inaccessible: deleted,
// private, or never existed. Webhook delivery is asynchronous, so this is an
// expected condition rather than a failure. A 401 is not gone: it means our
// credentials are expired or revoked, which must surface as a failure.
func IsGone(err error) bool {
	switch KindOf(err) {
	case KindNotFound, KindForbidden:
		return true
	}
	return false
}

func kindForStatus(status int) ErrorKind {
	switch {
	case status == 404:
		return KindNotFound
	case status == 403:
		return KindForbidden
	case status == 401:
		return KindUnauthorized
	case status == 429:
		return KindRateLimited
	default:
		return KindAPI
	}
}
