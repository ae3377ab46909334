package importer

import (
	"fmt"
	"time"

	"example.com/strava-import/internal/domain"
)

// Filter decides whether a fetched activity should be imported. Filters only
// look at metadata, so the chain runs right after the initial fetch and before
// any persistence. A non-empty reason names the value that failed.
type Filter interface {
	Reject(id domain.ActivityID, activity *domain.RemoteActivity) (reason string)
}

// firstRejection evaluates filters in order and returns the first rejection.
func firstRejection(filters []Filter, id domain.ActivityID, activity *domain.RemoteActivity) string {
	for _, f := range filters {
		if reason := f.Reject(id, activity); reason != "" {
			return reason
		}
	}
	return ""
}

// VisibilityFilter rejects activities whose visibility is not in the
// configured allow-set.
type VisibilityFilter struct {
	allowed map[domain.Visibility]struct{}
}

// NewVisibilityFilter builds the filter from the configured visibility list.
func NewVisibilityFilter(visibilities []domain.Visibility) *VisibilityFilter {
	allowed := make(map[domain.Visibility]struct{}, len(visibilities))
	for _, v := range visibilities {
		allowed[v] = struct{}{}
	}
	return &VisibilityFilter{allowed: allowed}
}

func (f *VisibilityFilter) Reject(id domain.ActivityID, activity *domain.RemoteActivity) string {
	if _, ok := f.allowed[activity.Visibility]; ok {
		return ""
	}
	return fmt.Sprintf("visibility %q should not be imported", activity.Visibility)
}

// SkipListFilter rejects activity ids explicitly configured to be skipped.
// Matching uses the canonical unprefixed id string.
type SkipListFilter struct {
	skip map[string]struct{}
}

// NewSkipListFilter builds the filter from the configured id list.
func NewSkipListFilter(ids []string) *SkipListFilter {
	skip := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		skip[id] = struct{}{}
	}
	return &SkipListFilter{skip: skip}
}

func (f *SkipListFilter) Reject(id domain.ActivityID, _ *domain.RemoteActivity) string {
	if _, ok := f.skip[id.String()]; ok {
		return "configured to be skipped"
	}
	return ""
}

// MinStartDateFilter rejects activities recorded before the configured cutoff,
// compared on the local start timestamp. A zero cutoff allows everything.
type MinStartDateFilter struct {
	cutoff time.Time
}

// NewMinStartDateFilter builds the filter from the configured cutoff.
func NewMinStartDateFilter(cutoff time.Time) *MinStartDateFilter {
	return &MinStartDateFilter{cutoff: cutoff}
}

func (f *MinStartDateFilter) Reject(id domain.ActivityID, activity *domain.RemoteActivity) string {
	if f.cutoff.IsZero() || !activity.StartDateLocal.Before(f.cutoff) {
		return ""
	}
	return fmt.Sprintf("recorded %s, before %s", activity.StartDateLocal.Format(time.RFC3339), f.cutoff.Format(time.RFC3339))
}
