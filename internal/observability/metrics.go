// Package observability exposes service-level watermark gauges.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	importedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "strava_import",
		Subsystem: "importer",
		Name:      "last_activity_imported_timestamp_seconds",
		Help:      "Unix timestamp of the most recent fully imported activity.",
	})
	invalidatedGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "strava_import",
		Subsystem: "consumer",
		Name:      "last_segment_efforts_invalidated_timestamp_seconds",
		Help:      "Unix timestamp of the most recent segment-effort invalidation applied.",
	})
)

func init() {
	prometheus.MustRegister(importedGauge, invalidatedGauge)
}

// RecordActivityImported updates the import watermark gauge.
func RecordActivityImported(ts time.Time) {
	if ts.IsZero() {
		return
	}
	importedGauge.Set(float64(ts.Unix()))
}

// RecordSegmentEffortsInvalidated updates the invalidation watermark gauge.
func RecordSegmentEffortsInvalidated(ts time.Time) {
	if ts.IsZero() {
		return
	}
	invalidatedGauge.Set(float64(ts.Unix()))
}
