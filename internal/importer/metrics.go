package importer

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	outcomeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "importer",
		Name:      "imports_total",
		Help:      "Number of import runs grouped by outcome.",
	}, []string{"outcome"})

	importDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "strava_import",
		Subsystem: "importer",
		Name:      "import_duration_seconds",
		Help:      "Time spent fetching and persisting one activity.",
		Buckets:   prometheus.ExponentialBuckets(0.05, 2, 10),
	})

	photoFailureCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "importer",
		Name:      "photo_failures_total",
		Help:      "Number of imports whose photo step failed while the import itself was kept.",
	})
)

func init() {
	prometheus.MustRegister(outcomeCounter, importDuration, photoFailureCounter)
}

func recordOutcome(kind OutcomeKind, elapsed time.Duration) {
	outcomeCounter.WithLabelValues(string(kind)).Inc()
	importDuration.Observe(elapsed.Seconds())
}

func recordPhotoFailure() {
	photoFailureCounter.Inc()
}
