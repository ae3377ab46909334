package events

import "github.com/prometheus/client_golang/prometheus"

var (
	publishedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "events",
		Name:      "published_total",
		Help:      "Number of domain events successfully published to Kafka.",
	})

	publishFailedCounter = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "events",
		Name:      "publish_failed_total",
		Help:      "Number of domain events that failed to publish.",
	})
)

func init() {
	prometheus.MustRegister(publishedCounter, publishFailedCounter)
}
