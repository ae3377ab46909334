package webhook

import "github.com/prometheus/client_golang/prometheus"

var (
	eventsCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "webhook",
		Name:      "events_received_total",
		Help:      "Number of well-formed webhook notifications grouped by object and aspect type.",
	}, []string{"object_type", "aspect_type"})

	handshakeCounter = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "strava_import",
		Subsystem: "webhook",
		Name:      "handshakes_total",
		Help:      "Number of subscription validation attempts grouped by result.",
	}, []string{"result"})
)

func init() {
	prometheus.MustRegister(eventsCounter, handshakeCounter)
}

func recordEvent(objectType, aspectType string) {
	eventsCounter.WithLabelValues(objectType, aspectType).Inc()
}

func recordHandshake(result string) {
	handshakeCounter.WithLabelValues(result).Inc()
}
