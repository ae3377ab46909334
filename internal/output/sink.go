// Package output carries human-readable progress lines for a single import
// run, separate from structured logging. A sink is created per webhook
// delivery and handed down the pipeline explicitly; collaborators never hold
// on to one.
package output

import "log"

// Sink receives progress lines for the current import.
type Sink interface {
	Printf(format string, args ...interface{})
}

// LogSink writes progress lines through a standard logger, prefixing each
// line with the webhook delivery id so concurrent imports stay readable.
type LogSink struct {
	logger     *log.Logger
	deliveryID string
}

// NewLogSink builds a LogSink for one delivery.
func NewLogSink(logger *log.Logger, deliveryID string) *LogSink {
	return &LogSink{logger: logger, deliveryID: deliveryID}
}

// Printf implements Sink.
func (s *LogSink) Printf(format string, args ...interface{}) {
	s.logger.Printf("[%s] "+format, append([]interface{}{s.deliveryID}, args...)...)
}

// Discard is a Sink that drops everything.
var Discard Sink = discard{}

type discard struct{}

func (discard) Printf(string, ...interface{}) {}
