package importer

import "fmt"

// OutcomeKind classifies the result of one import run.
type OutcomeKind string

const (
	// OutcomeImported means every step completed (photo failures excepted,
	// see Importer).
	OutcomeImported OutcomeKind = "imported"
	// OutcomeSkippedFiltered means a configured filter rejected the activity
	// before anything was persisted.
	OutcomeSkippedFiltered OutcomeKind = "skipped_filtered"
	// OutcomeSkippedNotFound means Strava reported the activity missing or
	// private; expected given asynchronous webhook delivery.
	OutcomeSkippedNotFound OutcomeKind = "skipped_not_found"
	// OutcomeFailed means an unexpected fetch or persistence failure stopped
	// the run. The cause is logged, never propagated to the webhook caller.
	OutcomeFailed OutcomeKind = "failed"
)

// Outcome is the result of one orchestration run. It is reported to the
// caller and to metrics, never persisted.
type Outcome struct {
	Kind   OutcomeKind
	Reason string // rejection detail for OutcomeSkippedFiltered
	Err    error  // root cause for OutcomeFailed
}

func imported() Outcome                 { return Outcome{Kind: OutcomeImported} }
func skippedNotFound() Outcome          { return Outcome{Kind: OutcomeSkippedNotFound} }
func skippedFiltered(r string) Outcome  { return Outcome{Kind: OutcomeSkippedFiltered, Reason: r} }
func failed(step string, e error) Outcome {
	return Outcome{Kind: OutcomeFailed, Err: fmt.Errorf("%s: %w", step, e)}
}
