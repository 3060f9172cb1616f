// Package metrics defines the instrumentation surface of the ingestion
// pipeline and the reporting API.
package metrics

import (
	"time"
)

// Collector defines the interface for collecting ingestion metrics.
// Implementations can export metrics to various backends.
type Collector interface {
	// Pipeline
	RecordMessage(category string, outcome Outcome)
	RecordCastError(target string)
	RecordSinkWrite(success bool, duration time.Duration)
	RecordRun(status string, duration time.Duration)

	// Reporting API
	RecordRequest(route string, status int, duration time.Duration)
}

// Outcome is the terminal state of one message.
type Outcome int

const (
	// OutcomeAccepted means a record was built and committed.
	OutcomeAccepted Outcome = iota
	// OutcomeRejected means the body went to the rejection sink.
	OutcomeRejected
)

// String returns the label value for the outcome.
func (o Outcome) String() string {
	switch o {
	case OutcomeAccepted:
		return "accepted"
	case OutcomeRejected:
		return "rejected"
	default:
		return "unknown"
	}
}

// NoOpCollector is used when metrics are not needed.
type NoOpCollector struct{}

// RecordMessage does nothing.
func (NoOpCollector) RecordMessage(string, Outcome) {}

// RecordCastError does nothing.
func (NoOpCollector) RecordCastError(string) {}

// RecordSinkWrite does nothing.
func (NoOpCollector) RecordSinkWrite(bool, time.Duration) {}

// RecordRun does nothing.
func (NoOpCollector) RecordRun(string, time.Duration) {}

// RecordRequest does nothing.
func (NoOpCollector) RecordRequest(string, int, time.Duration) {}
