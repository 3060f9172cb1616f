package model

import "time"

// RunStatus tracks an ingest run through its lifecycle.
type RunStatus string

// Run status constants.
const (
	RunRunning   RunStatus = "running"
	RunCompleted RunStatus = "completed"
	RunFailed    RunStatus = "failed"
)

// IngestRun is the ledger entry for one execution of the pipeline.
type IngestRun struct {
	StartedAt          time.Time
	FinishedAt         *time.Time
	ID                 string
	Source             string
	Status             RunStatus
	Error              string
	Total              int
	Accepted           int
	Rejected           int
	CastErrors         int
	LastCommittedIndex int
}
