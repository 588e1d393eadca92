package model

import "time"

// RunReport summarises one job execution.
type RunReport struct {
	RunID           string
	Job             string
	Mode            string
	StartedAt       time.Time
	FinishedAt      time.Time
	Updated         int
	Failed          int
	Skipped         int
	BulkOperationID string
	Status          string
	Message         string
}

const (
	RunStatusSuccess = "success"
	RunStatusPartial = "partial"
	RunStatusNoop    = "noop"
	RunStatusFailed  = "failed"
	RunStatusStarted = "started"
)

// BulkOperation is the opaque handle returned when a bulk mutation is
// accepted. Completion happens on the platform and is not observed.
type BulkOperation struct {
	ID     string
	Status string
}
