package domain

import "time"

// RunStatus describes the lifecycle state of an extraction run.
type RunStatus string

const (
	// RunStatusRunning indicates the run is still in progress.
	RunStatusRunning RunStatus = "running"

	// RunStatusSucceeded indicates the run drained its source fully.
	RunStatusSucceeded RunStatus = "succeeded"

	// RunStatusFailed indicates the run halted on an error.
	// Records extracted before the failure are kept.
	RunStatusFailed RunStatus = "failed"
)

// ExtractionRun records one execution of the extraction pipeline
// against a configured source.
type ExtractionRun struct {
	// ID is the unique identifier for the run.
	ID string

	// SourceID links to the SourceConfig that was extracted.
	SourceID string

	// Status is the lifecycle state of the run.
	Status RunStatus

	// StartedAt is when the run began.
	StartedAt time.Time

	// FinishedAt is when the run completed. Zero while running.
	FinishedAt time.Time

	// BlobsSeen is the number of blobs enumerated.
	BlobsSeen int

	// RecordsExtracted is the number of records produced.
	RecordsExtracted int

	// Error contains the failure message when Status is failed.
	Error string
}

// Duration returns how long the run took, or the elapsed time so far
// for a run still in progress.
func (r *ExtractionRun) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return time.Since(r.StartedAt)
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// Finished reports whether the run reached a terminal state.
func (r *ExtractionRun) Finished() bool {
	return r.Status == RunStatusSucceeded || r.Status == RunStatusFailed
}
