package entity

import (
	"time"
)

// Failure stages recorded against individual tasks in a report
const (
	StageLookup  = "lookup"
	StageParse   = "parse"
	StageStorage = "storage"
)

// TaskFailure records one task's failure without aborting the batch
type TaskFailure struct {
	Task  SearchTask
	Stage string
	Err   string
}

// ViewRefreshResult is the outcome of refreshing a single analysis view
type ViewRefreshResult struct {
	View     string
	Duration time.Duration
	Err      error
}

// ExecutionReport accumulates the outcome of one batch run. Per-task and
// per-view failures land here instead of being raised; the report is
// informational and never aborts the batch that produced it.
type ExecutionReport struct {
	ID         string
	StartedAt  time.Time
	FinishedAt time.Time

	Succeeded int
	Skipped   int
	Failed    int
	NoResults int

	SkippedTasks []SearchTask
	Failures     []TaskFailure
	ViewResults  []ViewRefreshResult
}

// Attempted is the number of tasks actually sent to the fare source
func (r *ExecutionReport) Attempted() int {
	return r.Succeeded + r.Failed + r.NoResults
}
