package model

import (
	"time"

	"github.com/google/uuid"
)

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	RunStatusRunning   RunStatus = "running"
	RunStatusSucceeded RunStatus = "succeeded"
	RunStatusFailed    RunStatus = "failed"
)

// RunRecord describes one pipeline run for the history store.
type RunRecord struct {
	ID         string
	SubjectID  string
	InputFile  string
	Mode       RegistrationMode
	Status     RunStatus
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}

// NewRunRecord starts a record for the given options and case.
func NewRunRecord(opts *PipelineOptions, layout *CaseLayout) *RunRecord {
	return &RunRecord{
		ID:        uuid.NewString(),
		SubjectID: layout.SubjectID,
		InputFile: opts.InputFile,
		Mode:      opts.Mode,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}
}

// Finish marks the record as succeeded or failed.
func (r *RunRecord) Finish(err error) {
	r.FinishedAt = time.Now().UTC()
	if err != nil {
		r.Status = RunStatusFailed
		r.Error = err.Error()
	} else {
		r.Status = RunStatusSucceeded
	}
}

// StageRecord is the timing of one pipeline stage within a run.
type StageRecord struct {
	RunID    string
	Stage    string
	Duration time.Duration
	Skipped  bool
}
