package model

import "time"

// Trigger represents what started a pipeline run
type Trigger string

const (
	TriggerSchedule Trigger = "schedule"
	TriggerManual   Trigger = "manual"
	TriggerDispatch Trigger = "dispatch"
)

// IsValid checks if the trigger is one of the known values
func (t Trigger) IsValid() bool {
	switch t {
	case TriggerSchedule, TriggerManual, TriggerDispatch:
		return true
	default:
		return false
	}
}

// StepName identifies a pipeline step
type StepName string

const (
	StepPrepare  StepName = "prepare"
	StepFetch    StepName = "fetch"
	StepGenerate StepName = "generate"
	StepPublish  StepName = "publish"
	StepCommit   StepName = "commit"
)

// RunStatus represents the execution state of a run or a step
type RunStatus string

const (
	StatusPending RunStatus = "pending"
	StatusRunning RunStatus = "running"
	StatusSuccess RunStatus = "success"
	StatusFailed  RunStatus = "failed"
	StatusSkipped RunStatus = "skipped"
)

// StepResult records the outcome of a single step within a run
type StepResult struct {
	Name      StepName      `json:"name"`
	Status    RunStatus     `json:"status"`
	StartedAt time.Time     `json:"started_at,omitzero"`
	Duration  time.Duration `json:"duration"`
	Summary   string        `json:"summary,omitempty"`
	Error     string        `json:"error,omitempty"`
}

// RunResult records the outcome of one pipeline run
type RunResult struct {
	ID         string        `json:"id"`
	Trigger    Trigger       `json:"trigger"`
	Status     RunStatus     `json:"status"`
	StartedAt  time.Time     `json:"started_at"`
	FinishedAt time.Time     `json:"finished_at,omitzero"`
	Steps      []*StepResult `json:"steps"`
}

// Duration returns the elapsed time of the run, zero while it is still running
func (r *RunResult) Duration() time.Duration {
	if r.FinishedAt.IsZero() {
		return 0
	}
	return r.FinishedAt.Sub(r.StartedAt)
}

// FailedStep returns the first failed step, or nil
func (r *RunResult) FailedStep() *StepResult {
	for _, s := range r.Steps {
		if s.Status == StatusFailed {
			return s
		}
	}
	return nil
}

// Step returns the result of the named step, or nil
func (r *RunResult) Step(name StepName) *StepResult {
	for _, s := range r.Steps {
		if s.Name == name {
			return s
		}
	}
	return nil
}
