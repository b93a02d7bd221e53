package models

import "time"

// StepResult is the outcome of one executed action.
type StepResult struct {
	Action      string     `json:"action"`
	Kind        ActionKind `json:"kind"`
	Outputs     []string   `json:"outputs,omitempty"`
	Published   []string   `json:"published,omitempty"`
	DurationSec float64    `json:"duration_sec"`
	Error       *RunError  `json:"error"`
}

// RunError is the serialisable form of a step failure.
type RunError struct {
	Type    ErrorType `json:"type"`
	Message string    `json:"message"`
}

// RunResult summarises one invocation of an action and its dependencies.
type RunResult struct {
	Package          string       `json:"package"`
	Version          string       `json:"version"`
	GitCommitID      *string      `json:"git_commit_id,omitempty"`
	Target           string       `json:"target"`
	Plan             []string     `json:"plan"`
	OutputDir        string       `json:"output_dir"`
	Completed        int          `json:"completed"`
	Failed           bool         `json:"failed"`
	Cancelled        bool         `json:"cancelled"`
	TotalDurationSec float64      `json:"total_duration_sec"`
	StartedAt        time.Time    `json:"started_at"`
	EndedAt          time.Time    `json:"ended_at"`
	Steps            []StepResult `json:"steps"`
}
