// Package models holds the persisted shapes behind the solve-as-a-
// service API: a solve job's request and result, and the admin
// accounts that can call privileged endpoints.
package models

import "time"

// JobStatus is a solve job's lifecycle state.
type JobStatus string

const (
	JobQueued   JobStatus = "queued"
	JobRunning  JobStatus = "running"
	JobComplete JobStatus = "complete"
	JobFailed   JobStatus = "failed"
)

// SolveJob is one request to fill a grid template against a word list,
// as persisted in the solve_jobs table.
type SolveJob struct {
	ID         string     `json:"id"`
	Template   string     `json:"template"`
	WordListID string     `json:"wordListId"`
	MinScore   int        `json:"minScore"`
	Seed       int64      `json:"seed"`
	Status     JobStatus  `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	FinishedAt *time.Time `json:"finishedAt,omitempty"`
}

// SolveResult is a completed job's outcome: the taxonomized Outcome
// string (mirroring fill.Outcome.String()), the rendered fill when
// successful, and the search statistics.
type SolveResult struct {
	JobID      string      `json:"jobId"`
	Outcome    string      `json:"outcome"`
	Rendered   string      `json:"rendered,omitempty"`
	States     int         `json:"states"`
	Backtracks int         `json:"backtracks"`
	Retries    int         `json:"retries"`
	DurationMs int64       `json:"durationMs"`
	Choices    map[int]int `json:"choices,omitempty"` // slotID -> wordID
}

// AdminUser is a service account permitted to call privileged admin
// endpoints (job history).
type AdminUser struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"`
}
