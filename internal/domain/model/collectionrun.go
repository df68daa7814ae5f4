package model

import "time"

// CollectionRun is one recorded signal collection run for a repository.
// Runs are append-only; re-collecting the same window produces a new row.
type CollectionRun struct {
	ID              int64
	RepoFullName    string
	WindowStart     time.Time
	WindowEnd       time.Time
	Records         int
	MissingTotal    int
	MissingBySignal map[string]int
	OutputPath      string
	StartedAt       time.Time
	FinishedAt      time.Time
}
