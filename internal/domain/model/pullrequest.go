package model

import "time"

// PullRequest represents a GitHub pull request observed by the collector.
type PullRequest struct {
	Number       int
	RepoFullName string
	Title        string
	Author       string
	Body         string
	State        PRState
	URL          string
	CreatedAt    time.Time
	ClosedAt     time.Time
	MergedAt     time.Time
}

// IsMerged reports whether the pull request was merged.
func (pr PullRequest) IsMerged() bool {
	return !pr.MergedAt.IsZero()
}

// ReviewDuration returns the time between opening and closing the pull
// request. Zero if the pull request is still open.
func (pr PullRequest) ReviewDuration() time.Duration {
	if pr.ClosedAt.IsZero() {
		return 0
	}
	return pr.ClosedAt.Sub(pr.CreatedAt)
}
