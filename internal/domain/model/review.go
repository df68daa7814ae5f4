package model

import "time"

// Review represents a review submitted on a pull request.
type Review struct {
	ID            int64
	ReviewerLogin string
	State         ReviewState
	Body          string
	SubmittedAt   time.Time
}

// ReviewComment represents an inline comment on a portion of the unified diff.
type ReviewComment struct {
	ID        int64
	Author    string
	Body      string
	Path      string
	CreatedAt time.Time
}

// IssueComment represents a PR-level general comment (from the GitHub Issues
// API, not the review comments API).
type IssueComment struct {
	ID        int64
	Author    string
	Body      string
	CreatedAt time.Time
}
