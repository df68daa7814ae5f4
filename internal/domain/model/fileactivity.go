package model

import "time"

// CheckTally counts a pull request's per-commit check verdicts.
type CheckTally struct {
	Passed int
	Failed int
}

// FileActivity aggregates the pull request level signals touching one file
// path. Each per-PR slice holds one element per pull request that changed the
// file, in collection order; RevertedPRIDs and RevertTimes hold only nonzero
// observations, matching the source dataset semantics.
type FileActivity struct {
	FileName string
	RepoName string

	Authors                []string
	PRIDs                  []int
	CreatedTimes           []time.Time
	ClosedTimes            []time.Time
	ReviewTimes            []float64 // Seconds.
	RevertedPRIDs          []int
	RevertTimes            []float64 // Seconds.
	ReviewCommentCounts    []int
	IssueCommentCounts     []int
	IssueComments          []string
	ApprovedReviewerCounts []int
	ApprovedReviewers      []string
	CommitCounts           []int
	LineChangeCounts       []int
	CheckTallies           []CheckTally

	// File-scoped data: this file's versions, line changes, and the review
	// comments left on it, one element per pull request where observed.
	Versions       []int
	Changes        []FileChange
	ReviewComments []string
}
