package model

// PRState represents the state of a pull request as reported by GitHub.
type PRState string

const (
	PRStateOpen   PRState = "open"
	PRStateClosed PRState = "closed"
)

// ReviewState represents the state of a submitted review.
type ReviewState string

const (
	ReviewStateApproved         ReviewState = "approved"
	ReviewStateChangesRequested ReviewState = "changes_requested"
	ReviewStateCommented        ReviewState = "commented"
	ReviewStatePending          ReviewState = "pending"
	ReviewStateDismissed        ReviewState = "dismissed"
)

// CheckResult is the per-commit verdict derived from its check runs.
type CheckResult string

const (
	CheckResultNone   CheckResult = "none"   // No check runs configured for the commit.
	CheckResultPassed CheckResult = "passed" // No check run concluded with a failing status.
	CheckResultFailed CheckResult = "failed" // At least one check run concluded with a failing status.
)
