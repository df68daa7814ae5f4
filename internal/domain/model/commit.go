package model

// Commit represents one commit belonging to a pull request.
type Commit struct {
	SHA     string
	Author  string
	Message string
}

// FileChange represents the line-change statistics of one file within a pull
// request or a commit.
type FileChange struct {
	Filename  string
	Additions int
	Deletions int
	Changes   int
}

// CheckRun represents an individual CI check run from the GitHub Checks API.
type CheckRun struct {
	ID         int64
	Name       string
	Status     string // queued, in_progress, completed.
	Conclusion string // success, failure, neutral, cancelled, skipped, timed_out, action_required.
}

// failingConclusions are the check run conclusions treated as a failure.
var failingConclusions = map[string]struct{}{
	"failure":         {},
	"cancelled":       {},
	"timed_out":       {},
	"action_required": {},
}

// SummarizeCheckRuns reduces a commit's check runs to a single verdict:
// none when no runs exist, failed when any run concluded with a failing
// status, passed otherwise.
func SummarizeCheckRuns(runs []CheckRun) CheckResult {
	if len(runs) == 0 {
		return CheckResultNone
	}
	for _, run := range runs {
		if _, failing := failingConclusions[run.Conclusion]; failing {
			return CheckResultFailed
		}
	}
	return CheckResultPassed
}
