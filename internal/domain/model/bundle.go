package model

// Section names a category of related pull request data fetched into a
// PRBundle. Signal extraction checks section health before reading its data.
type Section string

const (
	SectionReviews        Section = "reviews"
	SectionReviewComments Section = "review_comments"
	SectionIssueComments  Section = "issue_comments"
	SectionCommits        Section = "commits"
	SectionFiles          Section = "files"
	SectionCheckRuns      Section = "check_runs"
	SectionCommitFiles    Section = "commit_files"
	SectionRevertedPR     Section = "reverted_pr"
)

// PRBundle carries one merged pull request plus the related data its signals
// are computed from. Sections that failed to fetch are recorded in Failed so
// a single broken endpoint degrades to missing values instead of aborting
// the whole collection.
type PRBundle struct {
	RepoFullName   string
	PR             PullRequest
	Reviews        []Review
	ReviewComments []ReviewComment
	IssueComments  []IssueComment
	Commits        []Commit
	Files          []FileChange
	CheckRuns      [][]CheckRun // Per commit, in commit order.
	CommitFiles    [][]string   // Filenames touched, per commit, in commit order.
	RevertedPR     *PullRequest // The original pull request when this one reverts it.
	Failed         map[Section]error
}

// MarkFailed records a section fetch failure on the bundle.
func (b *PRBundle) MarkFailed(section Section, err error) {
	if b.Failed == nil {
		b.Failed = make(map[Section]error)
	}
	b.Failed[section] = err
}

// SectionErr returns the fetch error recorded for a section, or nil when the
// section's data is usable.
func (b *PRBundle) SectionErr(section Section) error {
	return b.Failed[section]
}
