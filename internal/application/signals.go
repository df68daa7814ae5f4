package application

import (
	"fmt"
	"sort"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// pathComment pairs a review comment body with the file it was left on.
type pathComment struct {
	Path string `json:"path"`
	Body string `json:"body"`
}

// fileChangeRow is the JSON shape of one file's line changes in the dataset.
type fileChangeRow struct {
	File      string `json:"file"`
	Additions int    `json:"additions"`
	Deletions int    `json:"deletions"`
	Changes   int    `json:"changes"`
}

// PullRequestKey derives the identifying key recorded for a bundle.
func PullRequestKey(b model.PRBundle) string {
	return fmt.Sprintf("%s#%d", b.RepoFullName, b.PR.Number)
}

// sectionErr converts a failed bundle section into a signal-unavailable
// error naming the section, so the gap diagnostic explains what was missing.
func sectionErr(b model.PRBundle, sections ...model.Section) error {
	for _, section := range sections {
		if err := b.SectionErr(section); err != nil {
			return fmt.Errorf("%w: %s not fetched: %v", signal.ErrUnavailable, section, err)
		}
	}
	return nil
}

// PullRequestSignals returns the pull request level signal definitions, in
// dataset column order.
func PullRequestSignals() []signal.Definition[model.PRBundle] {
	return []signal.Definition[model.PRBundle]{
		{
			Name: "repo name",
			Extract: func(b model.PRBundle) (any, error) {
				return b.RepoFullName, nil
			},
		},
		{
			Name: "pull request id",
			Extract: func(b model.PRBundle) (any, error) {
				return b.PR.Number, nil
			},
		},
		{
			Name: "author",
			Extract: func(b model.PRBundle) (any, error) {
				return b.PR.Author, nil
			},
		},
		{
			Name: "pull request created time",
			Extract: func(b model.PRBundle) (any, error) {
				return b.PR.CreatedAt, nil
			},
		},
		{
			Name: "pull request closed time",
			Extract: func(b model.PRBundle) (any, error) {
				return b.PR.ClosedAt, nil
			},
		},
		{
			Name: "pull request review time",
			Extract: func(b model.PRBundle) (any, error) {
				return b.PR.ReviewDuration().Seconds(), nil
			},
		},
		{
			Name: "reverted pull request id",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionRevertedPR); err != nil {
					return nil, err
				}
				if b.RevertedPR == nil {
					return 0, nil
				}
				return b.RevertedPR.Number, nil
			},
		},
		{
			Name: "pull request revert time",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionRevertedPR); err != nil {
					return nil, err
				}
				if b.RevertedPR == nil {
					return 0.0, nil
				}
				return b.PR.CreatedAt.Sub(b.RevertedPR.CreatedAt).Seconds(), nil
			},
		},
		{
			Name: "num review comments",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionReviewComments); err != nil {
					return nil, err
				}
				return len(b.ReviewComments), nil
			},
		},
		{
			Name: "review comments msg",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionReviewComments); err != nil {
					return nil, err
				}
				msgs := make([]pathComment, 0, len(b.ReviewComments))
				for _, c := range b.ReviewComments {
					msgs = append(msgs, pathComment{Path: c.Path, Body: c.Body})
				}
				return msgs, nil
			},
		},
		{
			Name: "num issue comments",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionIssueComments); err != nil {
					return nil, err
				}
				return len(b.IssueComments), nil
			},
		},
		{
			Name: "issue comments msg",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionIssueComments); err != nil {
					return nil, err
				}
				msgs := make([]string, 0, len(b.IssueComments))
				for _, c := range b.IssueComments {
					msgs = append(msgs, c.Body)
				}
				return msgs, nil
			},
		},
		{
			Name: "num approved reviewers",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionReviews); err != nil {
					return nil, err
				}
				return len(approvedReviewers(b.Reviews)), nil
			},
		},
		{
			Name: "approved reviewers",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionReviews); err != nil {
					return nil, err
				}
				return approvedReviewers(b.Reviews), nil
			},
		},
		{
			Name: "num commits",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionCommits); err != nil {
					return nil, err
				}
				return len(b.Commits), nil
			},
		},
		{
			Name: "num line changes",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionFiles); err != nil {
					return nil, err
				}
				total := 0
				for _, f := range b.Files {
					total += f.Changes
				}
				return total, nil
			},
		},
		{
			Name: "files changes",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionFiles); err != nil {
					return nil, err
				}
				rows := make([]fileChangeRow, 0, len(b.Files))
				for _, f := range b.Files {
					rows = append(rows, fileChangeRow{
						File:      f.Filename,
						Additions: f.Additions,
						Deletions: f.Deletions,
						Changes:   f.Changes,
					})
				}
				return rows, nil
			},
		},
		{
			Name: "file versions",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionCommits, model.SectionCommitFiles); err != nil {
					return nil, err
				}
				return fileVersions(b.CommitFiles), nil
			},
		},
		{
			Name: "check run results",
			Extract: func(b model.PRBundle) (any, error) {
				if err := sectionErr(b, model.SectionCommits, model.SectionCheckRuns); err != nil {
					return nil, err
				}
				results := make([]string, 0, len(b.CheckRuns))
				for _, runs := range b.CheckRuns {
					results = append(results, string(model.SummarizeCheckRuns(runs)))
				}
				return results, nil
			},
		},
	}
}

// approvedReviewers returns the distinct logins that approved, sorted for
// deterministic output.
func approvedReviewers(reviews []model.Review) []string {
	seen := make(map[string]struct{})
	for _, r := range reviews {
		if r.State == model.ReviewStateApproved {
			seen[r.ReviewerLogin] = struct{}{}
		}
	}

	logins := make([]string, 0, len(seen))
	for login := range seen {
		logins = append(logins, login)
	}
	sort.Strings(logins)
	return logins
}

// fileVersions counts, per file path, how many of the bundle's commits
// touched it.
func fileVersions(commitFiles [][]string) map[string]int {
	versions := make(map[string]int)
	for _, files := range commitFiles {
		for _, f := range files {
			versions[f]++
		}
	}
	return versions
}
