package application

import (
	"sort"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// AggregateFiles pivots pull request bundles into one FileActivity per file
// path. A file's activity accumulates one entry per pull request whose
// commits touched it; bundle sections that failed to fetch contribute
// nothing for that pull request. Output is sorted by file name for
// deterministic export.
func AggregateFiles(bundles []model.PRBundle) []model.FileActivity {
	byFile := make(map[string]*model.FileActivity)

	activity := func(repo, file string) *model.FileActivity {
		if a, ok := byFile[file]; ok {
			return a
		}
		a := &model.FileActivity{FileName: file, RepoName: repo}
		byFile[file] = a
		return a
	}

	for _, b := range bundles {
		// File membership comes from the per-commit file lists; without
		// them the pull request cannot be attributed to any file.
		if sectionErr(b, model.SectionCommits, model.SectionCommitFiles) != nil {
			continue
		}

		versions := fileVersions(b.CommitFiles)
		files := make([]string, 0, len(versions))
		for f := range versions {
			files = append(files, f)
		}
		sort.Strings(files)

		for _, f := range files {
			a := activity(b.RepoFullName, f)
			appendPRActivity(a, b)
			a.Versions = append(a.Versions, versions[f])
		}

		if sectionErr(b, model.SectionFiles) == nil {
			for _, change := range b.Files {
				if _, touched := versions[change.Filename]; !touched {
					continue
				}
				a := activity(b.RepoFullName, change.Filename)
				a.Changes = append(a.Changes, change)
			}
		}

		if sectionErr(b, model.SectionReviewComments) == nil {
			for _, comment := range b.ReviewComments {
				if _, touched := versions[comment.Path]; !touched {
					continue
				}
				a := activity(b.RepoFullName, comment.Path)
				a.ReviewComments = append(a.ReviewComments, comment.Body)
			}
		}
	}

	names := make([]string, 0, len(byFile))
	for name := range byFile {
		names = append(names, name)
	}
	sort.Strings(names)

	activities := make([]model.FileActivity, 0, len(names))
	for _, name := range names {
		activities = append(activities, *byFile[name])
	}
	return activities
}

// appendPRActivity records one pull request's contribution to a file's
// activity. Revert entries keep only nonzero observations, matching the
// source dataset semantics.
func appendPRActivity(a *model.FileActivity, b model.PRBundle) {
	a.Authors = append(a.Authors, b.PR.Author)
	a.PRIDs = append(a.PRIDs, b.PR.Number)
	a.CreatedTimes = append(a.CreatedTimes, b.PR.CreatedAt)
	a.ClosedTimes = append(a.ClosedTimes, b.PR.ClosedAt)
	a.ReviewTimes = append(a.ReviewTimes, b.PR.ReviewDuration().Seconds())

	if b.SectionErr(model.SectionRevertedPR) == nil && b.RevertedPR != nil {
		a.RevertedPRIDs = append(a.RevertedPRIDs, b.RevertedPR.Number)
		a.RevertTimes = append(a.RevertTimes, b.PR.CreatedAt.Sub(b.RevertedPR.CreatedAt).Seconds())
	}

	if b.SectionErr(model.SectionReviewComments) == nil {
		a.ReviewCommentCounts = append(a.ReviewCommentCounts, len(b.ReviewComments))
	}

	if b.SectionErr(model.SectionIssueComments) == nil {
		a.IssueCommentCounts = append(a.IssueCommentCounts, len(b.IssueComments))
		for _, c := range b.IssueComments {
			a.IssueComments = append(a.IssueComments, c.Body)
		}
	}

	if b.SectionErr(model.SectionReviews) == nil {
		approved := approvedReviewers(b.Reviews)
		a.ApprovedReviewerCounts = append(a.ApprovedReviewerCounts, len(approved))
		a.ApprovedReviewers = append(a.ApprovedReviewers, approved...)
	}

	a.CommitCounts = append(a.CommitCounts, len(b.Commits))

	if b.SectionErr(model.SectionFiles) == nil {
		total := 0
		for _, f := range b.Files {
			total += f.Changes
		}
		a.LineChangeCounts = append(a.LineChangeCounts, total)
	}

	if b.SectionErr(model.SectionCheckRuns) == nil {
		tally := model.CheckTally{}
		for _, runs := range b.CheckRuns {
			switch model.SummarizeCheckRuns(runs) {
			case model.CheckResultPassed:
				tally.Passed++
			case model.CheckResultFailed:
				tally.Failed++
			}
		}
		a.CheckTallies = append(a.CheckTallies, tally)
	}
}

// FileKey derives the identifying key recorded for a file activity.
func FileKey(a model.FileActivity) string {
	return a.RepoName + ":" + a.FileName
}

// FileSignals returns the file level signal definitions, in dataset column
// order. All extractors are total over FileActivity, so file level records
// never carry missing values.
func FileSignals() []signal.Definition[model.FileActivity] {
	return []signal.Definition[model.FileActivity]{
		{
			Name: "file name",
			Extract: func(a model.FileActivity) (any, error) {
				return a.FileName, nil
			},
		},
		{
			Name: "repo name",
			Extract: func(a model.FileActivity) (any, error) {
				return a.RepoName, nil
			},
		},
		{
			Name: "authors",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.Authors), nil
			},
		},
		{
			Name: "pr ids",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.PRIDs), nil
			},
		},
		{
			Name: "pr created times",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.CreatedTimes), nil
			},
		},
		{
			Name: "pr closed times",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ClosedTimes), nil
			},
		},
		{
			Name: "pr review times",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ReviewTimes), nil
			},
		},
		{
			Name: "reverted pr ids",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.RevertedPRIDs), nil
			},
		},
		{
			Name: "pr revert times",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.RevertTimes), nil
			},
		},
		{
			Name: "pr num review comments",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ReviewCommentCounts), nil
			},
		},
		{
			Name: "pr num issue comments",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.IssueCommentCounts), nil
			},
		},
		{
			Name: "pr issue comments msgs",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.IssueComments), nil
			},
		},
		{
			Name: "pr num approved reviewers",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ApprovedReviewerCounts), nil
			},
		},
		{
			Name: "pr approved reviewers",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ApprovedReviewers), nil
			},
		},
		{
			Name: "pr num commits",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.CommitCounts), nil
			},
		},
		{
			Name: "pr num line changes",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.LineChangeCounts), nil
			},
		},
		{
			Name: "pr check run results",
			Extract: func(a model.FileActivity) (any, error) {
				tallies := make([][]int, 0, len(a.CheckTallies))
				for _, t := range a.CheckTallies {
					tallies = append(tallies, []int{t.Passed, t.Failed})
				}
				return tallies, nil
			},
		},
		{
			Name: "file versions",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.Versions), nil
			},
		},
		{
			Name: "files changes",
			Extract: func(a model.FileActivity) (any, error) {
				rows := make([]fileChangeRow, 0, len(a.Changes))
				for _, c := range a.Changes {
					rows = append(rows, fileChangeRow{
						File:      c.Filename,
						Additions: c.Additions,
						Deletions: c.Deletions,
						Changes:   c.Changes,
					})
				}
				return rows, nil
			},
		},
		{
			Name: "review comments",
			Extract: func(a model.FileActivity) (any, error) {
				return emptyIfNil(a.ReviewComments), nil
			},
		},
	}
}

// emptyIfNil normalizes nil slices to empty so JSON renders "[]" rather
// than "null".
func emptyIfNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
