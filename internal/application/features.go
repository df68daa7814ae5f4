package application

import (
	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// FeatureSignals returns the per-file feature definitions derived from file
// level activity: counts, totals, and averages over each file's pull request
// history, in dataset column order. Averages over empty histories are zero.
func FeatureSignals() []signal.Definition[model.FileActivity] {
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
			Name: "num prs",
			Extract: func(a model.FileActivity) (any, error) {
				return len(a.PRIDs), nil
			},
		},
		{
			Name: "num authors",
			Extract: func(a model.FileActivity) (any, error) {
				return len(a.Authors), nil
			},
		},
		{
			Name: "review time total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumFloats(a.ReviewTimes), nil
			},
		},
		{
			Name: "review time avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgFloats(a.ReviewTimes), nil
			},
		},
		{
			Name: "reverted count",
			Extract: func(a model.FileActivity) (any, error) {
				return len(a.RevertedPRIDs), nil
			},
		},
		{
			Name: "revert time total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumFloats(a.RevertTimes), nil
			},
		},
		{
			Name: "revert time avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgFloats(a.RevertTimes), nil
			},
		},
		{
			Name: "review comments total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.ReviewCommentCounts), nil
			},
		},
		{
			Name: "review comments avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.ReviewCommentCounts), nil
			},
		},
		{
			Name: "issue comments total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.IssueCommentCounts), nil
			},
		},
		{
			Name: "issue comments avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.IssueCommentCounts), nil
			},
		},
		{
			Name: "approved reviewers total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.ApprovedReviewerCounts), nil
			},
		},
		{
			Name: "approved reviewers avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.ApprovedReviewerCounts), nil
			},
		},
		{
			Name: "commits total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.CommitCounts), nil
			},
		},
		{
			Name: "commits avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.CommitCounts), nil
			},
		},
		{
			Name: "line changes total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.LineChangeCounts), nil
			},
		},
		{
			Name: "line changes avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.LineChangeCounts), nil
			},
		},
		{
			Name: "file versions total",
			Extract: func(a model.FileActivity) (any, error) {
				return sumInts(a.Versions), nil
			},
		},
		{
			Name: "file versions avg",
			Extract: func(a model.FileActivity) (any, error) {
				return avgInts(a.Versions), nil
			},
		},
		{
			Name: "checks passed count",
			Extract: func(a model.FileActivity) (any, error) {
				passed, _ := tallyTotals(a.CheckTallies)
				return passed, nil
			},
		},
		{
			Name: "checks failed count",
			Extract: func(a model.FileActivity) (any, error) {
				_, failed := tallyTotals(a.CheckTallies)
				return failed, nil
			},
		},
		{
			Name: "checks passed avg",
			Extract: func(a model.FileActivity) (any, error) {
				passed, _ := tallyTotals(a.CheckTallies)
				return ratio(passed, len(a.CheckTallies)), nil
			},
		},
		{
			Name: "checks failed avg",
			Extract: func(a model.FileActivity) (any, error) {
				_, failed := tallyTotals(a.CheckTallies)
				return ratio(failed, len(a.CheckTallies)), nil
			},
		},
		{
			Name: "additions total",
			Extract: func(a model.FileActivity) (any, error) {
				add, _, _ := changeTotals(a.Changes)
				return add, nil
			},
		},
		{
			Name: "deletions total",
			Extract: func(a model.FileActivity) (any, error) {
				_, del, _ := changeTotals(a.Changes)
				return del, nil
			},
		},
		{
			Name: "changes total",
			Extract: func(a model.FileActivity) (any, error) {
				_, _, changes := changeTotals(a.Changes)
				return changes, nil
			},
		},
		{
			Name: "additions avg",
			Extract: func(a model.FileActivity) (any, error) {
				add, _, _ := changeTotals(a.Changes)
				return ratio(add, len(a.Changes)), nil
			},
		},
		{
			Name: "deletions avg",
			Extract: func(a model.FileActivity) (any, error) {
				_, del, _ := changeTotals(a.Changes)
				return ratio(del, len(a.Changes)), nil
			},
		},
		{
			Name: "changes avg",
			Extract: func(a model.FileActivity) (any, error) {
				_, _, changes := changeTotals(a.Changes)
				return ratio(changes, len(a.Changes)), nil
			},
		},
		{
			Name: "review comments per pr",
			Extract: func(a model.FileActivity) (any, error) {
				return ratio(len(a.ReviewComments), len(a.PRIDs)), nil
			},
		},
	}
}

func sumInts(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func avgInts(values []int) float64 {
	return ratio(sumInts(values), len(values))
}

func sumFloats(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func avgFloats(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}
	return sumFloats(values) / float64(len(values))
}

func ratio(total, count int) float64 {
	if count == 0 {
		return 0.0
	}
	return float64(total) / float64(count)
}

func tallyTotals(tallies []model.CheckTally) (passed, failed int) {
	for _, t := range tallies {
		passed += t.Passed
		failed += t.Failed
	}
	return passed, failed
}

func changeTotals(changes []model.FileChange) (additions, deletions, total int) {
	for _, c := range changes {
		additions += c.Additions
		deletions += c.Deletions
		total += c.Changes
	}
	return additions, deletions, total
}
