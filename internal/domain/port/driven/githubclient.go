// Package driven defines secondary port interfaces for external adapters.
package driven

import (
	"context"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
)

// GitHubClient defines the driven port for reading pull request data from
// the GitHub API. All list methods handle pagination internally and return
// results in API order.
type GitHubClient interface {
	// FetchMergedPullRequests returns the closed pull requests of the
	// repository that were merged and whose closed time falls inside the
	// window.
	FetchMergedPullRequests(ctx context.Context, repoFullName string, window model.Window) ([]model.PullRequest, error)

	// FetchPullRequest returns a single pull request by number.
	FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error)

	FetchReviews(ctx context.Context, repoFullName string, number int) ([]model.Review, error)
	FetchReviewComments(ctx context.Context, repoFullName string, number int) ([]model.ReviewComment, error)
	FetchIssueComments(ctx context.Context, repoFullName string, number int) ([]model.IssueComment, error)
	FetchCommits(ctx context.Context, repoFullName string, number int) ([]model.Commit, error)
	FetchFiles(ctx context.Context, repoFullName string, number int) ([]model.FileChange, error)

	// FetchCheckRuns returns all check runs for the given commit SHA.
	FetchCheckRuns(ctx context.Context, repoFullName string, sha string) ([]model.CheckRun, error)

	// FetchCommitFiles returns the filenames touched by the given commit.
	FetchCommitFiles(ctx context.Context, repoFullName string, sha string) ([]string, error)

	// FetchRepositoriesByUser returns the full names of a user's
	// repositories.
	FetchRepositoriesByUser(ctx context.Context, user string) ([]string, error)
}
