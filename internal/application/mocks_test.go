package application_test

import (
	"context"
	"fmt"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// mockGitHub implements driven.GitHubClient with overridable functions.
// Unset functions return empty results.
type mockGitHub struct {
	mergedPRsFn      func(ctx context.Context, repo string, window model.Window) ([]model.PullRequest, error)
	pullRequestFn    func(ctx context.Context, repo string, number int) (*model.PullRequest, error)
	reviewsFn        func(ctx context.Context, repo string, number int) ([]model.Review, error)
	reviewCommentsFn func(ctx context.Context, repo string, number int) ([]model.ReviewComment, error)
	issueCommentsFn  func(ctx context.Context, repo string, number int) ([]model.IssueComment, error)
	commitsFn        func(ctx context.Context, repo string, number int) ([]model.Commit, error)
	filesFn          func(ctx context.Context, repo string, number int) ([]model.FileChange, error)
	checkRunsFn      func(ctx context.Context, repo string, sha string) ([]model.CheckRun, error)
	commitFilesFn    func(ctx context.Context, repo string, sha string) ([]string, error)
	userReposFn      func(ctx context.Context, user string) ([]string, error)
}

func (m *mockGitHub) FetchMergedPullRequests(ctx context.Context, repo string, window model.Window) ([]model.PullRequest, error) {
	if m.mergedPRsFn != nil {
		return m.mergedPRsFn(ctx, repo, window)
	}
	return nil, nil
}

func (m *mockGitHub) FetchPullRequest(ctx context.Context, repo string, number int) (*model.PullRequest, error) {
	if m.pullRequestFn != nil {
		return m.pullRequestFn(ctx, repo, number)
	}
	return nil, fmt.Errorf("pull request %d not found", number)
}

func (m *mockGitHub) FetchReviews(ctx context.Context, repo string, number int) ([]model.Review, error) {
	if m.reviewsFn != nil {
		return m.reviewsFn(ctx, repo, number)
	}
	return nil, nil
}

func (m *mockGitHub) FetchReviewComments(ctx context.Context, repo string, number int) ([]model.ReviewComment, error) {
	if m.reviewCommentsFn != nil {
		return m.reviewCommentsFn(ctx, repo, number)
	}
	return nil, nil
}

func (m *mockGitHub) FetchIssueComments(ctx context.Context, repo string, number int) ([]model.IssueComment, error) {
	if m.issueCommentsFn != nil {
		return m.issueCommentsFn(ctx, repo, number)
	}
	return nil, nil
}

func (m *mockGitHub) FetchCommits(ctx context.Context, repo string, number int) ([]model.Commit, error) {
	if m.commitsFn != nil {
		return m.commitsFn(ctx, repo, number)
	}
	return nil, nil
}

func (m *mockGitHub) FetchFiles(ctx context.Context, repo string, number int) ([]model.FileChange, error) {
	if m.filesFn != nil {
		return m.filesFn(ctx, repo, number)
	}
	return nil, nil
}

func (m *mockGitHub) FetchCheckRuns(ctx context.Context, repo string, sha string) ([]model.CheckRun, error) {
	if m.checkRunsFn != nil {
		return m.checkRunsFn(ctx, repo, sha)
	}
	return nil, nil
}

func (m *mockGitHub) FetchCommitFiles(ctx context.Context, repo string, sha string) ([]string, error) {
	if m.commitFilesFn != nil {
		return m.commitFilesFn(ctx, repo, sha)
	}
	return nil, nil
}

func (m *mockGitHub) FetchRepositoriesByUser(ctx context.Context, user string) ([]string, error) {
	if m.userReposFn != nil {
		return m.userReposFn(ctx, user)
	}
	return nil, nil
}

// writtenTable records one TableWriter call.
type writtenTable struct {
	company string
	repo    string
	name    string
	table   *signal.Table
}

// mockWriter implements driven.TableWriter and captures every write.
type mockWriter struct {
	writes []writtenTable
	err    error
}

func (m *mockWriter) WriteTable(_ context.Context, company, repo, name string, table *signal.Table) (string, error) {
	if m.err != nil {
		return "", m.err
	}
	m.writes = append(m.writes, writtenTable{company: company, repo: repo, name: name, table: table})
	return "/data/" + company + "/" + repo + "/" + name + "_signals.csv", nil
}

func (m *mockWriter) tableNamed(name string) *signal.Table {
	for _, w := range m.writes {
		if w.name == name {
			return w.table
		}
	}
	return nil
}

// mockRunStore implements driven.RunStore and captures recorded runs.
type mockRunStore struct {
	runs []model.CollectionRun
	err  error
}

func (m *mockRunStore) Record(_ context.Context, run model.CollectionRun) (int64, error) {
	if m.err != nil {
		return 0, m.err
	}
	m.runs = append(m.runs, run)
	return int64(len(m.runs)), nil
}

func (m *mockRunStore) ListByRepository(_ context.Context, repoFullName string) ([]model.CollectionRun, error) {
	var out []model.CollectionRun
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].RepoFullName == repoFullName {
			out = append(out, m.runs[i])
		}
	}
	return out, nil
}

func (m *mockRunStore) Latest(_ context.Context, repoFullName string) (*model.CollectionRun, error) {
	for i := len(m.runs) - 1; i >= 0; i-- {
		if m.runs[i].RepoFullName == repoFullName {
			run := m.runs[i]
			return &run, nil
		}
	}
	return nil, nil
}
