// Package application contains use-case orchestration: entity sources,
// signal definitions, dataset transforms, and the collection service.
package application

import (
	"context"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/port/driven"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// Compile-time interface satisfaction check.
var _ signal.Source[model.PRBundle] = (*PullRequestSource)(nil)

// revertRefPattern matches the "#NNN" pull request reference a revert body
// carries.
var revertRefPattern = regexp.MustCompile(`#[0-9]+`)

// PullRequestSource enumerates the merged pull requests of one repository
// within a window, bundling each with the related data its signals are
// computed from. A sub-fetch failure marks that bundle section failed so a
// single broken endpoint degrades to missing values instead of aborting the
// whole collection.
type PullRequestSource struct {
	gh     driven.GitHubClient
	repo   string
	window model.Window
}

// NewPullRequestSource creates a source for the given repository and window.
func NewPullRequestSource(gh driven.GitHubClient, repoFullName string, window model.Window) *PullRequestSource {
	return &PullRequestSource{gh: gh, repo: repoFullName, window: window}
}

// Ref identifies the source in errors and logs.
func (s *PullRequestSource) Ref() string { return s.repo }

// Entities fetches the merged pull requests in the window and builds one
// bundle per pull request, in API order.
func (s *PullRequestSource) Entities(ctx context.Context) ([]model.PRBundle, error) {
	prs, err := s.gh.FetchMergedPullRequests(ctx, s.repo, s.window)
	if err != nil {
		return nil, err
	}

	bundles := make([]model.PRBundle, 0, len(prs))
	for _, pr := range prs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		slog.Debug("building bundle", "repo", s.repo, "pr_number", pr.Number)
		bundles = append(bundles, s.buildBundle(ctx, pr))
	}

	return bundles, nil
}

// buildBundle fetches all related data for one pull request. Each section is
// fetched independently; failures are recorded on the bundle and logged.
func (s *PullRequestSource) buildBundle(ctx context.Context, pr model.PullRequest) model.PRBundle {
	b := model.PRBundle{RepoFullName: s.repo, PR: pr}

	var err error
	if b.Reviews, err = s.gh.FetchReviews(ctx, s.repo, pr.Number); err != nil {
		s.markFailed(&b, model.SectionReviews, err)
	}
	if b.ReviewComments, err = s.gh.FetchReviewComments(ctx, s.repo, pr.Number); err != nil {
		s.markFailed(&b, model.SectionReviewComments, err)
	}
	if b.IssueComments, err = s.gh.FetchIssueComments(ctx, s.repo, pr.Number); err != nil {
		s.markFailed(&b, model.SectionIssueComments, err)
	}
	if b.Files, err = s.gh.FetchFiles(ctx, s.repo, pr.Number); err != nil {
		s.markFailed(&b, model.SectionFiles, err)
	}

	s.fetchCommitData(ctx, &b)
	s.fetchRevertTarget(ctx, &b)

	return b
}

// fetchCommitData fetches the bundle's commits and, per commit, its check
// runs and touched files. The commit-derived sections depend on the commit
// list, so a commit fetch failure fails all three.
func (s *PullRequestSource) fetchCommitData(ctx context.Context, b *model.PRBundle) {
	commits, err := s.gh.FetchCommits(ctx, s.repo, b.PR.Number)
	if err != nil {
		s.markFailed(b, model.SectionCommits, err)
		s.markFailed(b, model.SectionCheckRuns, err)
		s.markFailed(b, model.SectionCommitFiles, err)
		return
	}
	b.Commits = commits

	checkRuns := make([][]model.CheckRun, 0, len(commits))
	for _, commit := range commits {
		runs, err := s.gh.FetchCheckRuns(ctx, s.repo, commit.SHA)
		if err != nil {
			s.markFailed(b, model.SectionCheckRuns, err)
			checkRuns = nil
			break
		}
		checkRuns = append(checkRuns, runs)
	}
	b.CheckRuns = checkRuns

	commitFiles := make([][]string, 0, len(commits))
	for _, commit := range commits {
		files, err := s.gh.FetchCommitFiles(ctx, s.repo, commit.SHA)
		if err != nil {
			s.markFailed(b, model.SectionCommitFiles, err)
			commitFiles = nil
			break
		}
		commitFiles = append(commitFiles, files)
	}
	b.CommitFiles = commitFiles
}

// fetchRevertTarget resolves the pull request this one reverts, if its body
// declares a revert. No reference means no revert; an unfetchable reference
// fails the section.
func (s *PullRequestSource) fetchRevertTarget(ctx context.Context, b *model.PRBundle) {
	number := detectRevertedNumber(b.PR.Body)
	if number == 0 {
		return
	}

	original, err := s.gh.FetchPullRequest(ctx, s.repo, number)
	if err != nil {
		s.markFailed(b, model.SectionRevertedPR, err)
		return
	}
	b.RevertedPR = original
}

func (s *PullRequestSource) markFailed(b *model.PRBundle, section model.Section, err error) {
	b.MarkFailed(section, err)
	slog.Warn("bundle section fetch failed",
		"repo", s.repo,
		"pr_number", b.PR.Number,
		"section", section,
		"error", err,
	)
}

// detectRevertedNumber returns the pull request number a revert body refers
// to, or zero when the body does not declare a revert. A body declares a
// revert when it mentions "revert" and carries a "#NNN" reference; the first
// reference is taken as the reverted pull request.
func detectRevertedNumber(body string) int {
	if body == "" || !strings.Contains(strings.ToLower(body), "revert") {
		return 0
	}

	match := revertRefPattern.FindString(body)
	if match == "" {
		return 0
	}

	number, err := strconv.Atoi(strings.TrimPrefix(match, "#"))
	if err != nil {
		return 0
	}
	return number
}
