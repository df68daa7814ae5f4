// Package github implements the GitHubClient port using the go-github library.
package github

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	gh "github.com/google/go-github/v82/github"
	"github.com/gregjones/httpcache"

	"github.com/gofri/go-github-ratelimit/v2/github_ratelimit"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.GitHubClient = (*Client)(nil)

// Client implements the driven.GitHubClient port using the go-github library.
type Client struct {
	gh       *gh.Client
	username string
}

// NewClient creates a new GitHub API client with the following transport stack:
//  1. httpcache (ETag-based conditional request caching)
//  2. go-github-ratelimit (secondary rate limit middleware, sleeps on 429)
//  3. go-github (GitHub REST API client with PAT auth)
func NewClient(token, username string) *Client {
	cacheTransport := httpcache.NewMemoryCacheTransport()
	rateLimitClient := github_ratelimit.NewClient(cacheTransport)
	client := gh.NewClient(rateLimitClient).WithAuthToken(token)

	return &Client{
		gh:       client,
		username: username,
	}
}

// NewClientWithHTTPClient creates a Client with a custom http.Client and base URL.
// This constructor is intended for testing, allowing injection of an httptest server.
func NewClientWithHTTPClient(httpClient *http.Client, baseURL, username string) (*Client, error) {
	client := gh.NewClient(httpClient)

	u, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("parsing base URL: %w", err)
	}
	client.BaseURL = u

	return &Client{
		gh:       client,
		username: username,
	}, nil
}

// FetchMergedPullRequests retrieves the repository's closed pull requests,
// keeping those that were merged and whose closed time falls inside the
// window. It handles pagination automatically and maps go-github types to
// domain model types.
func (c *Client) FetchMergedPullRequests(ctx context.Context, repoFullName string, window model.Window) ([]model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListOptions{
		State:     "closed",
		Sort:      "created",
		Direction: "desc",
		ListOptions: gh.ListOptions{
			PerPage: 100,
		},
	}

	prs := []model.PullRequest{}

	for {
		page, resp, err := c.gh.PullRequests.List(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests for %s (page %d): %w", repoFullName, opts.Page, err)
		}

		logRateLimit(resp, repoFullName, opts.Page, len(page))

		for _, pr := range page {
			if pr.GetMergedAt().IsZero() {
				continue
			}
			if !window.Contains(pr.GetClosedAt().Time) {
				continue
			}
			prs = append(prs, mapPullRequest(pr, repoFullName))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return prs, nil
}

// FetchPullRequest retrieves a single pull request by number.
func (c *Client) FetchPullRequest(ctx context.Context, repoFullName string, number int) (*model.PullRequest, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	pr, resp, err := c.gh.PullRequests.Get(ctx, owner, repo, number)
	if err != nil {
		return nil, fmt.Errorf("fetching pull request %s#%d: %w", repoFullName, number, err)
	}

	logRateLimit(resp, fmt.Sprintf("%s#%d", repoFullName, number), 0, 1)

	mapped := mapPullRequest(pr, repoFullName)
	return &mapped, nil
}

// FetchReviews retrieves all reviews for a pull request.
func (c *Client) FetchReviews(ctx context.Context, repoFullName string, number int) ([]model.Review, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var all []model.Review

	for {
		reviews, resp, err := c.gh.PullRequests.ListReviews(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing reviews for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, r := range reviews {
			all = append(all, model.Review{
				ID:            r.GetID(),
				ReviewerLogin: r.GetUser().GetLogin(),
				State:         model.ReviewState(strings.ToLower(r.GetState())),
				Body:          r.GetBody(),
				SubmittedAt:   r.GetSubmittedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchReviewComments retrieves all review comments (inline code comments)
// for a pull request.
func (c *Client) FetchReviewComments(ctx context.Context, repoFullName string, number int) ([]model.ReviewComment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.PullRequestListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []model.ReviewComment

	for {
		comments, resp, err := c.gh.PullRequests.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing review comments for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, comment := range comments {
			all = append(all, model.ReviewComment{
				ID:        comment.GetID(),
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				Path:      comment.GetPath(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchIssueComments retrieves all general PR-level comments (from the Issues
// API) for a pull request.
func (c *Client) FetchIssueComments(ctx context.Context, repoFullName string, number int) ([]model.IssueComment, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.IssueListCommentsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var all []model.IssueComment

	for {
		comments, resp, err := c.gh.Issues.ListComments(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing issue comments for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, comment := range comments {
			all = append(all, model.IssueComment{
				ID:        comment.GetID(),
				Author:    comment.GetUser().GetLogin(),
				Body:      comment.GetBody(),
				CreatedAt: comment.GetCreatedAt().Time,
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchCommits retrieves all commits belonging to a pull request.
func (c *Client) FetchCommits(ctx context.Context, repoFullName string, number int) ([]model.Commit, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var all []model.Commit

	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, commit := range commits {
			all = append(all, model.Commit{
				SHA:     commit.GetSHA(),
				Author:  commit.GetAuthor().GetLogin(),
				Message: commit.GetCommit().GetMessage(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchFiles retrieves the changed files of a pull request with their line
// change statistics.
func (c *Client) FetchFiles(ctx context.Context, repoFullName string, number int) ([]model.FileChange, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var all []model.FileChange

	for {
		files, resp, err := c.gh.PullRequests.ListFiles(ctx, owner, repo, number, opts)
		if err != nil {
			return nil, fmt.Errorf("listing files for %s#%d (page %d): %w", repoFullName, number, opts.Page, err)
		}

		for _, f := range files {
			all = append(all, mapCommitFile(f))
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchCheckRuns retrieves all check runs for the given commit SHA.
func (c *Client) FetchCheckRuns(ctx context.Context, repoFullName string, sha string) ([]model.CheckRun, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListCheckRunsOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}

	all := []model.CheckRun{}

	for {
		result, resp, err := c.gh.Checks.ListCheckRunsForRef(ctx, owner, repo, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("listing check runs for %s@%s (page %d): %w", repoFullName, sha, opts.Page, err)
		}

		logRateLimit(resp, repoFullName+"/check-runs", opts.Page, len(result.CheckRuns))

		for _, cr := range result.CheckRuns {
			all = append(all, model.CheckRun{
				ID:         cr.GetID(),
				Name:       cr.GetName(),
				Status:     cr.GetStatus(),
				Conclusion: cr.GetConclusion(),
			})
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return all, nil
}

// FetchCommitFiles retrieves the filenames touched by the given commit.
func (c *Client) FetchCommitFiles(ctx context.Context, repoFullName string, sha string) ([]string, error) {
	owner, repo, err := splitRepo(repoFullName)
	if err != nil {
		return nil, err
	}

	opts := &gh.ListOptions{PerPage: 100}
	var names []string

	for {
		commit, resp, err := c.gh.Repositories.GetCommit(ctx, owner, repo, sha, opts)
		if err != nil {
			return nil, fmt.Errorf("fetching commit %s@%s (page %d): %w", repoFullName, sha, opts.Page, err)
		}

		for _, f := range commit.Files {
			names = append(names, f.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// FetchRepositoriesByUser retrieves the full names of a user's repositories.
func (c *Client) FetchRepositoriesByUser(ctx context.Context, user string) ([]string, error) {
	opts := &gh.RepositoryListByUserOptions{
		ListOptions: gh.ListOptions{PerPage: 100},
	}
	var names []string

	for {
		repos, resp, err := c.gh.Repositories.ListByUser(ctx, user, opts)
		if err != nil {
			return nil, fmt.Errorf("listing repositories for %s (page %d): %w", user, opts.Page, err)
		}

		logRateLimit(resp, "users/"+user+"/repos", opts.Page, len(repos))

		for _, r := range repos {
			names = append(names, r.GetFullName())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	return names, nil
}

// mapPullRequest converts a go-github PullRequest to a domain model
// PullRequest. It uses GetXxx() helper methods exclusively to avoid nil
// pointer panics.
func mapPullRequest(pr *gh.PullRequest, repoFullName string) model.PullRequest {
	return model.PullRequest{
		Number:       pr.GetNumber(),
		RepoFullName: repoFullName,
		Title:        pr.GetTitle(),
		Author:       pr.GetUser().GetLogin(),
		Body:         pr.GetBody(),
		State:        model.PRState(pr.GetState()),
		URL:          pr.GetHTMLURL(),
		CreatedAt:    pr.GetCreatedAt().Time,
		ClosedAt:     pr.GetClosedAt().Time,
		MergedAt:     pr.GetMergedAt().Time,
	}
}

// mapCommitFile converts a go-github CommitFile to a domain model FileChange.
func mapCommitFile(f *gh.CommitFile) model.FileChange {
	return model.FileChange{
		Filename:  f.GetFilename(),
		Additions: f.GetAdditions(),
		Deletions: f.GetDeletions(),
		Changes:   f.GetChanges(),
	}
}

// logRateLimit logs the GitHub API rate limit status after each call.
func logRateLimit(resp *gh.Response, endpoint string, page, count int) {
	if resp == nil {
		return
	}

	slog.Debug("github api call",
		"endpoint", endpoint,
		"page", page,
		"count", count,
		"rate_remaining", resp.Rate.Remaining,
		"rate_limit", resp.Rate.Limit,
	)

	if resp.Rate.Remaining < 100 {
		slog.Warn("github rate limit low",
			"remaining", resp.Rate.Remaining,
			"reset_in", time.Until(resp.Rate.Reset.Time).Round(time.Second),
		)
	}
}

// splitRepo splits a "owner/repo" string into its two components.
func splitRepo(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
