package github_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	ghAdapter "github.com/googleinterns/cl-analysis/internal/adapter/driven/github"
	"github.com/googleinterns/cl-analysis/internal/domain/model"
)

// newTestClient creates a Client backed by the given httptest handler.
func newTestClient(t *testing.T, handler http.Handler) (*ghAdapter.Client, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := ghAdapter.NewClientWithHTTPClient(
		server.Client(),
		server.URL+"/",
		"testuser",
	)
	require.NoError(t, err)

	return client, server
}

// prJSON is a helper struct for building GitHub API pull request responses.
type prJSON struct {
	Number   int      `json:"number"`
	Title    string   `json:"title"`
	State    string   `json:"state"`
	Body     string   `json:"body"`
	HTMLURL  string   `json:"html_url"`
	User     userJSON `json:"user"`
	Created  string   `json:"created_at"`
	ClosedAt *string  `json:"closed_at,omitempty"`
	MergedAt *string  `json:"merged_at,omitempty"`
}

type userJSON struct {
	Login string `json:"login"`
}

func strPtr(s string) *string { return &s }

func testWindow(t *testing.T) model.Window {
	t.Helper()
	w, err := model.NewWindow(
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 12, 31, 23, 59, 59, 0, time.UTC),
	)
	require.NoError(t, err)
	return w
}

func TestFetchMergedPullRequests_FiltersUnmergedAndOutOfWindow(t *testing.T) {
	prs := []prJSON{
		{
			Number:   11,
			Title:    "Merged inside window",
			State:    "closed",
			User:     userJSON{Login: "alice"},
			Created:  "2020-03-01T00:00:00Z",
			ClosedAt: strPtr("2020-03-05T00:00:00Z"),
			MergedAt: strPtr("2020-03-05T00:00:00Z"),
		},
		{
			Number:   12,
			Title:    "Closed without merging",
			State:    "closed",
			User:     userJSON{Login: "bob"},
			Created:  "2020-03-02T00:00:00Z",
			ClosedAt: strPtr("2020-03-06T00:00:00Z"),
		},
		{
			Number:   13,
			Title:    "Merged outside window",
			State:    "closed",
			User:     userJSON{Login: "carol"},
			Created:  "2019-01-01T00:00:00Z",
			ClosedAt: strPtr("2019-02-01T00:00:00Z"),
			MergedAt: strPtr("2019-02-01T00:00:00Z"),
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "closed", r.URL.Query().Get("state"))
		require.NoError(t, json.NewEncoder(w).Encode(prs))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchMergedPullRequests(context.Background(), "owner/repo", testWindow(t))
	require.NoError(t, err)

	require.Len(t, got, 1)
	assert.Equal(t, 11, got[0].Number)
	assert.Equal(t, "owner/repo", got[0].RepoFullName)
	assert.Equal(t, "alice", got[0].Author)
	assert.True(t, got[0].IsMerged())
	assert.Equal(t, 4*24*time.Hour, got[0].ReviewDuration())
}

func TestFetchMergedPullRequests_Pagination(t *testing.T) {
	page1 := []prJSON{{
		Number:   1,
		State:    "closed",
		User:     userJSON{Login: "alice"},
		Created:  "2020-03-01T00:00:00Z",
		ClosedAt: strPtr("2020-03-02T00:00:00Z"),
		MergedAt: strPtr("2020-03-02T00:00:00Z"),
	}}
	page2 := []prJSON{{
		Number:   2,
		State:    "closed",
		User:     userJSON{Login: "bob"},
		Created:  "2020-04-01T00:00:00Z",
		ClosedAt: strPtr("2020-04-02T00:00:00Z"),
		MergedAt: strPtr("2020-04-02T00:00:00Z"),
	}}

	var server *httptest.Server
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("page") == "2" {
			require.NoError(t, json.NewEncoder(w).Encode(page2))
			return
		}
		w.Header().Set("Link", fmt.Sprintf(`<%s/repos/owner/repo/pulls?page=2>; rel="next"`, server.URL))
		require.NoError(t, json.NewEncoder(w).Encode(page1))
	})

	client, srv := newTestClient(t, mux)
	server = srv

	got, err := client.FetchMergedPullRequests(context.Background(), "owner/repo", testWindow(t))
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, 1, got[0].Number)
	assert.Equal(t, 2, got[1].Number)
}

func TestFetchMergedPullRequests_InvalidRepoName(t *testing.T) {
	client, _ := newTestClient(t, http.NewServeMux())

	_, err := client.FetchMergedPullRequests(context.Background(), "not-a-repo", testWindow(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected owner/repo")
}

func TestFetchMergedPullRequests_ServerError(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/pulls", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"message":"boom"}`, http.StatusBadGateway)
	})

	client, _ := newTestClient(t, mux)

	_, err := client.FetchMergedPullRequests(context.Background(), "owner/repo", testWindow(t))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "owner/repo")
}

func TestFetchReviews_MapsStates(t *testing.T) {
	reviews := []map[string]any{
		{
			"id":           int64(100),
			"state":        "APPROVED",
			"body":         "lgtm",
			"user":         map[string]any{"login": "dana"},
			"submitted_at": "2020-03-04T10:00:00Z",
		},
		{
			"id":    int64(101),
			"state": "CHANGES_REQUESTED",
			"user":  map[string]any{"login": "erin"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/pulls/7/reviews", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(reviews))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchReviews(context.Background(), "owner/repo", 7)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, model.ReviewStateApproved, got[0].State)
	assert.Equal(t, "dana", got[0].ReviewerLogin)
	assert.Equal(t, model.ReviewStateChangesRequested, got[1].State)
}

func TestFetchFiles_MapsLineChanges(t *testing.T) {
	files := []map[string]any{
		{"filename": "pkg/a.go", "additions": 10, "deletions": 2, "changes": 12},
		{"filename": "pkg/b.go", "additions": 1, "deletions": 1, "changes": 2},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/pulls/7/files", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(files))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchFiles(context.Background(), "owner/repo", 7)
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, model.FileChange{Filename: "pkg/a.go", Additions: 10, Deletions: 2, Changes: 12}, got[0])
}

func TestFetchCheckRuns_MapsConclusions(t *testing.T) {
	payload := map[string]any{
		"total_count": 2,
		"check_runs": []map[string]any{
			{"id": int64(1), "name": "build", "status": "completed", "conclusion": "success"},
			{"id": int64(2), "name": "lint", "status": "completed", "conclusion": "timed_out"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/commits/abc123/check-runs", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(payload))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchCheckRuns(context.Background(), "owner/repo", "abc123")
	require.NoError(t, err)

	require.Len(t, got, 2)
	assert.Equal(t, "success", got[0].Conclusion)
	assert.Equal(t, model.CheckResultFailed, model.SummarizeCheckRuns(got))
}

func TestFetchCommitFiles(t *testing.T) {
	commit := map[string]any{
		"sha": "abc123",
		"files": []map[string]any{
			{"filename": "pkg/a.go"},
			{"filename": "docs/readme.md"},
		},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/repos/owner/repo/commits/abc123", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(commit))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchCommitFiles(context.Background(), "owner/repo", "abc123")
	require.NoError(t, err)

	assert.Equal(t, []string{"pkg/a.go", "docs/readme.md"}, got)
}

func TestFetchRepositoriesByUser(t *testing.T) {
	repos := []map[string]any{
		{"full_name": "google/automl"},
		{"full_name": "google/gvisor"},
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/users/google/repos", func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewEncoder(w).Encode(repos))
	})

	client, _ := newTestClient(t, mux)

	got, err := client.FetchRepositoriesByUser(context.Background(), "google")
	require.NoError(t, err)

	assert.Equal(t, []string{"google/automl", "google/gvisor"}, got)
}
