package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/port/driven"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// CollectService orchestrates signal collection runs: fetching pull request
// bundles from GitHub, collecting the signal tables, exporting CSV datasets,
// and recording each run in the ledger.
type CollectService struct {
	gh        driven.GitHubClient
	writer    driven.TableWriter
	runs      driven.RunStore
	fileLevel bool

	prCollector      *signal.Collector[model.PRBundle]
	fileCollector    *signal.Collector[model.FileActivity]
	featureCollector *signal.Collector[model.FileActivity]
}

// NewCollectService creates a CollectService. The signal definitions are
// validated here, so an invalid definition set fails at startup rather than
// mid-run. When fileLevel is true, each run additionally exports the file
// level and feature datasets.
func NewCollectService(
	gh driven.GitHubClient,
	writer driven.TableWriter,
	runs driven.RunStore,
	fileLevel bool,
) (*CollectService, error) {
	prCollector, err := signal.NewCollector(PullRequestKey, PullRequestSignals())
	if err != nil {
		return nil, fmt.Errorf("pull request signals: %w", err)
	}
	fileCollector, err := signal.NewCollector(FileKey, FileSignals())
	if err != nil {
		return nil, fmt.Errorf("file signals: %w", err)
	}
	featureCollector, err := signal.NewCollector(FileKey, FeatureSignals())
	if err != nil {
		return nil, fmt.Errorf("feature signals: %w", err)
	}

	return &CollectService{
		gh:               gh,
		writer:           writer,
		runs:             runs,
		fileLevel:        fileLevel,
		prCollector:      prCollector,
		fileCollector:    fileCollector,
		featureCollector: featureCollector,
	}, nil
}

// RunSummary reports the outcome of one repository collection run.
type RunSummary struct {
	RunID           int64
	RepoFullName    string
	Records         int
	MissingBySignal map[string]int
	OutputPath      string
	FileLevelPath   string
	FeaturesPath    string
}

// CollectRepo runs one collection for the repository over the window: it
// enumerates the merged pull requests, collects the pull request signal
// table, writes the CSV dataset, optionally derives the file level and
// feature datasets, and records the run. An unreachable source aborts with
// no partial output.
func (s *CollectService) CollectRepo(ctx context.Context, repoFullName string, window model.Window) (*RunSummary, error) {
	started := time.Now()
	slog.Info("collecting signals",
		"repo", repoFullName,
		"window_start", window.Start,
		"window_end", window.End,
	)

	src := NewPullRequestSource(s.gh, repoFullName, window)
	bundles, err := src.Entities(ctx)
	if err != nil {
		return nil, fmt.Errorf("enumerating %s: %w: %w", src.Ref(), signal.ErrSourceUnreachable, err)
	}
	slog.Info("pull requests bundled", "repo", repoFullName, "count", len(bundles))

	table, diag, err := s.prCollector.Collect(ctx, signal.NewSliceSource(repoFullName, bundles))
	if err != nil {
		return nil, err
	}

	for _, gap := range diag.Gaps {
		slog.Warn("signal value missing",
			"entity", gap.EntityKey,
			"signal", gap.Signal,
			"error", gap.Err,
		)
	}

	owner, repo, err := splitRepoName(repoFullName)
	if err != nil {
		return nil, err
	}

	path, err := s.writer.WriteTable(ctx, owner, repo, "pull_requests", table)
	if err != nil {
		return nil, fmt.Errorf("exporting pull request signals for %s: %w", repoFullName, err)
	}

	summary := &RunSummary{
		RepoFullName:    repoFullName,
		Records:         len(table.Records),
		MissingBySignal: diag.MissingBySignal,
		OutputPath:      path,
	}

	if s.fileLevel {
		if err := s.collectFileLevel(ctx, owner, repo, bundles, summary); err != nil {
			return nil, err
		}
	}

	runID, err := s.runs.Record(ctx, model.CollectionRun{
		RepoFullName:    repoFullName,
		WindowStart:     window.Start,
		WindowEnd:       window.End,
		Records:         len(table.Records),
		MissingTotal:    diag.MissingTotal(),
		MissingBySignal: diag.MissingBySignal,
		OutputPath:      path,
		StartedAt:       started,
		FinishedAt:      time.Now(),
	})
	if err != nil {
		return nil, fmt.Errorf("recording run for %s: %w", repoFullName, err)
	}
	summary.RunID = runID

	slog.Info("collection run complete",
		"repo", repoFullName,
		"run_id", runID,
		"records", summary.Records,
		"missing_values", diag.MissingTotal(),
		"elapsed", time.Since(started).Round(time.Millisecond),
	)

	return summary, nil
}

// collectFileLevel derives the file level and feature datasets from the
// bundles and exports them next to the pull request dataset.
func (s *CollectService) collectFileLevel(ctx context.Context, owner, repo string, bundles []model.PRBundle, summary *RunSummary) error {
	activities := AggregateFiles(bundles)
	slog.Info("file level activity aggregated", "repo", owner+"/"+repo, "files", len(activities))

	src := signal.NewSliceSource(owner+"/"+repo+"/files", activities)

	fileTable, _, err := s.fileCollector.Collect(ctx, src)
	if err != nil {
		return err
	}
	filePath, err := s.writer.WriteTable(ctx, owner, repo, "file_level", fileTable)
	if err != nil {
		return fmt.Errorf("exporting file level signals for %s/%s: %w", owner, repo, err)
	}
	summary.FileLevelPath = filePath

	featureTable, _, err := s.featureCollector.Collect(ctx, src)
	if err != nil {
		return err
	}
	featuresPath, err := s.writer.WriteTable(ctx, owner, repo, "file_features", featureTable)
	if err != nil {
		return fmt.Errorf("exporting file features for %s/%s: %w", owner, repo, err)
	}
	summary.FeaturesPath = featuresPath

	return nil
}

// splitRepoName splits a "owner/repo" string into its two components.
func splitRepoName(fullName string) (string, string, error) {
	parts := strings.SplitN(fullName, "/", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("invalid repo name %q: expected owner/repo", fullName)
	}
	return parts[0], parts[1], nil
}
