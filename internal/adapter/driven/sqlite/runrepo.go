package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
	"github.com/googleinterns/cl-analysis/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.RunStore = (*RunRepo)(nil)

// RunRepo is the SQLite implementation of the RunStore port interface.
type RunRepo struct {
	db *DB
}

// NewRunRepo creates a new RunRepo backed by the given DB.
func NewRunRepo(db *DB) *RunRepo {
	return &RunRepo{db: db}
}

// Record appends a completed collection run to the ledger and returns its
// assigned ID. Per-signal missing counts are serialized as a JSON object in
// the TEXT column.
func (r *RunRepo) Record(ctx context.Context, run model.CollectionRun) (int64, error) {
	const query = `
		INSERT INTO collection_runs (
			repo_full_name, window_start, window_end, records,
			missing_total, missing_by_signal, output_path, started_at, finished_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	missing := run.MissingBySignal
	if missing == nil {
		missing = map[string]int{}
	}
	missingJSON, err := json.Marshal(missing)
	if err != nil {
		return 0, fmt.Errorf("marshal missing counts: %w", err)
	}

	res, err := r.db.Writer.ExecContext(ctx, query,
		run.RepoFullName, run.WindowStart.UTC(), run.WindowEnd.UTC(), run.Records,
		run.MissingTotal, string(missingJSON), run.OutputPath,
		run.StartedAt.UTC(), run.FinishedAt.UTC(),
	)
	if err != nil {
		return 0, fmt.Errorf("record run for %s: %w", run.RepoFullName, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("last insert id: %w", err)
	}

	return id, nil
}

// ListByRepository returns all runs for the repository, most recent first.
func (r *RunRepo) ListByRepository(ctx context.Context, repoFullName string) ([]model.CollectionRun, error) {
	const query = `
		SELECT id, repo_full_name, window_start, window_end, records,
		       missing_total, missing_by_signal, output_path, started_at, finished_at
		FROM collection_runs
		WHERE repo_full_name = ?
		ORDER BY started_at DESC, id DESC
	`

	rows, err := r.db.Reader.QueryContext(ctx, query, repoFullName)
	if err != nil {
		return nil, fmt.Errorf("list runs for %s: %w", repoFullName, err)
	}
	defer rows.Close()

	var runs []model.CollectionRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs for %s: %w", repoFullName, err)
	}

	return runs, nil
}

// Latest returns the most recent run for the repository, or nil when the
// repository has never been collected.
func (r *RunRepo) Latest(ctx context.Context, repoFullName string) (*model.CollectionRun, error) {
	const query = `
		SELECT id, repo_full_name, window_start, window_end, records,
		       missing_total, missing_by_signal, output_path, started_at, finished_at
		FROM collection_runs
		WHERE repo_full_name = ?
		ORDER BY started_at DESC, id DESC
		LIMIT 1
	`

	row := r.db.Reader.QueryRowContext(ctx, query, repoFullName)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &run, nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanRun.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (model.CollectionRun, error) {
	var (
		run         model.CollectionRun
		missingJSON string
	)

	err := row.Scan(
		&run.ID, &run.RepoFullName, &run.WindowStart, &run.WindowEnd, &run.Records,
		&run.MissingTotal, &missingJSON, &run.OutputPath, &run.StartedAt, &run.FinishedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return model.CollectionRun{}, err
	}
	if err != nil {
		return model.CollectionRun{}, fmt.Errorf("scan run: %w", err)
	}

	if err := json.Unmarshal([]byte(missingJSON), &run.MissingBySignal); err != nil {
		return model.CollectionRun{}, fmt.Errorf("unmarshal missing counts for run %d: %w", run.ID, err)
	}

	return run, nil
}
