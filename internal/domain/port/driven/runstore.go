package driven

import (
	"context"

	"github.com/googleinterns/cl-analysis/internal/domain/model"
)

// RunStore defines the driven port for the collection run ledger.
// Runs are append-only; Record never overwrites a previous run.
type RunStore interface {
	// Record persists a completed run and returns its assigned ID.
	Record(ctx context.Context, run model.CollectionRun) (int64, error)

	// ListByRepository returns all runs for the repository, most recent first.
	ListByRepository(ctx context.Context, repoFullName string) ([]model.CollectionRun, error)

	// Latest returns the most recent run for the repository, or nil when the
	// repository has never been collected.
	Latest(ctx context.Context, repoFullName string) (*model.CollectionRun, error)
}
