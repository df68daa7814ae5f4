package driven

import (
	"context"

	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// TableWriter defines the driven port for exporting a signal table as one
// dataset file. WriteTable returns the path of the written file. The table is
// owned by the export; callers must not retain it for mutation afterwards.
type TableWriter interface {
	WriteTable(ctx context.Context, company, repo, name string, table *signal.Table) (string, error)
}
