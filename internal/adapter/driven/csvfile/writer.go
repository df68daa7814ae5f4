// Package csvfile implements the TableWriter port as UTF-8 CSV files laid
// out under a data root as <root>/<company>/<repo>/<name>_signals.csv.
package csvfile

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/googleinterns/cl-analysis/internal/domain/port/driven"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

// Compile-time interface satisfaction check.
var _ driven.TableWriter = (*Writer)(nil)

// Writer exports signal tables as CSV files under a data root directory.
type Writer struct {
	root string
}

// NewWriter creates a Writer rooted at the given data directory.
func NewWriter(root string) *Writer {
	return &Writer{root: root}
}

// WriteTable writes the table to <root>/<company>/<repo>/<name>_signals.csv,
// creating directories as needed, and returns the written path. The header
// row lists the signal names in definition order; one data row is written per
// record. Missing values render as empty fields.
func (w *Writer) WriteTable(ctx context.Context, company, repo, name string, table *signal.Table) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	for _, segment := range []string{company, repo, name} {
		if segment == "" || strings.ContainsRune(segment, filepath.Separator) {
			return "", fmt.Errorf("invalid path segment %q", segment)
		}
	}

	dir := filepath.Join(w.root, company, repo)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("creating %s: %w", dir, err)
	}

	path := filepath.Join(dir, name+"_signals.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("creating %s: %w", path, err)
	}

	cw := csv.NewWriter(f)
	if err := cw.Write(table.Columns); err != nil {
		f.Close()
		return "", fmt.Errorf("writing header to %s: %w", path, err)
	}

	for _, rec := range table.Records {
		if len(rec.Values) != len(table.Columns) {
			f.Close()
			return "", fmt.Errorf("record %s has %d values, want %d", rec.Key, len(rec.Values), len(table.Columns))
		}

		row := make([]string, len(rec.Values))
		for i, v := range rec.Values {
			field, err := formatValue(v)
			if err != nil {
				f.Close()
				return "", fmt.Errorf("formatting %s column %q: %w", rec.Key, table.Columns[i], err)
			}
			row[i] = field
		}
		if err := cw.Write(row); err != nil {
			f.Close()
			return "", fmt.Errorf("writing record %s to %s: %w", rec.Key, path, err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		f.Close()
		return "", fmt.Errorf("flushing %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("closing %s: %w", path, err)
	}

	slog.Info("signal table written", "path", path, "records", len(table.Records))

	return path, nil
}

// formatValue renders one cell. Scalars use their natural text form, times
// use RFC 3339, and structured values (slices, maps) are encoded as JSON so
// downstream tooling can parse them back losslessly.
func formatValue(v signal.Value) (string, error) {
	if v.Missing || v.Data == nil {
		return "", nil
	}

	switch data := v.Data.(type) {
	case string:
		return data, nil
	case bool:
		return strconv.FormatBool(data), nil
	case int:
		return strconv.Itoa(data), nil
	case int64:
		return strconv.FormatInt(data, 10), nil
	case float64:
		return strconv.FormatFloat(data, 'f', -1, 64), nil
	case time.Time:
		return data.UTC().Format(time.RFC3339), nil
	default:
		encoded, err := json.Marshal(data)
		if err != nil {
			return "", err
		}
		return string(encoded), nil
	}
}
