package csvfile_test

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/googleinterns/cl-analysis/internal/adapter/driven/csvfile"
	"github.com/googleinterns/cl-analysis/internal/domain/signal"
)

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWriteTable(t *testing.T) {
	root := t.TempDir()
	w := csvfile.NewWriter(root)

	table := &signal.Table{
		Columns: []string{"pull request id", "author", "is merged", "review time", "closed at", "reviewers"},
		Records: []signal.Record{
			{
				Key: "#1",
				Values: []signal.Value{
					{Data: 1},
					{Data: "alice"},
					{Data: true},
					{Data: 86400.5},
					{Data: time.Date(2020, 3, 5, 12, 0, 0, 0, time.UTC)},
					{Data: []string{"bob", "carol"}},
				},
			},
			{
				Key: "#2",
				Values: []signal.Value{
					{Data: 2},
					{Data: "dave"},
					{Missing: true},
					{Data: 0.0},
					{Data: time.Date(2020, 3, 6, 0, 0, 0, 0, time.UTC)},
					{Data: []string{}},
				},
			},
		},
	}

	path, err := w.WriteTable(context.Background(), "acme", "widgets", "pull_requests", table)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(root, "acme", "widgets", "pull_requests_signals.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, table.Columns, rows[0])
	assert.Equal(t, []string{"1", "alice", "true", "86400.5", "2020-03-05T12:00:00Z", `["bob","carol"]`}, rows[1])

	// Missing values render as empty fields.
	assert.Equal(t, "", rows[2][2])
	assert.Equal(t, "0", rows[2][3])
	assert.Equal(t, "[]", rows[2][5])
}

func TestWriteTable_EmptyTable(t *testing.T) {
	w := csvfile.NewWriter(t.TempDir())

	table := &signal.Table{Columns: []string{"a", "b"}}
	path, err := w.WriteTable(context.Background(), "acme", "widgets", "empty", table)
	require.NoError(t, err)

	rows := readCSV(t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, []string{"a", "b"}, rows[0])
}

func TestWriteTable_MapsEncodeDeterministically(t *testing.T) {
	w := csvfile.NewWriter(t.TempDir())

	table := &signal.Table{
		Columns: []string{"file versions"},
		Records: []signal.Record{
			{Key: "#1", Values: []signal.Value{{Data: map[string]int{"b.go": 2, "a.go": 1}}}},
		},
	}

	path, err := w.WriteTable(context.Background(), "acme", "widgets", "files", table)
	require.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, `{"a.go":1,"b.go":2}`, rows[1][0])
}

func TestWriteTable_RejectsInvalidSegments(t *testing.T) {
	w := csvfile.NewWriter(t.TempDir())
	table := &signal.Table{Columns: []string{"a"}}

	_, err := w.WriteTable(context.Background(), "", "widgets", "x", table)
	require.Error(t, err)

	_, err = w.WriteTable(context.Background(), "acme", "bad/segment", "x", table)
	require.Error(t, err)
}

func TestWriteTable_RejectsColumnMismatch(t *testing.T) {
	w := csvfile.NewWriter(t.TempDir())

	table := &signal.Table{
		Columns: []string{"a", "b"},
		Records: []signal.Record{{Key: "#1", Values: []signal.Value{{Data: 1}}}},
	}

	_, err := w.WriteTable(context.Background(), "acme", "widgets", "x", table)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "values")
}
