package rows

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ingestd/ingestd/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestExtractCSV(t *testing.T) {
	path := writeTemp(t, "data.csv", "name,age\nalice,30\nbob,25\n")

	result, err := Extract(context.Background(), path, detector.Tabular)
	require.NoError(t, err)
	assert.Equal(t, "csv", result.DetectedType)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "alice", result.Rows[0]["name"].Text)
	assert.Equal(t, int64(30), result.Rows[0]["age"].Int)
}

func TestExtractTSV(t *testing.T) {
	path := writeTemp(t, "data.tsv", "name\tage\nalice\t30\nbob\t25\n")

	result, err := Extract(context.Background(), path, detector.Tabular)
	require.NoError(t, err)
	assert.Equal(t, "tsv", result.DetectedType)
	require.Len(t, result.Rows, 2)
}

func TestExtractCSVRowFieldCountMismatchErrors(t *testing.T) {
	path := writeTemp(t, "bad.csv", "name,age\nalice,30\nbob\n")

	_, err := Extract(context.Background(), path, detector.Tabular)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse/csv")
}

func TestExtractCSVEmptyFileErrors(t *testing.T) {
	path := writeTemp(t, "empty.csv", "")

	_, err := Extract(context.Background(), path, detector.Tabular)
	require.Error(t, err)
}

func TestSniffDelimiterPrefersCommaOverTab(t *testing.T) {
	delim, err := sniffDelimiter(writeTemp(t, "mixed.csv", "a,b\tc\n1,2\t3\n4,5\t6\n"))
	require.NoError(t, err)
	assert.Equal(t, ',', delim)
}
