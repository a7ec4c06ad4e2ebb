package rows

import (
	"context"
	"testing"

	"github.com/ingestd/ingestd/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractHTMLFirstTableWithHeader(t *testing.T) {
	path := writeTemp(t, "data.html", `<html><body>
  <table>
    <tr><th>name</th><th>age</th></tr>
    <tr><td>alice</td><td>30</td></tr>
    <tr><td>bob</td><td>25</td></tr>
  </table>
</body></html>`)

	result, err := Extract(context.Background(), path, detector.HTML)
	require.NoError(t, err)
	assert.Equal(t, "html", result.DetectedType)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "alice", result.Rows[0]["name"].Text)
	assert.Equal(t, int64(30), result.Rows[0]["age"].Int)
}

func TestExtractHTMLSkipsTableWithoutHeader(t *testing.T) {
	path := writeTemp(t, "data.html", `<html><body>
  <table><tr><td>not a header</td></tr></table>
  <table>
    <tr><th>name</th></tr>
    <tr><td>alice</td></tr>
  </table>
</body></html>`)

	result, err := Extract(context.Background(), path, detector.HTML)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, "alice", result.Rows[0]["name"].Text)
}

func TestExtractHTMLNoTableErrors(t *testing.T) {
	path := writeTemp(t, "data.html", `<html><body><p>no tables here</p></body></html>`)

	_, err := Extract(context.Background(), path, detector.HTML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse/html")
}
