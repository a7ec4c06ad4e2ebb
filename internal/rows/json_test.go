package rows

import (
	"context"
	"testing"

	"github.com/ingestd/ingestd/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractJSONArrayOfObjects(t *testing.T) {
	path := writeTemp(t, "data.json", `[{"name":"alice","age":30},{"name":"bob","age":25}]`)

	result, err := Extract(context.Background(), path, detector.JSON)
	require.NoError(t, err)
	assert.Equal(t, "json", result.DetectedType)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "alice", result.Rows[0]["name"].Text)
}

func TestExtractJSONSingleObjectWrapped(t *testing.T) {
	path := writeTemp(t, "data.json", `{"name":"alice","age":30}`)

	result, err := Extract(context.Background(), path, detector.JSON)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(30), result.Rows[0]["age"].Int)
}

func TestExtractJSONNestedFieldsDropped(t *testing.T) {
	path := writeTemp(t, "data.json", `{"name":"alice","address":{"city":"nyc"},"tags":["a","b"]}`)

	result, err := Extract(context.Background(), path, detector.JSON)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	_, hasAddress := result.Rows[0]["address"]
	assert.False(t, hasAddress)
	_, hasTags := result.Rows[0]["tags"]
	assert.False(t, hasTags)
}

func TestExtractJSONArrayElementNotObjectErrors(t *testing.T) {
	path := writeTemp(t, "bad.json", `[1, 2, 3]`)

	_, err := Extract(context.Background(), path, detector.JSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse/json")
}

func TestExtractJSONTopLevelScalarErrors(t *testing.T) {
	path := writeTemp(t, "bad.json", `"just a string"`)

	_, err := Extract(context.Background(), path, detector.JSON)
	require.Error(t, err)
}
