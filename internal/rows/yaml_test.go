package rows

import (
	"context"
	"testing"

	"github.com/ingestd/ingestd/internal/detector"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractYAMLSequenceOfMappings(t *testing.T) {
	path := writeTemp(t, "data.yaml", "- name: alice\n  age: 30\n- name: bob\n  age: 25\n")

	result, err := Extract(context.Background(), path, detector.YAML)
	require.NoError(t, err)
	assert.Equal(t, "yaml", result.DetectedType)
	require.Len(t, result.Rows, 2)
	assert.Equal(t, "alice", result.Rows[0]["name"].Text)
}

func TestExtractYAMLSingleMappingWrapped(t *testing.T) {
	path := writeTemp(t, "data.yaml", "name: alice\nage: 30\n")

	result, err := Extract(context.Background(), path, detector.YAML)
	require.NoError(t, err)
	require.Len(t, result.Rows, 1)
	assert.Equal(t, int64(30), result.Rows[0]["age"].Int)
}

func TestExtractYAMLSequenceOfScalarsErrors(t *testing.T) {
	path := writeTemp(t, "bad.yaml", "- one\n- two\n")

	_, err := Extract(context.Background(), path, detector.YAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse/yaml")
}
