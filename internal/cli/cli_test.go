package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingestd/ingestd/internal/orchestrator"
)

// Most of this package's commands build a pipeline against a real Postgres
// pool (buildPipeline), so they are exercised by hand against a running
// stack rather than unit tested here, the same reasoning as
// internal/pgstore's lack of unit tests. These tests cover the pure helpers
// that don't need that pipeline.

func TestDiscoverRegularFilesSkipsSubdirectories(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "a.csv"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "b.json"), []byte("{}"), 0o644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0o755))

	paths, err := discoverRegularFiles(dir)
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a.csv"),
		filepath.Join(dir, "b.json"),
	}, paths)
}

func TestDiscoverRegularFilesFailsForMissingDirectory(t *testing.T) {
	_, err := discoverRegularFiles(filepath.Join(t.TempDir(), "missing"))
	assert.Error(t, err)
}

func TestPrintEnvelopeReturnsErrorOnErrorStatus(t *testing.T) {
	err := printEnvelope(orchestrator.Envelope{
		Status: orchestrator.StatusError,
		Error:  "boom",
	})
	assert.ErrorContains(t, err, "boom")
}

func TestPrintEnvelopeSucceedsOnCompletedStatus(t *testing.T) {
	err := printEnvelope(orchestrator.Envelope{
		Status:     orchestrator.StatusCompleted,
		GraphNodes: []string{},
	})
	assert.NoError(t, err)
}
