package watcher

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ingestd/ingestd/internal/orchestrator"
)

type fakeProcessor struct {
	mu        sync.Mutex
	processed []string
	envelope  orchestrator.Envelope
	err       error
}

func (f *fakeProcessor) ProcessFile(ctx context.Context, path string, tenantID string, hints orchestrator.Hints) (orchestrator.Envelope, error) {
	f.mu.Lock()
	f.processed = append(f.processed, path)
	f.mu.Unlock()
	return f.envelope, f.err
}

func (f *fakeProcessor) seen() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.processed))
	copy(out, f.processed)
	return out
}

func TestRunnerProcessesFilesDroppedIntoInbox(t *testing.T) {
	tempDir := t.TempDir()
	proc := &fakeProcessor{envelope: orchestrator.Envelope{Status: orchestrator.StatusCompleted}}

	r, err := NewRunner(tempDir, DefaultIgnorePatterns, 30*time.Millisecond, proc, "tenant-a", orchestrator.Hints{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- r.Run(ctx) }()

	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(tempDir, "drop.csv")
	require.NoError(t, os.WriteFile(target, []byte("a,b\n1,2\n"), 0o644))

	require.Eventually(t, func() bool {
		return len(proc.seen()) == 1
	}, 2*time.Second, 20*time.Millisecond)

	assert.Equal(t, []string{target}, proc.seen())

	cancel()
	require.NoError(t, <-runDone)
}

func TestRunnerSkipsIgnoredPaths(t *testing.T) {
	tempDir := t.TempDir()
	proc := &fakeProcessor{envelope: orchestrator.Envelope{Status: orchestrator.StatusCompleted}}

	r, err := NewRunner(tempDir, DefaultIgnorePatterns, 30*time.Millisecond, proc, "tenant-a", orchestrator.Hints{})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	runDone := make(chan error, 1)
	go func() { runDone <- r.Run(ctx) }()
	defer func() {
		cancel()
		<-runDone
	}()

	time.Sleep(100 * time.Millisecond)
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "staging.tmp"), []byte("x"), 0o644))

	time.Sleep(200 * time.Millisecond)
	assert.Empty(t, proc.seen())
}
