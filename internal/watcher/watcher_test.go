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
)

func TestNewInboxWatcherSucceedsForExistingDirectory(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewInboxWatcher(tempDir, nil, 50*time.Millisecond)
	require.NoError(t, err)
	require.NotNil(t, w)
	require.NoError(t, w.Stop())
}

func TestNewInboxWatcherFailsForMissingDirectory(t *testing.T) {
	tempDir := t.TempDir()
	missing := filepath.Join(tempDir, "nope")

	w, err := NewInboxWatcher(missing, nil, 50*time.Millisecond)
	assert.Error(t, err)
	assert.Nil(t, w)
}

func TestInboxWatcherFiresCallbackAfterDebounce(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewInboxWatcher(tempDir, nil, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var seen []string
	fired := make(chan struct{}, 1)

	require.NoError(t, w.Start(context.Background(), func(files []string) {
		mu.Lock()
		seen = append(seen, files...)
		mu.Unlock()
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	time.Sleep(100 * time.Millisecond)

	target := filepath.Join(tempDir, "invoice.csv")
	require.NoError(t, os.WriteFile(target, []byte("a,b\n1,2\n"), 0o644))

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not fired")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Contains(t, seen, target)
}

func TestInboxWatcherIgnoresDotfilesAndIgnorePatterns(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewInboxWatcher(tempDir, []string{"*.tmp"}, 50*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	fired := make(chan struct{}, 1)
	require.NoError(t, w.Start(context.Background(), func(files []string) {
		select {
		case fired <- struct{}{}:
		default:
		}
	}))

	time.Sleep(100 * time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(tempDir, ".hidden"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "staging.tmp"), []byte("x"), 0o644))

	select {
	case <-fired:
		t.Fatal("callback fired for an ignored file")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestInboxWatcherPauseAccumulatesThenResumeFlushes(t *testing.T) {
	tempDir := t.TempDir()

	w, err := NewInboxWatcher(tempDir, nil, 30*time.Millisecond)
	require.NoError(t, err)
	defer w.Stop()

	var mu sync.Mutex
	var batches [][]string
	fired := make(chan struct{}, 4)

	require.NoError(t, w.Start(context.Background(), func(files []string) {
		mu.Lock()
		batches = append(batches, files)
		mu.Unlock()
		fired <- struct{}{}
	}))

	time.Sleep(100 * time.Millisecond)
	w.Pause()

	target := filepath.Join(tempDir, "paused.csv")
	require.NoError(t, os.WriteFile(target, []byte("a,b\n1,2\n"), 0o644))

	// Give the debounce timer a chance to expire while paused; no callback
	// should fire yet.
	time.Sleep(150 * time.Millisecond)

	w.Resume()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback was not fired after resume")
	}

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, batches, 1)
	assert.Contains(t, batches[0], target)
}
