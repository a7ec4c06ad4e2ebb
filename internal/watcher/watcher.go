package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/gobwas/glob"

	"github.com/ingestd/ingestd/internal/logging"
)

// inboxWatcher implements InboxWatcher over an fsnotify tree watch.
type inboxWatcher struct {
	watcher       *fsnotify.Watcher
	root          string
	ignore        []glob.Glob
	debounceTime  time.Duration
	callback      func(files []string)
	ctx           context.Context
	cancel        context.CancelFunc
	paused        bool
	pausedMu      sync.RWMutex
	accumulated   map[string]bool
	accumulatedMu sync.Mutex
	debounceTimer *time.Timer
	timerMu       sync.Mutex
	stopOnce      sync.Once
	doneCh        chan struct{}
}

// NewInboxWatcher watches root (recursively) for new or modified regular
// files, debouncing bursts of events debounceTime apart. Paths matching any
// ignorePattern (and any dotfile) never reach the callback.
func NewInboxWatcher(root string, ignorePatterns []string, debounceTime time.Duration) (InboxWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	ignore := make([]glob.Glob, 0, len(ignorePatterns))
	for _, pattern := range ignorePatterns {
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			fsw.Close()
			return nil, fmt.Errorf("compiling ignore pattern %q: %w", pattern, err)
		}
		ignore = append(ignore, g)
	}

	iw := &inboxWatcher{
		watcher:      fsw,
		root:         root,
		ignore:       ignore,
		debounceTime: debounceTime,
		accumulated:  make(map[string]bool),
		doneCh:       make(chan struct{}),
	}

	if err := iw.addDirectoriesRecursively(root); err != nil {
		fsw.Close()
		return nil, err
	}

	return iw, nil
}

// Start begins watching for file changes.
func (iw *inboxWatcher) Start(ctx context.Context, callback func(files []string)) error {
	if callback == nil {
		return nil
	}

	iw.callback = callback
	iw.ctx, iw.cancel = context.WithCancel(ctx)

	go iw.watch()
	return nil
}

// Stop stops the watcher.
func (iw *inboxWatcher) Stop() error {
	var err error
	iw.stopOnce.Do(func() {
		if iw.cancel != nil {
			iw.cancel()
			<-iw.doneCh
		} else {
			close(iw.doneCh)
		}
		err = iw.watcher.Close()
	})
	return err
}

// Pause stops firing callbacks but continues accumulating events.
func (iw *inboxWatcher) Pause() {
	iw.pausedMu.Lock()
	defer iw.pausedMu.Unlock()
	iw.paused = true
}

// Resume resumes firing callbacks, flushing anything accumulated while paused.
func (iw *inboxWatcher) Resume() {
	iw.pausedMu.Lock()
	wasPaused := iw.paused
	iw.paused = false
	iw.pausedMu.Unlock()

	if !wasPaused {
		return
	}

	iw.accumulatedMu.Lock()
	if len(iw.accumulated) == 0 {
		iw.accumulatedMu.Unlock()
		return
	}
	files := iw.drainAccumulatedLocked()
	iw.accumulatedMu.Unlock()

	if iw.callback != nil {
		iw.callback(files)
	}
}

func (iw *inboxWatcher) watch() {
	defer close(iw.doneCh)

	reindexCh := make(chan struct{}, 1)

	for {
		select {
		case <-iw.ctx.Done():
			iw.stopDebounceTimer()
			return

		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}

			if event.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := iw.addDirectoriesRecursively(event.Name); err != nil {
						logging.Logger.Warn().Err(err).Str("dir", event.Name).Msg("failed to watch new inbox subdirectory")
					}
					continue
				}
			}

			if !iw.shouldProcessEvent(event) {
				continue
			}

			iw.accumulatedMu.Lock()
			iw.accumulated[event.Name] = true
			iw.accumulatedMu.Unlock()

			iw.resetDebounceTimer(reindexCh)

		case <-reindexCh:
			iw.handleDebounceExpired()

		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			logging.Logger.Warn().Err(err).Msg("inbox watcher error")
		}
	}
}

func (iw *inboxWatcher) handleDebounceExpired() {
	iw.pausedMu.RLock()
	paused := iw.paused
	iw.pausedMu.RUnlock()
	if paused {
		return
	}

	iw.accumulatedMu.Lock()
	if len(iw.accumulated) == 0 {
		iw.accumulatedMu.Unlock()
		return
	}
	files := iw.drainAccumulatedLocked()
	iw.accumulatedMu.Unlock()

	if iw.callback != nil {
		iw.callback(files)
	}
}

// drainAccumulatedLocked must be called with accumulatedMu held.
func (iw *inboxWatcher) drainAccumulatedLocked() []string {
	files := make([]string, 0, len(iw.accumulated))
	for file := range iw.accumulated {
		files = append(files, file)
	}
	iw.accumulated = make(map[string]bool)
	return files
}

func (iw *inboxWatcher) resetDebounceTimer(reindexCh chan struct{}) {
	iw.timerMu.Lock()
	defer iw.timerMu.Unlock()

	if iw.debounceTimer != nil {
		if !iw.debounceTimer.Stop() {
			select {
			case <-iw.debounceTimer.C:
			default:
			}
		}
	}

	iw.debounceTimer = time.AfterFunc(iw.debounceTime, func() {
		select {
		case reindexCh <- struct{}{}:
		default:
		}
	})
}

func (iw *inboxWatcher) stopDebounceTimer() {
	iw.timerMu.Lock()
	defer iw.timerMu.Unlock()

	if iw.debounceTimer != nil {
		iw.debounceTimer.Stop()
		iw.debounceTimer = nil
	}
}

// shouldProcessEvent filters events to writes/creates of non-ignored,
// non-hidden regular files.
func (iw *inboxWatcher) shouldProcessEvent(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}

	base := filepath.Base(event.Name)
	if strings.HasPrefix(base, ".") {
		return false
	}

	if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
		return false
	}

	relPath, err := filepath.Rel(iw.root, event.Name)
	if err != nil {
		relPath = event.Name
	}
	relPath = filepath.ToSlash(relPath)

	for _, pattern := range iw.ignore {
		if pattern.Match(relPath) || pattern.Match(base) {
			return false
		}
	}
	return true
}

// addDirectoriesRecursively adds rootPath and every subdirectory to the
// watch set, skipping dotdirs so a .tmp staging area under the inbox
// doesn't get watched too.
func (iw *inboxWatcher) addDirectoriesRecursively(rootPath string) error {
	if strings.HasPrefix(filepath.Base(rootPath), ".") && rootPath != iw.root {
		return nil
	}

	entries, err := os.ReadDir(rootPath)
	if err != nil {
		return err
	}

	if err := iw.watcher.Add(rootPath); err != nil {
		return fmt.Errorf("watching directory %s: %w", rootPath, err)
	}

	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		subPath := filepath.Join(rootPath, entry.Name())
		if err := iw.addDirectoriesRecursively(subPath); err != nil {
			logging.Logger.Warn().Err(err).Str("dir", subPath).Msg("failed to watch inbox subdirectory")
		}
	}

	return nil
}
