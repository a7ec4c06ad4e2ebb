package watcher

import "context"

// InboxWatcher watches a directory tree and reports newly-settled files,
// debounced so a slow copy/write doesn't fire the callback mid-write.
type InboxWatcher interface {
	// Start begins watching, calling callback with debounced file paths.
	Start(ctx context.Context, callback func(files []string)) error

	// Stop stops the watcher and releases its fsnotify handle.
	Stop() error

	// Pause stops firing callbacks but continues accumulating events.
	Pause()

	// Resume resumes firing callbacks. If events accumulated during pause,
	// fires immediately.
	Resume()
}
