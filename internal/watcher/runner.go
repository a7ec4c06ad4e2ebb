package watcher

import (
	"context"
	"time"

	"github.com/ingestd/ingestd/internal/logging"
	"github.com/ingestd/ingestd/internal/orchestrator"
)

// Processor is the subset of *orchestrator.Orchestrator the inbox runner
// depends on, so it can be faked in tests without standing up every
// Orchestrator dependency.
type Processor interface {
	ProcessFile(ctx context.Context, path string, tenantID string, hints orchestrator.Hints) (orchestrator.Envelope, error)
}

// DefaultIgnorePatterns excludes editor swap files and the usual staging
// directories from inbox watching. Checked against both the path relative
// to the watched root and the bare file name (see shouldProcessEvent), so a
// bare "*.tmp" catches staging files at any depth.
var DefaultIgnorePatterns = []string{".git/**", "*.tmp", "*.swp", "~*"}

// Runner wires an InboxWatcher to a Processor: every settled file under the
// watched directory is handed to ProcessFile, and the resulting envelope is
// logged. Filesystem-trigger ingestion is the primary mode; an HTTP surface
// can sit alongside it behind the same Processor interface.
type Runner struct {
	watcher  InboxWatcher
	proc     Processor
	tenantID string
	hints    orchestrator.Hints
}

// NewRunner builds a Runner that watches inboxDir and invokes proc for every
// settled file, debounced by debounceTime and skipping any path matching
// ignorePatterns.
func NewRunner(inboxDir string, ignorePatterns []string, debounceTime time.Duration, proc Processor, tenantID string, hints orchestrator.Hints) (*Runner, error) {
	w, err := NewInboxWatcher(inboxDir, ignorePatterns, debounceTime)
	if err != nil {
		return nil, err
	}

	return &Runner{
		watcher:  w,
		proc:     proc,
		tenantID: tenantID,
		hints:    hints,
	}, nil
}

// Run starts the watcher and blocks until ctx is cancelled.
func (r *Runner) Run(ctx context.Context) error {
	if err := r.watcher.Start(ctx, r.handleFiles); err != nil {
		return err
	}

	<-ctx.Done()
	return r.watcher.Stop()
}

func (r *Runner) handleFiles(files []string) {
	for _, path := range files {
		env, err := r.proc.ProcessFile(context.Background(), path, r.tenantID, r.hints)
		if err != nil {
			logging.Logger.Error().Err(err).Str("path", path).Msg("inbox ingestion failed unexpectedly")
			continue
		}

		log := logging.Logger.Info()
		if env.Status == orchestrator.StatusError {
			log = logging.Logger.Warn()
		}
		log.Str("path", path).
			Str("status", env.Status).
			Str("modality", env.Modality).
			Str("collection", env.Collection).
			Int("chunk_count", env.ChunkCount).
			Str("error", env.Error).
			Msg("inbox file processed")
	}
}
