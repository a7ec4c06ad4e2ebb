package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/ingestd/ingestd/internal/orchestrator"
	"github.com/ingestd/ingestd/internal/watcher"
)

var watchDebounce time.Duration

var watchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and ingest files as they settle",
	Long: `Watch runs ingestd continuously: new or modified files under the given
directory are debounced and routed through the ingestion pipeline as soon as
a write settles. Ctrl+C stops watching.

Examples:
  ingestd watch ./inbox
  ingestd watch ./inbox --debounce 2s
`,
	Args: cobra.ExactArgs(1),
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "time a file must be unmodified before it is ingested")
}

func runWatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := newSignalContext()
	defer cancel()

	pl, err := buildPipeline(ctx)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer pl.Close()

	runner, err := watcher.NewRunner(args[0], watcher.DefaultIgnorePatterns, watchDebounce, pl.orch, tenantID, orchestrator.Hints{})
	if err != nil {
		return fmt.Errorf("starting watcher: %w", err)
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)...\n", args[0])
	return runner.Run(ctx)
}
