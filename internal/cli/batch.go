package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/ingestd/ingestd/internal/orchestrator"
)

var batchQuiet bool

var batchCmd = &cobra.Command{
	Use:   "batch <directory>",
	Short: "Ingest every regular file in a directory",
	Long: `Batch sweeps a directory non-recursively and ingests each regular file it
finds, printing a one-line summary per file and a final tally.

Examples:
  ingestd batch ./inbox
  ingestd batch ./inbox --quiet
`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)
	batchCmd.Flags().BoolVarP(&batchQuiet, "quiet", "q", false, "disable the progress bar and per-file output")
}

// discoverRegularFiles lists dir's non-directory entries as full paths,
// non-recursively.
func discoverRegularFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading directory %q: %w", dir, err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	return paths, nil
}

func runBatch(cmd *cobra.Command, args []string) error {
	ctx, cancel := newSignalContext()
	defer cancel()

	paths, err := discoverRegularFiles(args[0])
	if err != nil {
		return err
	}

	pl, err := buildPipeline(ctx)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer pl.Close()

	var bar *progressbar.ProgressBar
	if !batchQuiet {
		bar = progressbar.NewOptions(len(paths),
			progressbar.OptionSetDescription("Ingesting files"),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("files/s"),
			progressbar.OptionShowElapsedTimeOnFinish(),
			progressbar.OptionOnCompletion(func() { fmt.Println() }),
		)
	}

	var completed, failed int
	for _, path := range paths {
		if ctx.Err() != nil {
			break
		}

		env, err := pl.orch.ProcessFile(ctx, path, tenantID, orchestrator.Hints{})
		if bar != nil {
			_ = bar.Add(1)
		}
		if err != nil {
			failed++
			if !batchQuiet {
				fmt.Printf("%s: %v\n", path, err)
			}
			continue
		}
		if env.Status == orchestrator.StatusError {
			failed++
		} else {
			completed++
		}
		if !batchQuiet {
			fmt.Printf("%s: %s\n", path, env.Status)
		}
	}

	if !batchQuiet {
		fmt.Printf("\n✓ Batch complete: %d completed, %d failed\n", completed, failed)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("batch cancelled")
	}
	return nil
}
