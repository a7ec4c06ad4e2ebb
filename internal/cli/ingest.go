package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/ingestd/ingestd/internal/orchestrator"
)

// newSignalContext returns a context cancelled on Ctrl+C or SIGTERM, the
// pattern every subcommand uses for graceful shutdown.
func newSignalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

var (
	ingestCollection string
	ingestModality   string
	ingestPrimaryKey string
)

var ingestCmd = &cobra.Command{
	Use:   "ingest <path>",
	Short: "Ingest a single file",
	Long: `Ingest routes one file through the ingestion pipeline, printing the
resulting envelope as JSON.

Examples:
  ingestd ingest ./inbox/report.csv
  ingestd ingest ./inbox/memo.pdf --collection legal
`,
	Args: cobra.ExactArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
	ingestCmd.Flags().StringVar(&ingestCollection, "collection", "", "collection hint override")
	ingestCmd.Flags().StringVar(&ingestModality, "modality", "", "modality hint override")
	ingestCmd.Flags().StringVar(&ingestPrimaryKey, "primary-key", "", "primary key column override for tabular files")
}

func runIngest(cmd *cobra.Command, args []string) error {
	ctx, cancel := newSignalContext()
	defer cancel()

	pl, err := buildPipeline(ctx)
	if err != nil {
		return fmt.Errorf("building pipeline: %w", err)
	}
	defer pl.Close()

	env, err := pl.orch.ProcessFile(ctx, args[0], tenantID, orchestrator.Hints{
		Modality:   ingestModality,
		Collection: ingestCollection,
		PrimaryKey: ingestPrimaryKey,
	})
	if err != nil {
		return fmt.Errorf("processing %q: %w", args[0], err)
	}

	return printEnvelope(env)
}

func printEnvelope(env orchestrator.Envelope) error {
	out, err := json.MarshalIndent(env, "", "  ")
	if err != nil {
		return fmt.Errorf("marshalling envelope: %w", err)
	}
	fmt.Println(string(out))
	if env.Status == orchestrator.StatusError {
		return fmt.Errorf("ingestion failed: %s", env.Error)
	}
	return nil
}

