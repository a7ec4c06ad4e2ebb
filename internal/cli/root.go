package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// tenantID, when set, overrides DEFAULT_TENANT_ID for every file processed
// in this invocation.
var tenantID string

// rootCmd is ingestd's base command.
var rootCmd = &cobra.Command{
	Use:   "ingestd",
	Short: "ingestd - file-drop ingestion into relational, document, and vector stores",
	Long: `ingestd watches or sweeps a directory of dropped files and routes each one
to a relational table, a document collection, or a vector index, resolving
its modality and schema automatically.`,
}

// Execute adds all child commands to rootCmd and runs it. Called once by
// main.main.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&tenantID, "tenant", "", "tenant id to ingest as (defaults to DEFAULT_TENANT_ID)")
}
