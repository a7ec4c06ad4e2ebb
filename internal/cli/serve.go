package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run ingestd as an HTTP ingestion service (not yet implemented)",
	Long: `Serve is reserved for an HTTP front end exposing a POST /ingest
endpoint equivalent to the filesystem-triggered path. Use "ingestd watch" or
"ingestd batch" for filesystem-triggered ingestion in the meantime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return fmt.Errorf("serve: HTTP ingestion surface not yet implemented - use 'watch' or 'batch'")
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
