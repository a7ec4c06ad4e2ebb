package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version is overridden via ldflags at build time.
var Version = "dev"

func getVersion() string {
	if Version != "dev" {
		return Version
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return info.Main.Version
		}
	}
	return "dev"
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print ingestd's version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("ingestd %s\n", getVersion())
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
