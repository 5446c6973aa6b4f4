package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

func main() {
	rootCmd := &cobra.Command{
		Use:   "farewatch",
		Short: "Farewatch - flight fare tracking and analysis",
		Long: `Farewatch tracks flight fares over time and derives analysis views
from the accumulated observations.

Run 'farewatch init-storage' once to set up the database, then use
'generate-batch' and 'run-batch' to collect fares, or 'watch' to run
the full cycle continuously.`,
		SilenceUsage: true,
	}

	rootCmd.AddCommand(
		searchCmd(),
		generateBatchCmd(),
		runBatchCmd(),
		refreshViewsCmd(),
		initStorageCmd(),
		watchCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("farewatch %s\n", version)
		},
	}
}
