package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "ripple",
		Short: "Fine-grained reactive state runtime tooling",
		Long: `Ripple is a fine-grained reactive state runtime for Go:
signals, memos, and effects over a live dependency graph, with
hierarchical scope lifecycles and batched flush scheduling.

This CLI hosts the developer tooling:

  • Graph inspector with JSON snapshots and a live event stream
  • Prometheus metrics for the runtime
  • Optional S3 snapshot archiving`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.AddCommand(
		inspectCmd(),
		versionCmd(),
	)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}
