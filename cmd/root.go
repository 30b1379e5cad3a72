// Package cmd defines and implements the CLI commands for the harvester executable.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var cfgFile string

// newRootCmd creates and configures the root command.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "harvester",
		Short: "A bounded single-domain crawler that emits retrieval-ready JSONL documents.",
		Long: `harvester crawls a bounded set of pages from one allowed domain,
extracts readable main content, enriches it with heuristic metadata,
deduplicates by content hash, and writes one normalized JSON record per
page for downstream retrieval and embedding use.`,
	}

	cmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (YAML)")

	cmd.AddCommand(newCrawlCmd())

	return cmd
}

// Execute is the main entry point.
func Execute() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
