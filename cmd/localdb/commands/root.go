package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	verbose bool
)

// Execute runs the root command
func Execute(ctx context.Context, version, commit, buildDate string) error {
	rootCmd := newRootCommand(version, commit, buildDate)
	return rootCmd.ExecuteContext(ctx)
}

func newRootCommand(version, commit, buildDate string) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "localdb",
		Short: "Local order-book database sync service",
		Long: `localdb keeps per-network local order-book databases up to date.

Each sync hydrates a working store from its published archive, resumes
from the last checkpoint recorded inside the store, delegates data
retrieval to the external sync CLI, and republishes the result as a
compressed archive indexed by a manifest.`,
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, buildDate),
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")

	rootCmd.AddCommand(newSyncCommand())
	rootCmd.AddCommand(newPlanCommand())
	rootCmd.AddCommand(newBumpSeedGenerationCommand())
	rootCmd.AddCommand(newBumpSchemaVersionCommand())

	return rootCmd
}
