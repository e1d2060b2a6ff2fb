package commands

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/findolor/local-db-remote/pkg/checkpoint"
	"github.com/findolor/local-db-remote/pkg/settings"
	"github.com/findolor/local-db-remote/pkg/sync"
	"github.com/findolor/local-db-remote/pkg/telemetry"
)

func newPlanCommand() *cobra.Command {
	var (
		settingsPath string
		dataDir      string
		orderbooks   []string
	)

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show resume points without syncing",
		Long: `Inspect the local stores and print, per orderbook, the last
checkpoint recorded and the block the next sync would start from.
Nothing is downloaded or modified.`,
		Example: `  # Plan against a local settings document
  localdb plan --settings settings.yaml --data-dir data`,
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := os.ReadFile(settingsPath)
			if err != nil {
				return fmt.Errorf("failed to read settings %s: %w", settingsPath, err)
			}

			doc, err := settings.Parse(string(text))
			if err != nil {
				return err
			}
			configs, skips := settings.BuildConfigs(doc, orderbooks)
			for _, skip := range skips {
				fmt.Printf("skipping %s: %s\n", skip.Orderbook, skip.Reason)
			}

			logger := telemetry.Nop()
			resolver := checkpoint.NewResolver(checkpoint.NewSQLiteInspector(), logger)
			for _, sc := range configs {
				storePath := filepath.Join(dataDir, sc.Orderbook+".db")
				archivePath := filepath.Join(dataDir, sc.Orderbook+".db.tar.gz")
				plan := resolver.Resolve(cmd.Context(), storePath, archivePath, sc.DeploymentBlock)
				for _, line := range sync.PlanLines(fmt.Sprintf("orderbook %s (chain %d)", sc.Orderbook, sc.ChainID), plan) {
					fmt.Println(line)
				}
				fmt.Println()
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&settingsPath, "settings", "settings.yaml", "settings document to plan against")
	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory holding the local stores")
	cmd.Flags().StringSliceVar(&orderbooks, "orderbooks", nil, "orderbook names to plan (default: all configured)")

	return cmd
}
