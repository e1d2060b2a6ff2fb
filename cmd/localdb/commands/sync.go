package commands

import (
	"github.com/spf13/cobra"

	"github.com/findolor/local-db-remote/pkg/sync"
	"github.com/findolor/local-db-remote/pkg/telemetry"
)

func newSyncCommand() *cobra.Command {
	var (
		dataDir         string
		binDir          string
		orderbooks      []string
		continueOnError bool
		metricsAddr     string
	)

	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Sync all configured orderbooks",
		Long: `Run one full sync pass over the configured orderbooks.

This command:
  - Fetches the remote settings document and the external sync CLI
  - Builds per-orderbook sync configurations
  - For each orderbook: hydrates the working store from its archive,
    resumes from the last recorded checkpoint, runs the CLI, and
    republishes the compressed archive
  - Updates the manifest after each successful orderbook

Required environment: CLI_BINARY_URL, SETTINGS_YAML_URL, and one of
RAIN_API_TOKEN, RAIN_ORDERBOOK_API_TOKEN, HYPERRPC_API_TOKEN.`,
		Example: `  # Sync everything the settings document configures
  localdb sync

  # Sync a subset, keep going past per-orderbook failures
  localdb sync --orderbooks alpha,beta --continue-on-error

  # Expose Prometheus metrics during the run
  localdb sync --metrics-addr :9090`,
		RunE: func(cmd *cobra.Command, args []string) error {
			telCfg := telemetry.DefaultConfig()
			if verbose {
				telCfg.Logging.Level = "debug"
			}
			if metricsAddr != "" {
				telCfg.Metrics.Enabled = true
				telCfg.Metrics.ListenAddress = metricsAddr
			}

			logger, err := telemetry.NewLogger(telCfg.Logging)
			if err != nil {
				return err
			}
			metrics := telemetry.NewMetrics(telCfg.Metrics)
			metrics.StartServer()

			rt, err := sync.DefaultRuntime(logger, metrics)
			if err != nil {
				return err
			}

			cfg := sync.DefaultConfig()
			cfg.DataDir = dataDir
			cfg.BinDir = binDir
			cfg.Orderbooks = orderbooks
			cfg.ContinueOnError = continueOnError

			return sync.New(rt, cfg).Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&dataDir, "data-dir", "data", "directory for stores, archives, and the manifest")
	cmd.Flags().StringVar(&binDir, "bin-dir", "bin", "directory for the extracted sync CLI")
	cmd.Flags().StringSliceVar(&orderbooks, "orderbooks", nil, "orderbook names to sync (default: all configured)")
	cmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "keep syncing remaining orderbooks after a failure")
	cmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "expose Prometheus metrics on this address")

	return cmd
}
