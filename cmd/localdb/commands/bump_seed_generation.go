package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/findolor/local-db-remote/pkg/manifest"
)

func newBumpSeedGenerationCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "bump-seed-generation <chain-id>",
		Short: "Increment a network's seed generation in the manifest",
		Long: `Increment the seed generation counter for one network, forcing
downstream consumers to re-seed from the next published archive.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			chainID, err := strconv.ParseUint(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("failed to parse chain id %q: %w", args[0], err)
			}

			bump, err := manifest.BumpSeedGeneration(manifestPath, chainID)
			if err != nil {
				return err
			}
			fmt.Printf("Bumped seed generation for chain %d from %d to %d\n",
				bump.ChainID, bump.Previous, bump.Next)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "data/manifest.yaml", "manifest file to update")

	return cmd
}
