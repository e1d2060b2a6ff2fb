package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/findolor/local-db-remote/pkg/manifest"
)

func newBumpSchemaVersionCommand() *cobra.Command {
	var manifestPath string

	cmd := &cobra.Command{
		Use:   "bump-schema-version",
		Short: "Increment the manifest schema version",
		RunE: func(cmd *cobra.Command, args []string) error {
			bump, err := manifest.BumpSchemaVersion(manifestPath)
			if err != nil {
				return err
			}
			fmt.Printf("Bumped manifest schema version from %d to %d\n",
				bump.Previous, bump.Next)
			return nil
		},
	}

	cmd.Flags().StringVar(&manifestPath, "manifest", "data/manifest.yaml", "manifest file to update")

	return cmd
}
