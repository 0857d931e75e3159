package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abdul-hamid-achik/routegen/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the routegen version",
	Run: func(cmd *cobra.Command, args []string) {
		if jsonOutput {
			printJSON(VersionOutput{
				Version:       version.GetVersion(),
				SchemaVersion: version.GetGeneratorSchemaVersion(),
			})
			return
		}
		fmt.Fprintf(stdout, "routegen %s (generator schema %d)\n", version.GetVersion(), version.GetGeneratorSchemaVersion())
	},
}
