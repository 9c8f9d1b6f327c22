// Package cli implements the roomctl operator commands.
package cli

import (
	"encoding/json"
	"io"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/Rrens/room-designer/internal/catalog"
)

func NewRootCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "roomctl",
		Short: "Operator tool for the room designer API",
		Long: `roomctl inspects the furniture catalog, checks furniture fit offline,
runs database migrations and tails workflow events.`,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load .env file if present (ignore errors)
			_ = godotenv.Load()
		},
	}
	cmd.PersistentFlags().StringVar(&catalogPath, "catalog", "", "path to a catalog YAML file (default: embedded catalog)")

	loadCatalog := func() (*catalog.Catalog, error) {
		if catalogPath == "" {
			return catalog.Default()
		}
		return catalog.Load(catalogPath)
	}

	cmd.AddCommand(
		newCatalogCmd(loadCatalog),
		newFitCmd(loadCatalog),
		newMigrateCmd(),
		newEventsCmd(),
		newHashPasswordCmd(),
	)

	return cmd
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
