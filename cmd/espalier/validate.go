package main

import (
	"fmt"
	"os"

	"github.com/aretw0/espalier/internal/config"
	"github.com/aretw0/espalier/pkg/catalog"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate [catalog-file]",
	Short: "Check the catalog for consistency",
	Long: `Compiles the configured catalog definition and reports every problem in it
at once. The engine refuses to start on an invalid catalog, so this is the
authoring feedback loop.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cat, err := loadCatalog(cmd, args)
		if err != nil {
			fmt.Printf("Validation failed: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Catalog %q is valid! ✅ (%d questions)\n", cat.Name(), cat.Len())
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

// loadCatalog resolves the catalog the same way the engine does: explicit
// argument, then --catalog flag, then ESPALIER_CATALOG, then the built-in.
func loadCatalog(cmd *cobra.Command, args []string) (*catalog.Catalog, error) {
	path, _ := cmd.Flags().GetString("catalog")
	if len(args) > 0 {
		path = args[0]
	}
	if path == "" {
		cfg, err := config.Load()
		if err != nil {
			return nil, err
		}
		path = cfg.CatalogPath
	}
	if path == "" {
		return catalog.Default(), nil
	}
	return catalog.Load(path)
}
