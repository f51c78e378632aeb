package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	// Migrations and seeders register themselves from init.
	_ "github.com/shashiranjanraj/pcbuilder/database/migrations"
	_ "github.com/shashiranjanraj/pcbuilder/database/seeders"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "pcbuilder",
	Short:         "PC build configurator",
	Long:          "Serves the catalog and build API, and manages the database and catalog files.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(routeListCmd)

	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(migrateRollbackCmd)
	rootCmd.AddCommand(migrateStatusCmd)
	rootCmd.AddCommand(seedCmd)

	rootCmd.AddCommand(userPromoteCmd)
	rootCmd.AddCommand(catalogImportCmd)
	rootCmd.AddCommand(catalogExportCmd)
}
