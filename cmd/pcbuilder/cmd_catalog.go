package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/storage"
)

var catalogDisk string

// catalogIO connects the database, the cache (so the category cache can be
// invalidated) and the chosen disk.
func catalogIO(cmd *cobra.Command) (*services.CatalogIO, func(), error) {
	if err := bootDB(); err != nil {
		return nil, nil, err
	}
	ctx := cmd.Context()
	if err := cache.Connect(ctx); err != nil {
		logger.Debug("redis unavailable", "error", err)
	}
	cleanup := func() {
		_ = cache.Close()
		_ = database.Close()
	}

	if err := storage.Connect(ctx); err != nil {
		cleanup()
		return nil, nil, err
	}
	disk, err := storage.Use(catalogDisk)
	if err != nil {
		cleanup()
		return nil, nil, err
	}
	return services.NewCatalogIO(disk), cleanup, nil
}

// pcbuilder catalog:import <path>
var catalogImportCmd = &cobra.Command{
	Use:   "catalog:import <path>",
	Short: "Upsert categories and products from a JSON catalog file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cio, cleanup, err := catalogIO(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		report, err := cio.Import(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d categories created, %d products created, %d products updated\n",
			args[0], report.CategoriesCreated, report.ProductsCreated, report.ProductsUpdated)
		return nil
	},
}

// pcbuilder catalog:export <path>
var catalogExportCmd = &cobra.Command{
	Use:   "catalog:export <path>",
	Short: "Write the current catalog to a JSON file",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cio, cleanup, err := catalogIO(cmd)
		if err != nil {
			return err
		}
		defer cleanup()

		n, err := cio.Export(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d products to %s\n", n, args[0])
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{catalogImportCmd, catalogExportCmd} {
		c.Flags().StringVar(&catalogDisk, "disk", "", "storage disk (local or s3); defaults to STORAGE_DISK")
	}
}
