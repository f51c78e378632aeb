package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/database/seeders"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/shashiranjanraj/pcbuilder/pkg/migration"
)

// bootDB loads config and opens the database connection.
func bootDB() error {
	if err := config.Load(); err != nil {
		return err
	}
	return database.Connect()
}

// pcbuilder migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run all pending database migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		_, err := migration.New(database.DB, cmd.OutOrStdout()).Run()
		return err
	},
}

// pcbuilder migrate:rollback
var migrateRollbackCmd = &cobra.Command{
	Use:   "migrate:rollback",
	Short: "Rollback the last batch of migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		_, err := migration.New(database.DB, cmd.OutOrStdout()).Rollback()
		return err
	},
}

// pcbuilder migrate:status
var migrateStatusCmd = &cobra.Command{
	Use:   "migrate:status",
	Short: "Show the status of each migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		rows, err := migration.New(database.DB, cmd.OutOrStdout()).Status()
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 3, ' ', 0)
		fmt.Fprintln(w, "RAN\tBATCH\tMIGRATION")
		for _, s := range rows {
			ran, batch := "No", "-"
			if s.Ran {
				ran, batch = "Yes", fmt.Sprint(s.Batch)
			}
			fmt.Fprintf(w, "%s\t%s\t%s\n", ran, batch, s.Name)
		}
		return w.Flush()
	},
}

// pcbuilder seed
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		fmt.Fprintln(cmd.OutOrStdout(), "Running seeders…")
		return seeders.RunAll(database.DB, cmd.OutOrStdout())
	},
}
