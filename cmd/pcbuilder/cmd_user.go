package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/shashiranjanraj/pcbuilder/app/services"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
)

// pcbuilder user:promote <username>
var userPromoteCmd = &cobra.Command{
	Use:   "user:promote <username>",
	Short: "Give an existing user the Admin role",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := bootDB(); err != nil {
			return err
		}
		defer database.Close()

		user, err := services.NewAuthService().Promote(cmd.Context(), args[0])
		if err != nil {
			return fmt.Errorf("promote %q: %w", args[0], err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s is now %s\n", user.Username, user.Role)
		return nil
	},
}
