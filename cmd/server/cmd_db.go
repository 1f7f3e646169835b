package main

import (
	"fmt"

	"sahone-backend/internal/database"
	"sahone-backend/internal/menu"

	"github.com/spf13/cobra"
)

// database.Init migrates, so booting is all this needs.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update database tables",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := boot(); err != nil {
			return err
		}
		fmt.Println("Migration done.")
		return nil
	},
}

var seedCategoriesCmd = &cobra.Command{
	Use:   "seed-categories",
	Short: "Insert the default menu categories that are missing",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := boot(); err != nil {
			return err
		}
		n, err := menu.SeedCategories(database.DB)
		if err != nil {
			return err
		}
		fmt.Printf("%d categories inserted.\n", n)
		return nil
	},
}
