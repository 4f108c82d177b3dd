package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the users and resumes tables",
	Long:  "Applies the schema to the configured database. Running it again is a no-op.",
	RunE:  runMigrate,
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	_, closeFn, err := openMigrated(cmd.Context(), cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer closeFn()

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), successStyle.Render("Schema is up to date"))
	return nil
}
