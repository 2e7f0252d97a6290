package main

import (
	"errors"

	"cloudnotes-be/internal/model"
	"cloudnotes-be/pkg/database"

	"github.com/spf13/cobra"
)

var postgresCmd = &cobra.Command{
	Use:   "postgres",
	Short: "AutoMigrate the notes table in Postgres",
	Run: func(cmd *cobra.Command, args []string) {
		if cfg.Store.Connection == "" {
			fatal("Cannot migrate", errors.New("DB_CONNECTION_STRING is not set"))
		}

		db, err := database.NewGormDBFromDSN(cfg.Store.Connection)
		if err != nil {
			fatal("Failed to connect to database", err)
		}

		info("Migrating table %s...", model.Note{}.TableName())
		if err := db.AutoMigrate(&model.Note{}); err != nil {
			fatal("Migration failed", err)
		}

		success("Postgres schema is up to date")
	},
}

func init() {
	rootCmd.AddCommand(postgresCmd)
}
