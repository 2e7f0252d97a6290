package main

import (
	"fmt"
	"os"

	"cloudnotes-be/internal/config"

	"github.com/spf13/cobra"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Prepare the note store schema",
	Long: `migrate creates the notes table for the configured backend.
Connection settings come from the same environment (or .env) as the server.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		cfg = config.Load()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}
