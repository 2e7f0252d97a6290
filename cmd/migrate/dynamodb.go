package main

import (
	"context"
	"time"

	"cloudnotes-be/internal/repository/dynamo"
	"cloudnotes-be/pkg/database"

	"github.com/spf13/cobra"
)

var waitFor time.Duration

var dynamodbCmd = &cobra.Command{
	Use:   "dynamodb",
	Short: "Create the single notes table (userId HASH, noteId RANGE)",
	Run: func(cmd *cobra.Command, args []string) {
		ctx := context.Background()

		client, err := database.NewDynamoDBClient(ctx, database.DynamoDBConfig{
			Region:   cfg.Store.Region,
			Endpoint: cfg.Store.DynamoDBEndpoint,
		})
		if err != nil {
			fatal("Failed to create DynamoDB client", err)
		}

		info("Ensuring table %s...", cfg.Store.TableName)
		created, err := dynamo.EnsureTable(ctx, client, cfg.Store.TableName, waitFor)
		if err != nil {
			fatal("Failed to create table", err)
		}

		if created {
			success("Created table %s", cfg.Store.TableName)
		} else {
			success("Table %s already exists", cfg.Store.TableName)
		}
	},
}

func init() {
	dynamodbCmd.Flags().DurationVar(&waitFor, "wait", 2*time.Minute, "How long to wait for the table to become active")
	rootCmd.AddCommand(dynamodbCmd)
}
