package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/glowmart/glowmart/config"
	"github.com/glowmart/glowmart/database/seeders"
	"github.com/glowmart/glowmart/pkg/database"
)

// glowmart db:seed
var seedCmd = &cobra.Command{
	Use:   "db:seed",
	Short: "Run all database seeders",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := config.Load(); err != nil {
			return err
		}

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		store, err := database.Open(ctx, config.MongoURI(), config.MongoDatabase())
		if err != nil {
			return err
		}
		defer store.Close(context.Background())

		if err := store.EnsureIndexes(ctx); err != nil {
			return err
		}

		fmt.Println("Running seeders…")
		return seeders.RunAll(ctx, store)
	},
}
