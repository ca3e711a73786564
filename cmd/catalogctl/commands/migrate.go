package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"library-catalog/internal/config"
	"library-catalog/internal/infrastructure/database"
	"library-catalog/pkg/container"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the catalog schema",
	Long: `Create the catalog schema for the configured store.

postgres: authors/books tables and indexes (idempotent DDL)
mongo:    collection indexes, ISBN index with case-insensitive collation
memory:   nothing to do`,
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := newContainer()
		if err != nil {
			return err
		}
		defer c.Cleanup()

		ctx, cancel := context.WithTimeout(cmd.Context(), time.Minute)
		defer cancel()

		return runMigrate(ctx, c, cmd)
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(ctx context.Context, c *container.Container, cmd *cobra.Command) error {
	switch c.Config.Store.Driver {
	case config.StoreDriverPostgres:
		if err := database.Migrate(ctx, c.DB.Pool); err != nil {
			return fmt.Errorf("postgres migration failed: %w", err)
		}
	case config.StoreDriverMongo:
		if err := c.Mongo.EnsureIndexes(ctx); err != nil {
			return fmt.Errorf("mongo index creation failed: %w", err)
		}
	default:
		fmt.Fprintln(cmd.OutOrStdout(), "memory store has no schema, nothing to migrate")
		return nil
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✓ %s schema is up to date\n", c.Config.Store.Driver)
	return nil
}
