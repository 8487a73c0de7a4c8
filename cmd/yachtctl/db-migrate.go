package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/yachtexcel/yachtexcel/pkg/db"
)

// dbMigrateCmd represents the db migrate command
var dbMigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create and/or upgrade the database schema",
	Long: `Create and/or upgrade the database schema.

This command runs all pending database migrations to bring the schema
up to date. Migrations are read from db/migrations (or
YACHTEXCEL_MIGRATIONS_PATH) unless the binary was built with the
embed_migrations tag. SQLite databases are migrated from the models.

Example:
  yachtctl db migrate`,
	Run: func(cmd *cobra.Command, args []string) {
		env := mustLoadEnv()
		logger := mustLogger(env)
		defer func() { _ = logger.Sync() }()

		if err := env.RequireDatabase(); err != nil {
			fail("%v", err)
		}

		if db.IsSQLite(env.DatabaseURL) {
			gdb, err := openDB(env, false)
			if err != nil {
				fail("Unable to connect to DB: %v", err)
			}
			if err := db.AutoMigrate(gdb); err != nil {
				fail("Migration failed: %v", err)
			}
			fmt.Println("Migrations complete")
			return
		}

		if err := db.Migrate(env.DatabaseURL, logger); err != nil {
			fail("Migration failed: %v", err)
		}
	},
}

var dbMigrateDownCmd = &cobra.Command{
	Use:   "down [steps]",
	Short: "Rollback database migrations",
	Long: `Rollback database migrations.

This command rolls back the specified number of migrations (default: 1).

Example:
  yachtctl db down      # Rollback 1 migration
  yachtctl db down 3    # Rollback 3 migrations`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		steps := 1
		if len(args) > 0 {
			n, err := strconv.Atoi(args[0])
			if err != nil {
				fail("Invalid number of steps %q", args[0])
			}
			steps = n
		}

		env := mustLoadEnv()
		logger := mustLogger(env)
		defer func() { _ = logger.Sync() }()

		if err := env.RequireDatabase(); err != nil {
			fail("%v", err)
		}
		if err := db.MigrateDown(env.DatabaseURL, steps, logger); err != nil {
			fail("Rollback failed: %v", err)
		}
	},
}

var dbMigrateStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show current migration version",
	Long:  `Show the current database migration version.`,
	Run: func(cmd *cobra.Command, args []string) {
		env := mustLoadEnv()
		if err := env.RequireDatabase(); err != nil {
			fail("%v", err)
		}

		status, err := db.Status(env.DatabaseURL)
		if err != nil {
			fail("Failed to get status: %v", err)
		}
		if !status.Applied {
			fmt.Println("No migrations have been applied yet")
			return
		}
		fmt.Printf("Current version: %d\n", status.Version)
		if status.Dirty {
			fmt.Println("Warning: Database is in a dirty state")
		}
	},
}

func init() {
	dbCmd.AddCommand(dbMigrateCmd)
	dbCmd.AddCommand(dbMigrateDownCmd)
	dbCmd.AddCommand(dbMigrateStatusCmd)
}
