package cmd

import (
	"errors"
	"fmt"

	"portfolio-dashboard/config"
	"portfolio-dashboard/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

// withMigrator opens the schema migrator for the configured database, runs fn
// and closes it again.
func withMigrator(fn func(m *migrate.Migrate) error) (err error) {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	m, err := migrate.New(cfg.DB.MigrationsPath, postgres.URL(cfg.DB))
	if err != nil {
		return fmt.Errorf("failed to create migration instance: %w", err)
	}
	defer func() {
		srcErr, dbErr := m.Close()
		if err == nil {
			err = errors.Join(srcErr, dbErr)
		}
	}()

	return fn(m)
}

func ignoreNoChange(err error) error {
	if errors.Is(err, migrate.ErrNoChange) {
		return nil
	}
	return err
}

var upCmd = &cobra.Command{
	Use:   "up",
	Short: "Apply all pending migrations",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := ignoreNoChange(m.Up()); err != nil {
				return fmt.Errorf("migration up failed: %w", err)
			}
			cmd.Println("Schema is up to date.")
			return nil
		})
	},
}

var downCmd = &cobra.Command{
	Use:   "down",
	Short: "Revert the last applied migration",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			if err := ignoreNoChange(m.Steps(-1)); err != nil {
				return fmt.Errorf("migration down failed: %w", err)
			}
			cmd.Println("Reverted last migration.")
			return nil
		})
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the current schema version",
	RunE: func(cmd *cobra.Command, args []string) error {
		return withMigrator(func(m *migrate.Migrate) error {
			version, dirty, err := m.Version()
			if errors.Is(err, migrate.ErrNilVersion) {
				cmd.Println("No migrations applied.")
				return nil
			}
			if err != nil {
				return fmt.Errorf("failed to read schema version: %w", err)
			}
			cmd.Printf("version=%d dirty=%t\n", version, dirty)
			return nil
		})
	},
}

var migrateCmd = &cobra.Command{
	Use:          "migrate",
	Short:        "Manage the postgres schema",
	SilenceUsage: true,
}

func init() {
	migrateCmd.AddCommand(upCmd, downCmd, versionCmd)
}
