package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Veraticus/momo-ledger/internal/cli"
	"github.com/Veraticus/momo-ledger/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Every other command migrates on open; this one is for creating the database
ahead of time or checking its version.`,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "Show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	status, _ := cmd.Flags().GetBool("status")
	ctx := cmd.Context()
	out := cmd.OutOrStdout()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	slog.Info("Starting database migration",
		"database", settings.DatabasePath,
		"status_only", status)

	store, err := storage.NewSQLiteStorage(settings.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if status {
		current, err := store.SchemaVersion(ctx)
		if err != nil {
			return fmt.Errorf("failed to read schema version: %w", err)
		}
		_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Database: %s", settings.DatabasePath)))
		_, _ = fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("Schema version: %d (latest %d)", current, storage.ExpectedSchemaVersion)))
		if current < storage.ExpectedSchemaVersion {
			_, _ = fmt.Fprintln(out, cli.FormatWarning("Pending migrations; run: momo migrate"))
		}
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	_, _ = fmt.Fprintln(out, cli.FormatSuccess("Database migrations completed"))
	return nil
}
