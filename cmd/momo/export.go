package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/momo-ledger/internal/api"
	"github.com/Veraticus/momo-ledger/internal/cli"
	"github.com/Veraticus/momo-ledger/internal/config"
	"github.com/Veraticus/momo-ledger/internal/pdfreport"
	"github.com/Veraticus/momo-ledger/internal/service"
	"github.com/Veraticus/momo-ledger/internal/sheets"
)

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the transaction table",
	}

	cmd.AddCommand(exportJSONCmd())
	cmd.AddCommand(exportSheetsCmd())
	cmd.AddCommand(exportPDFCmd())

	return cmd
}

func exportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "json <file>",
		Short: "Write every transaction to a JSON file (\"-\" for stdout)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			if args[0] == "-" {
				_, err := exportJSON(ctx, store, cmd.OutOrStdout())
				return err
			}

			path := config.ExpandPath(args[0])
			if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
				return fmt.Errorf("failed to create export directory: %w", err)
			}
			f, err := os.Create(path) // #nosec G304 -- user-chosen export path
			if err != nil {
				return fmt.Errorf("failed to create export file: %w", err)
			}

			n, err := exportJSON(ctx, store, f)
			if closeErr := f.Close(); err == nil && closeErr != nil {
				err = fmt.Errorf("failed to close export file: %w", closeErr)
			}
			if err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to %s", n, path)))
			return nil
		},
	}
}

// exportJSON writes the full table in the same shape as GET /api/export/json.
func exportJSON(ctx context.Context, reporter service.Reporter, w io.Writer) (int, error) {
	records, err := reporter.AllTransactions(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to load transactions: %w", err)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(api.Export{
		ExportedAt:   time.Now().UTC(),
		TotalRecords: len(records),
		Transactions: records,
	}); err != nil {
		return 0, fmt.Errorf("failed to write export: %w", err)
	}
	return len(records), nil
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Push the summary, monthly, contact and transaction tabs to Google Sheets",
		Long: `Replace the report tabs of a Google Sheets spreadsheet with the current
ledger. Authenticate first with "momo auth sheets", or configure
sheets.service_account_path.`,
		RunE: runExportSheets,
	}

	cmd.Flags().String("spreadsheet-id", "", "target spreadsheet (overrides sheets.spreadsheet_id)")

	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	if id, _ := cmd.Flags().GetString("spreadsheet-id"); id != "" {
		viper.Set("sheets.spreadsheet_id", id)
	}
	sheetsCfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return fmt.Errorf("sheets configuration: %w", err)
	}

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	store, err := initStorage(ctx, settings.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	writer, err := sheets.NewWriter(ctx, *sheetsCfg, slog.Default())
	if err != nil {
		return err
	}

	n, err := exportSheets(ctx, store, writer)
	if err != nil {
		return err
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess(fmt.Sprintf("Exported %d transactions to Google Sheets", n)))
	return nil
}

func exportSheets(ctx context.Context, reporter service.Reporter, writer sheets.ReportWriter) (int, error) {
	report, err := sheets.BuildReport(ctx, reporter, time.Now())
	if err != nil {
		return 0, err
	}
	if err := writer.Write(ctx, report); err != nil {
		return 0, fmt.Errorf("sheets export failed: %w", err)
	}
	return len(report.Transactions), nil
}

func exportPDFCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "pdf <file>",
		Short: "Render the summary, monthly and contact report as a PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings.DatabasePath)
			if err != nil {
				return fmt.Errorf("failed to open database: %w", err)
			}
			defer func() { _ = store.Close() }()

			path := config.ExpandPath(args[0])
			if err := exportPDF(ctx, store, path); err != nil {
				return err
			}

			_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Wrote report to "+path))
			return nil
		},
	}
}

func exportPDF(ctx context.Context, reporter service.Reporter, path string) error {
	report, err := sheets.BuildReport(ctx, reporter, time.Now())
	if err != nil {
		return err
	}
	data, err := pdfreport.Build(report)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
