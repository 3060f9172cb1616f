package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Veraticus/momo-ledger/internal/cli"
)

func statsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show totals by category and by month",
		RunE:  runStats,
	}

	cmd.Flags().Bool("json", false, "print the summary as JSON")

	return cmd
}

func runStats(cmd *cobra.Command, _ []string) error {
	asJSON, _ := cmd.Flags().GetBool("json")
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

	summary, err := store.Summary(ctx)
	if err != nil {
		return fmt.Errorf("failed to summarize transactions: %w", err)
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(summary)
	}

	if summary.TotalTransactions == 0 {
		_, _ = fmt.Fprintln(out, cli.FormatInfo("No transactions stored yet. Run: momo load <sms-backup.xml>"))
		return nil
	}
	_, _ = fmt.Fprintln(out, cli.RenderSummary(summary))
	return nil
}

func runsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List recent load runs",
		RunE:  runRuns,
	}

	cmd.Flags().Int("limit", 20, "number of runs to show")

	return cmd
}

func runRuns(cmd *cobra.Command, _ []string) error {
	limit, _ := cmd.Flags().GetInt("limit")
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

	runs, err := store.ListRuns(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderRuns(runs))
	return nil
}
