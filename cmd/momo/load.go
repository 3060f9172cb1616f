package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/Veraticus/momo-ledger/internal/cli"
	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/config"
	"github.com/Veraticus/momo-ledger/internal/corpus"
	"github.com/Veraticus/momo-ledger/internal/engine"
	"github.com/Veraticus/momo-ledger/internal/metrics"
	promcollector "github.com/Veraticus/momo-ledger/internal/metrics/prometheus"
	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/rejectlog"
)

func loadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <sms-backup.xml>",
		Short: "Load an SMS backup into the transaction table",
		Long: `Read an SMS backup (the XML written by SMS Backup & Restore), categorize
every message, extract its fields and store the result.

Messages that match no category are appended, one per line, to the
unprocessed log. Loading the same file twice stores it twice; use --replace
to empty the table (and the unprocessed log) first.`,
		Args: cobra.ExactArgs(1),
		RunE: runLoad,
	}

	cmd.Flags().String("rejects", "", "unprocessed log path (default from ingest.rejects)")
	cmd.Flags().Int("workers", 0, "categorize and build with this many goroutines (default from ingest.workers)")
	cmd.Flags().Bool("dry-run", false, "categorize and extract without writing the store or the unprocessed log")
	cmd.Flags().Bool("replace", false, "empty the transaction table and the unprocessed log before loading")
	cmd.Flags().String("metrics-file", "", "write Prometheus metrics for the run to this textfile")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")

	return cmd
}

func runLoad(cmd *cobra.Command, args []string) error {
	settings, err := loadSettings()
	if err != nil {
		return err
	}

	rejectsPath, _ := cmd.Flags().GetString("rejects")
	if rejectsPath == "" {
		rejectsPath = settings.RejectsPath
	}
	rejectsPath = config.ExpandPath(rejectsPath)
	workers, _ := cmd.Flags().GetInt("workers")
	if workers <= 0 {
		workers = settings.Workers
	}
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	replace, _ := cmd.Flags().GetBool("replace")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	source := config.ExpandPath(args[0])

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := interrupts.HandleInterrupts(cmd.Context(), "Load",
		"Rows committed before the interrupt stay in the store; rerun with --replace to start clean")
	defer interrupts.Stop()

	messages, err := corpus.NewReader().ReadFile(ctx, source)
	if err != nil {
		return common.NewUserError("could not read "+source, err)
	}
	if len(messages) == 0 {
		return common.NewUserError("no messages found in "+source, common.ErrNoMessages)
	}

	var collector metrics.Collector = metrics.NoOpCollector{}
	var prom *promcollector.Collector
	if metricsFile != "" {
		if prom, err = promcollector.NewCollector(promcollector.DefaultNamespace); err != nil {
			return fmt.Errorf("failed to create metrics collector: %w", err)
		}
		collector = prom
	}

	pipelineCfg := engine.DefaultConfig()
	pipelineCfg.Workers = workers
	pipelineCfg.Metrics = collector

	var progress *cli.Progress
	if !noProgress {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(messages), "Loading messages...")
		pipelineCfg.OnProgress = progress.Update
	}

	var (
		run    *model.IngestRun
		report *engine.Report
		runErr error
	)
	if dryRun {
		run, report, runErr = dryRunLoad(ctx, messages, pipelineCfg)
	} else {
		run, report, runErr = ingest(ctx, settings.DatabasePath, rejectsPath, replace, source, messages, pipelineCfg)
	}

	if progress != nil {
		progress.Finish()
	}

	if prom != nil {
		if err := writeMetrics(prom, metricsFile); err != nil {
			slog.Warn("Failed to write metrics file", "file", metricsFile, "error", err)
		}
	}

	if run != nil && report != nil {
		shownRejects := rejectsPath
		if dryRun {
			shownRejects = ""
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderLoadSummary(run, report.Duration, shownRejects))
	}

	if runErr != nil {
		return fmt.Errorf("load failed: %w", runErr)
	}
	return nil
}

func ingest(ctx context.Context, dbPath, rejectsPath string, replace bool, source string, messages []model.RawMessage, cfg engine.Config) (*model.IngestRun, *engine.Report, error) {
	store, err := initStorage(ctx, dbPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	if replace {
		if err := store.Truncate(ctx); err != nil {
			return nil, nil, fmt.Errorf("failed to empty transaction table: %w", err)
		}
		slog.Info("Emptied transaction table", "database", dbPath)
	}

	rejects, err := rejectlog.Open(rejectsPath, replace)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open unprocessed log: %w", err)
	}
	defer func() {
		if err := rejects.Close(); err != nil {
			slog.Warn("Failed to close unprocessed log", "path", rejectsPath, "error", err)
		}
	}()

	pipeline, err := newPipeline(store, rejects, cfg)
	if err != nil {
		return nil, nil, err
	}

	return pipeline.Ingest(ctx, store, source, messages)
}

func dryRunLoad(ctx context.Context, messages []model.RawMessage, cfg engine.Config) (*model.IngestRun, *engine.Report, error) {
	cfg.RunID = "dry-run"
	pipeline, err := newPipeline(engine.NewMockSink(), &rejectlog.Memory{}, cfg)
	if err != nil {
		return nil, nil, err
	}

	report, runErr := pipeline.Run(ctx, messages)
	run := &model.IngestRun{
		ID:                 cfg.RunID,
		Status:             model.RunCompleted,
		Total:              report.Total,
		Accepted:           len(report.Accepted),
		Rejected:           len(report.Rejected),
		CastErrors:         report.CastErrors,
		LastCommittedIndex: report.LastCommittedIndex,
	}
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}
	return run, report, runErr
}

func writeMetrics(c *promcollector.Collector, path string) error {
	path = config.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
		return err
	}
	return c.WriteTextfile(path)
}
