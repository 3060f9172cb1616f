package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/momo-ledger/internal/api"
	promcollector "github.com/Veraticus/momo-ledger/internal/metrics/prometheus"
)

const shutdownTimeout = 10 * time.Second

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the reporting API",
		Long: `Serve read-only JSON endpoints over the transaction table:

  GET /api/health
  GET /api/transactions          filters: category, start, end, min_amount,
                                 max_amount, search, page, limit
  GET /api/transactions/{id}
  GET /api/categories
  GET /api/stats
  GET /api/analytics/monthly
  GET /api/analytics/contacts
  GET /api/export/json
  GET /api/export/pdf
  GET /metrics                   Prometheus`,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "listen address (default from server.address)")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}
	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		settings.ServerAddress = addr
	}

	store, err := initStorage(ctx, settings.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer func() { _ = store.Close() }()

	collector, err := promcollector.NewCollector(promcollector.DefaultNamespace)
	if err != nil {
		return fmt.Errorf("failed to create metrics collector: %w", err)
	}

	server := api.NewServer(store, collector, api.ServerConfig{
		Address:      settings.ServerAddress,
		ReadTimeout:  settings.ReadTimeout,
		WriteTimeout: settings.WriteTimeout,
		Gatherer:     collector.Registry(),
	}, slog.Default())

	errs := server.Start()
	slog.Info("Reporting API started", "address", settings.ServerAddress, "database", settings.DatabasePath)

	select {
	case err, ok := <-errs:
		if ok && err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}
	slog.Info("Reporting API stopped")
	return nil
}
