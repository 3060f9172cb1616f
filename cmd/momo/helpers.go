package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/momo-ledger/internal/classification"
	"github.com/Veraticus/momo-ledger/internal/config"
	"github.com/Veraticus/momo-ledger/internal/engine"
	"github.com/Veraticus/momo-ledger/internal/extract"
	"github.com/Veraticus/momo-ledger/internal/service"
	"github.com/Veraticus/momo-ledger/internal/storage"
)

// envKeyReplacer maps nested keys onto env names: server.address -> MOMO_SERVER_ADDRESS.
var envKeyReplacer = strings.NewReplacer(".", "_")

// loadSettings resolves the runtime configuration from viper.
func loadSettings() (config.Settings, error) {
	config.SetDefaults(viper.GetViper())
	return config.Load(viper.GetViper())
}

// initStorage opens the database at path and brings its schema up to date.
func initStorage(ctx context.Context, path string) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(path)
	if err != nil {
		return nil, err
	}

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

// newCategorizer builds the categorizer from the default rules plus any
// configured under categorization.rules.
func newCategorizer() (*classification.Categorizer, error) {
	rules, err := config.LoadRules(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return classification.NewCategorizer(rules...)
}

// newPipeline wires the categorizer and the default record builder to sink and rejects.
func newPipeline(sink service.TransactionSink, rejects engine.RejectionSink, cfg engine.Config) (*engine.Pipeline, error) {
	categorizer, err := newCategorizer()
	if err != nil {
		return nil, err
	}
	return engine.NewWithConfig(categorizer, extract.DefaultBuilder(), sink, rejects, cfg), nil
}
