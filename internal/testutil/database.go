// Package testutil provides test utilities for the momo-ledger project:
// isolated SQLite stores and canned SMS bodies.
package testutil

import (
	"context"
	"testing"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/storage"
)

// TestDB represents a test database with associated test utilities.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new migrated in-memory test database.
// Cleanup is registered on t.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	CustomSetup    func(context.Context, *storage.SQLiteStorage) error
	Records        []model.TransactionRecord
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() {
		_ = store.Close()
	})
	ctx := context.Background()

	if !opts.SkipMigrations {
		if err := store.Migrate(ctx); err != nil {
			t.Fatalf("failed to run migrations: %v", err)
		}
	}

	db := &TestDB{Storage: store, t: t}
	db.Seed(opts.Records...)

	if opts.CustomSetup != nil {
		if err := opts.CustomSetup(ctx, store); err != nil {
			t.Fatalf("custom setup failed: %v", err)
		}
	}

	return db
}

// Seed inserts records under the "seed" run, failing the test on error.
func (db *TestDB) Seed(records ...model.TransactionRecord) {
	db.t.Helper()
	ctx := context.Background()
	for i, rec := range records {
		if _, err := db.Storage.Insert(ctx, "seed", i, rec); err != nil {
			db.t.Fatalf("failed to seed record %d: %v", i, err)
		}
	}
}

// MustCount returns the number of stored transactions.
func (db *TestDB) MustCount() int {
	db.t.Helper()
	all, err := db.Storage.AllTransactions(context.Background())
	if err != nil {
		db.t.Fatalf("failed to count transactions: %v", err)
	}
	return len(all)
}
