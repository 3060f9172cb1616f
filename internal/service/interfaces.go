// Package service defines the interfaces shared between the pipeline, the
// store and the reporting surfaces.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// TransactionSink receives accepted records in corpus order.
type TransactionSink interface {
	Insert(ctx context.Context, runID string, index int, record model.TransactionRecord) (int64, error)
}

// TransactionFilter narrows transaction queries. Zero values mean "no filter".
// End is inclusive of the whole day.
type TransactionFilter struct {
	Category  *model.Category
	Start     *time.Time
	End       *time.Time
	MinAmount *int64
	MaxAmount *int64
	Search    string
	Limit     int
	Offset    int
}

// Reporter is the read side of the store used by the API, the CLI and exports.
type Reporter interface {
	ListTransactions(ctx context.Context, filter TransactionFilter) ([]model.TransactionRecord, error)
	CountTransactions(ctx context.Context, filter TransactionFilter) (int, error)
	GetTransaction(ctx context.Context, id int64) (*model.TransactionRecord, error)
	AllTransactions(ctx context.Context) ([]model.TransactionRecord, error)
	CategoryCounts(ctx context.Context) (map[model.Category]int, error)
	SumByCategory(ctx context.Context) ([]CategorySummary, error)
	SumByMonth(ctx context.Context, limit int) ([]MonthSummary, error)
	Contacts(ctx context.Context, limit int) ([]ContactSummary, error)
	Summary(ctx context.Context) (*Summary, error)
}

// RunLedger records ingest runs.
type RunLedger interface {
	StartRun(ctx context.Context, source string) (*model.IngestRun, error)
	FinishRun(ctx context.Context, run *model.IngestRun) error
	ListRuns(ctx context.Context, limit int) ([]model.IngestRun, error)
}

// Storage is the full persistence contract.
type Storage interface {
	TransactionSink
	Reporter
	RunLedger

	Truncate(ctx context.Context) error
	Migrate(ctx context.Context) error
	Ping(ctx context.Context) error
	Close() error
}

// CategorySummary aggregates amounts for one category.
// Average ignores records without an amount.
type CategorySummary struct {
	Category model.Category  `json:"category"`
	Average  decimal.Decimal `json:"avg_amount"`
	Count    int             `json:"count"`
	Total    int64           `json:"total_amount"`
}

// MonthSummary aggregates amounts for one YYYY-MM month.
type MonthSummary struct {
	Month   string          `json:"month"`
	Average decimal.Decimal `json:"avg_amount"`
	Count   int             `json:"transaction_count"`
	Total   int64           `json:"total_amount"`
	Fees    int64           `json:"total_fees"`
}

// ContactSummary aggregates activity with one counterparty.
type ContactSummary struct {
	Counterparty  string          `json:"contact"`
	LastTimestamp string          `json:"last_transaction"`
	Average       decimal.Decimal `json:"avg_amount"`
	Count         int             `json:"transaction_count"`
	Total         int64           `json:"total_amount"`
}

// Summary is the dashboard view of the whole table.
type Summary struct {
	ByCategory        []CategorySummary `json:"transaction_types"`
	ByMonth           []MonthSummary    `json:"monthly_trends"`
	TotalTransactions int               `json:"total_transactions"`
	TotalAmount       int64             `json:"total_amount"`
	TotalFees         int64             `json:"total_fees"`
	UniqueContacts    int               `json:"unique_contacts"`
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
