package sheets

import (
	"context"
	"fmt"
	"time"

	"github.com/Veraticus/momo-ledger/internal/service"
)

// Row limits for the aggregate tabs.
const (
	reportMonths   = 24
	reportContacts = 50
)

// BuildReport gathers the export from the store.
func BuildReport(ctx context.Context, reporter service.Reporter, now time.Time) (*Report, error) {
	summary, err := reporter.Summary(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load summary: %w", err)
	}
	months, err := reporter.SumByMonth(ctx, reportMonths)
	if err != nil {
		return nil, fmt.Errorf("failed to load monthly totals: %w", err)
	}
	contacts, err := reporter.Contacts(ctx, reportContacts)
	if err != nil {
		return nil, fmt.Errorf("failed to load contacts: %w", err)
	}
	records, err := reporter.AllTransactions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load transactions: %w", err)
	}

	return &Report{
		GeneratedAt:  now,
		Summary:      summary,
		Months:       months,
		Contacts:     contacts,
		Transactions: records,
	}, nil
}
