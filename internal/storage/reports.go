package storage

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// Default row limits for the aggregate views.
const (
	DefaultMonthLimit   = 12
	DefaultContactLimit = 50
)

// SumByCategory returns count, total and average amount per category,
// largest total first. Missing amounts count as zero in the total.
func (s *SQLiteStorage) SumByCategory(ctx context.Context) ([]service.CategorySummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT category, COUNT(*), COUNT(amount), COALESCE(SUM(amount), 0)
		FROM transactions
		GROUP BY category
		ORDER BY 4 DESC, category ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []service.CategorySummary
	for rows.Next() {
		var category string
		var count, withAmount int
		var total int64
		if err := rows.Scan(&category, &count, &withAmount, &total); err != nil {
			return nil, fmt.Errorf("failed to scan category summary: %w", err)
		}
		out = append(out, service.CategorySummary{
			Category: model.Category(category),
			Count:    count,
			Total:    total,
			Average:  average(total, withAmount),
		})
	}
	return out, rows.Err()
}

// SumByMonth groups by the first seven characters of the timestamp, newest
// month first. Records without a timestamp are left out.
func (s *SQLiteStorage) SumByMonth(ctx context.Context, limit int) ([]service.MonthSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultMonthLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT substr(timestamp, 1, 7) AS month,
		       COUNT(*), COUNT(amount),
		       COALESCE(SUM(amount), 0), COALESCE(SUM(fee), 0)
		FROM transactions
		WHERE timestamp IS NOT NULL AND length(timestamp) >= 7
		GROUP BY month
		ORDER BY month DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to sum by month: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []service.MonthSummary
	for rows.Next() {
		var m service.MonthSummary
		var withAmount int
		if err := rows.Scan(&m.Month, &m.Count, &withAmount, &m.Total, &m.Fees); err != nil {
			return nil, fmt.Errorf("failed to scan month summary: %w", err)
		}
		m.Average = average(m.Total, withAmount)
		out = append(out, m)
	}
	return out, rows.Err()
}

// Contacts returns the most frequent counterparties.
func (s *SQLiteStorage) Contacts(ctx context.Context, limit int) ([]service.ContactSummary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = DefaultContactLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT counterparty, COUNT(*), COUNT(amount),
		       COALESCE(SUM(amount), 0), COALESCE(MAX(timestamp), '')
		FROM transactions
		WHERE counterparty IS NOT NULL AND counterparty != ''
		GROUP BY counterparty
		ORDER BY 2 DESC, counterparty ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query contacts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var out []service.ContactSummary
	for rows.Next() {
		var c service.ContactSummary
		var withAmount int
		if err := rows.Scan(&c.Counterparty, &c.Count, &withAmount, &c.Total, &c.LastTimestamp); err != nil {
			return nil, fmt.Errorf("failed to scan contact: %w", err)
		}
		c.Average = average(c.Total, withAmount)
		out = append(out, c)
	}
	return out, rows.Err()
}

// Summary assembles the dashboard totals.
func (s *SQLiteStorage) Summary(ctx context.Context) (*service.Summary, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var sum service.Summary
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*),
		       COALESCE(SUM(amount), 0),
		       COALESCE(SUM(CASE WHEN fee > 0 THEN fee ELSE 0 END), 0),
		       COUNT(DISTINCT counterparty)
		FROM transactions
	`).Scan(&sum.TotalTransactions, &sum.TotalAmount, &sum.TotalFees, &sum.UniqueContacts)
	if err != nil {
		return nil, fmt.Errorf("failed to summarize transactions: %w", err)
	}

	if sum.ByCategory, err = s.SumByCategory(ctx); err != nil {
		return nil, err
	}
	if sum.ByMonth, err = s.SumByMonth(ctx, DefaultMonthLimit); err != nil {
		return nil, err
	}

	return &sum, nil
}

func average(total int64, count int) decimal.Decimal {
	if count == 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(total).Div(decimal.NewFromInt(int64(count))).Round(2)
}
