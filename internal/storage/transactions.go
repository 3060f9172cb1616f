package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

const timestampLayout = "2006-01-02 15:04:05"

const recordColumns = `id, run_id, source_index, tx_id, amount, fee, balance,
	category, counterparty, timestamp, raw, created_at`

// Insert appends one record and returns its row id.
func (s *SQLiteStorage) Insert(ctx context.Context, runID string, index int, rec model.TransactionRecord) (int64, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}
	if err := validateRecord(&rec); err != nil {
		return 0, err
	}

	res, err := s.db.ExecContext(ctx, `
		INSERT INTO transactions (
			run_id, source_index, tx_id, amount, fee, balance,
			category, counterparty, timestamp, raw
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`,
		runID,
		index,
		nullString(rec.TransactionID),
		nullInt(rec.Amount),
		nullInt(rec.Fee),
		nullInt(rec.Balance),
		string(rec.Category),
		nullString(rec.Counterparty),
		nullString(rec.Timestamp),
		rec.RawText,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to insert record %d: %w", index, err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to read inserted id: %w", err)
	}
	return id, nil
}

// GetTransaction returns one record by row id.
func (s *SQLiteStorage) GetTransaction(ctx context.Context, id int64) (*model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `SELECT `+recordColumns+` FROM transactions WHERE id = ?`, id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction %d: %w", id, err)
	}
	return rec, nil
}

// ListTransactions returns filtered records, newest timestamp first.
// Records without a timestamp sort last, in reverse load order.
func (s *SQLiteStorage) ListTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	where, args, err := buildWhere(filter)
	if err != nil {
		return nil, err
	}

	query := `SELECT ` + recordColumns + ` FROM transactions` + where +
		` ORDER BY timestamp IS NULL, timestamp DESC, id DESC`
	if filter.Limit > 0 {
		query += ` LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset)
	}

	return s.queryRecords(ctx, s.db, query, args...)
}

// CountTransactions counts records matching filter, ignoring Limit and Offset.
func (s *SQLiteStorage) CountTransactions(ctx context.Context, filter service.TransactionFilter) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	where, args, err := buildWhere(filter)
	if err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+where, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

// AllTransactions returns every record in load order.
func (s *SQLiteStorage) AllTransactions(ctx context.Context) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryRecords(ctx, s.db, `SELECT `+recordColumns+` FROM transactions ORDER BY id ASC`)
}

// CategoryCounts returns the number of records per category, including zero
// counts for known categories with no rows.
func (s *SQLiteStorage) CategoryCounts(ctx context.Context) (map[model.Category]int, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	counts := make(map[model.Category]int, len(model.Categories()))
	for _, c := range model.Categories() {
		counts[c] = 0
	}

	rows, err := s.db.QueryContext(ctx, `SELECT category, COUNT(*) FROM transactions GROUP BY category`)
	if err != nil {
		return nil, fmt.Errorf("failed to count categories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	for rows.Next() {
		var category string
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		counts[model.Category(category)] = count
	}
	return counts, rows.Err()
}

// likeEscaper makes search text match literally inside a LIKE pattern.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func buildWhere(filter service.TransactionFilter) (string, []any, error) {
	var conds []string
	var args []any

	if filter.Category != nil {
		conds = append(conds, "category = ?")
		args = append(args, string(*filter.Category))
	}
	if filter.Start != nil && filter.End != nil && filter.End.Before(*filter.Start) {
		return "", nil, fmt.Errorf("%w: end %s is before start %s",
			ErrInvalidDateRange, filter.End.Format("2006-01-02"), filter.Start.Format("2006-01-02"))
	}
	if filter.Start != nil {
		conds = append(conds, "timestamp >= ?")
		args = append(args, filter.Start.Format(timestampLayout))
	}
	if filter.End != nil {
		day := time.Date(filter.End.Year(), filter.End.Month(), filter.End.Day(), 0, 0, 0, 0, filter.End.Location())
		conds = append(conds, "timestamp < ?")
		args = append(args, day.AddDate(0, 0, 1).Format(timestampLayout))
	}
	if filter.MinAmount != nil {
		conds = append(conds, "amount >= ?")
		args = append(args, *filter.MinAmount)
	}
	if filter.MaxAmount != nil {
		conds = append(conds, "amount <= ?")
		args = append(args, *filter.MaxAmount)
	}
	if filter.Search != "" {
		like := "%" + likeEscaper.Replace(filter.Search) + "%"
		conds = append(conds, `(raw LIKE ? ESCAPE '\' OR counterparty LIKE ? ESCAPE '\' OR tx_id LIKE ? ESCAPE '\')`)
		args = append(args, like, like, like)
	}

	if len(conds) == 0 {
		return "", args, nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args, nil
}

func (s *SQLiteStorage) queryRecords(ctx context.Context, q queryable, query string, args ...any) ([]model.TransactionRecord, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.TransactionRecord
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return records, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(sc scanner) (*model.TransactionRecord, error) {
	var rec model.TransactionRecord
	var txID, counterparty, timestamp sql.NullString
	var amount, fee, balance sql.NullInt64
	var category string
	var createdAt sql.NullTime

	err := sc.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.SourceIndex,
		&txID,
		&amount,
		&fee,
		&balance,
		&category,
		&counterparty,
		&timestamp,
		&rec.RawText,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	rec.Category = model.Category(category)
	rec.TransactionID = stringPtr(txID)
	rec.Counterparty = stringPtr(counterparty)
	rec.Timestamp = stringPtr(timestamp)
	rec.Amount = intPtr(amount)
	rec.Fee = intPtr(fee)
	rec.Balance = intPtr(balance)
	if createdAt.Valid {
		rec.CreatedAt = createdAt.Time
	}

	return &rec, nil
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func nullInt(p *int64) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *p, Valid: true}
}

func stringPtr(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	s := ns.String
	return &s
}

func intPtr(ni sql.NullInt64) *int64 {
	if !ni.Valid {
		return nil
	}
	n := ni.Int64
	return &n
}
