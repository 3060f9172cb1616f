package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// StartRun opens a ledger entry for an ingest of source.
func (s *SQLiteStorage) StartRun(ctx context.Context, source string) (*model.IngestRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(source, "source"); err != nil {
		return nil, err
	}

	run := &model.IngestRun{
		ID:                 uuid.New().String(),
		Source:             source,
		Status:             model.RunRunning,
		StartedAt:          time.Now().UTC(),
		LastCommittedIndex: -1,
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_runs (id, source, status, started_at, last_committed_index)
		VALUES (?, ?, ?, ?, ?)
	`, run.ID, run.Source, string(run.Status), run.StartedAt, run.LastCommittedIndex)
	if err != nil {
		return nil, fmt.Errorf("failed to start run: %w", err)
	}

	return run, nil
}

// FinishRun stores the final counts and status of a run.
func (s *SQLiteStorage) FinishRun(ctx context.Context, run *model.IngestRun) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateRun(run); err != nil {
		return err
	}

	if run.FinishedAt == nil {
		now := time.Now().UTC()
		run.FinishedAt = &now
	}

	res, err := s.db.ExecContext(ctx, `
		UPDATE import_runs
		SET status = ?, finished_at = ?, total = ?, accepted = ?, rejected = ?,
		    cast_errors = ?, last_committed_index = ?, error = ?
		WHERE id = ?
	`,
		string(run.Status),
		*run.FinishedAt,
		run.Total,
		run.Accepted,
		run.Rejected,
		run.CastErrors,
		run.LastCommittedIndex,
		sql.NullString{String: run.Error, Valid: run.Error != ""},
		run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to finish run %s: %w", run.ID, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check run update: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("run %s: %w", run.ID, ErrNotFound)
	}
	return nil
}

// ListRuns returns the most recent runs first.
func (s *SQLiteStorage) ListRuns(ctx context.Context, limit int) ([]model.IngestRun, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, status, started_at, finished_at, total, accepted,
		       rejected, cast_errors, last_committed_index, error
		FROM import_runs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []model.IngestRun
	for rows.Next() {
		var run model.IngestRun
		var status string
		var finishedAt sql.NullTime
		var errText sql.NullString

		if err := rows.Scan(
			&run.ID, &run.Source, &status, &run.StartedAt, &finishedAt,
			&run.Total, &run.Accepted, &run.Rejected, &run.CastErrors,
			&run.LastCommittedIndex, &errText,
		); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		run.Status = model.RunStatus(status)
		if finishedAt.Valid {
			t := finishedAt.Time
			run.FinishedAt = &t
		}
		run.Error = errText.String
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate runs: %w", err)
	}
	return runs, nil
}
