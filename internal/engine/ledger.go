package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// finishTimeout bounds the ledger update made after a canceled run.
const finishTimeout = 5 * time.Second

// Ingest wraps Run with a ledger entry: the run is opened before the first
// message and closed with its counts and status even when Run fails.
func (p *Pipeline) Ingest(ctx context.Context, ledger service.RunLedger, source string, corpus []model.RawMessage) (*model.IngestRun, *Report, error) {
	run, err := ledger.StartRun(ctx, source)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start run: %w", err)
	}

	report, runErr := p.run(ctx, run.ID, corpus)

	run.Total = report.Total
	run.Accepted = len(report.Accepted)
	run.Rejected = len(report.Rejected)
	run.CastErrors = report.CastErrors
	run.LastCommittedIndex = report.LastCommittedIndex
	run.Status = model.RunCompleted
	if runErr != nil {
		run.Status = model.RunFailed
		run.Error = runErr.Error()
	}

	finishCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), finishTimeout)
	defer cancel()
	if err := ledger.FinishRun(finishCtx, run); err != nil {
		slog.Error("Failed to record run result", "run_id", run.ID, "error", err)
		return run, report, errors.Join(runErr, fmt.Errorf("failed to finish run: %w", err))
	}

	return run, report, runErr
}
