package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// Validation errors.
var (
	ErrNilContext       = errors.New("context cannot be nil")
	ErrEmptyString      = errors.New("string parameter cannot be empty")
	ErrNilParameter     = errors.New("parameter cannot be nil")
	ErrInvalidDateRange = errors.New("start date must be before end date")
	ErrInvalidRecord    = errors.New("invalid transaction record")
	ErrInvalidRun       = errors.New("invalid import run")
	ErrNotFound         = errors.New("not found")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateRecord enforces the persisted-record invariant: a storable category
// and the raw text. Every other field is optional.
func validateRecord(rec *model.TransactionRecord) error {
	if rec == nil {
		return fmt.Errorf("%w: record", ErrNilParameter)
	}
	if !rec.Category.IsKnown() {
		return fmt.Errorf("%w: category %q", ErrInvalidRecord, rec.Category)
	}
	if rec.RawText == "" {
		return fmt.Errorf("%w: missing raw text", ErrInvalidRecord)
	}
	return nil
}

// validateRun validates a ledger entry before it is finished.
func validateRun(run *model.IngestRun) error {
	if run == nil {
		return fmt.Errorf("%w: run", ErrNilParameter)
	}
	if run.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidRun)
	}
	switch run.Status {
	case model.RunRunning, model.RunCompleted, model.RunFailed:
	default:
		return fmt.Errorf("%w: status %q", ErrInvalidRun, run.Status)
	}
	if run.Accepted+run.Rejected > run.Total {
		return fmt.Errorf("%w: %d accepted + %d rejected exceeds %d total",
			ErrInvalidRun, run.Accepted, run.Rejected, run.Total)
	}
	return nil
}
