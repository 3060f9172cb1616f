package sheets

import (
	"errors"
	"log/slog"
	"time"

	"github.com/sony/gobreaker"

	"github.com/Veraticus/momo-ledger/internal/common"
)

const (
	breakerName          = "google-sheets"
	breakerTripThreshold = 5
	breakerOpenTimeout   = 30 * time.Second
)

func newBreaker(logger *slog.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        breakerName,
		MaxRequests: 1,
		Timeout:     breakerOpenTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= breakerTripThreshold
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("circuit breaker state changed",
				"name", name,
				"from", from.String(),
				"to", to.String())
		},
	})
}

// guard runs one Sheets API call through the circuit breaker. An open
// breaker fails fast and is not retried.
func (w *Writer) guard(call func() error) error {
	_, err := w.breaker.Execute(func() (any, error) {
		return nil, call()
	})
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return &common.RetryableError{Err: err, Retryable: false}
	}
	return err
}
