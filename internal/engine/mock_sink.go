package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// ErrMockSink is returned by MockSink when told to fail.
var ErrMockSink = errors.New("mock sink failure")

// MockSink is an in-memory TransactionSink for tests and dry runs.
type MockSink struct {
	Records []model.TransactionRecord
	Indexes []int
	// FailAt makes the insert for that corpus index fail. Negative disables.
	FailAt int
	mu     sync.Mutex
}

// NewMockSink creates a sink that never fails.
func NewMockSink() *MockSink {
	return &MockSink{FailAt: -1}
}

// Insert stores rec and returns a 1-based row id.
func (m *MockSink) Insert(_ context.Context, runID string, index int, rec model.TransactionRecord) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index == m.FailAt {
		return 0, ErrMockSink
	}
	rec.RunID = runID
	rec.SourceIndex = index
	m.Records = append(m.Records, rec)
	m.Indexes = append(m.Indexes, index)
	return int64(len(m.Records)), nil
}

// MockRejects is an in-memory RejectionSink that can be told to fail.
type MockRejects struct {
	Bodies  []string
	Indexes []int
	FailAt  int
	mu      sync.Mutex
}

// NewMockRejects creates a rejection sink that never fails.
func NewMockRejects() *MockRejects {
	return &MockRejects{FailAt: -1}
}

// Reject records body.
func (m *MockRejects) Reject(_ context.Context, index int, body string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if index == m.FailAt {
		return ErrMockSink
	}
	m.Bodies = append(m.Bodies, body)
	m.Indexes = append(m.Indexes, index)
	return nil
}
