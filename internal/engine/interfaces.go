package engine

import (
	"context"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// Categorizer assigns exactly one category to a message body.
type Categorizer interface {
	Categorize(body string) model.Category
}

// RecordBuilder extracts a record from a categorized body. A non-nil error
// alongside a record reports per-field cast failures; the record is still usable.
type RecordBuilder interface {
	Build(body string, category model.Category) (model.TransactionRecord, error)
}

// RejectionSink receives bodies that matched no category, in corpus order.
type RejectionSink interface {
	Reject(ctx context.Context, index int, body string) error
}
