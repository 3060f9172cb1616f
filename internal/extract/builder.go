package extract

import (
	"errors"
	"fmt"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// ErrUnbuildableCategory is returned when a record is requested for a category
// that cannot be stored.
var ErrUnbuildableCategory = errors.New("category cannot produce a record")

var targetCasts = map[Target]Cast{
	TargetTransactionID: CastString,
	TargetAmount:        CastInt,
	TargetFee:           CastInt,
	TargetBalance:       CastInt,
	TargetTimestamp:     CastString,
	TargetCounterparty:  CastString,
}

// Builder turns a categorized body into a TransactionRecord using a field table.
type Builder struct {
	fields []Field
}

// NewBuilder validates the field table and returns a builder for it.
func NewBuilder(fields ...Field) (*Builder, error) {
	if len(fields) == 0 {
		return nil, errors.New("builder needs at least one field")
	}
	for _, f := range fields {
		want, ok := targetCasts[f.Target]
		if !ok {
			return nil, fmt.Errorf("field targets unknown column %q", f.Target)
		}
		if f.Cast != want {
			return nil, fmt.Errorf("field %s must be cast as %s, got %s", f.Target, want, f.Cast)
		}
		if f.Pattern == nil {
			return nil, fmt.Errorf("field %s has no pattern", f.Target)
		}
	}
	return &Builder{fields: fields}, nil
}

// DefaultBuilder returns a builder over DefaultFields.
func DefaultBuilder() *Builder {
	b, err := NewBuilder(DefaultFields()...)
	if err != nil {
		panic(err)
	}
	return b
}

// Build extracts every field that applies to category. Fields that do not match
// stay nil. The returned record is always usable; a non-nil error joins the
// per-field cast failures, whose fields are left nil.
func (b *Builder) Build(body string, category model.Category) (model.TransactionRecord, error) {
	if !category.IsKnown() {
		return model.TransactionRecord{}, fmt.Errorf("%w: %q", ErrUnbuildableCategory, category)
	}

	rec := model.TransactionRecord{
		Category: category,
		RawText:  body,
	}

	var errs []error
	for _, f := range b.fields {
		if !f.AppliesTo(category) {
			continue
		}
		v, ok, err := Extract(body, f)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !ok {
			continue
		}
		assign(&rec, f.Target, v)
	}

	return rec, errors.Join(errs...)
}

func assign(rec *model.TransactionRecord, target Target, v any) {
	switch target {
	case TargetTransactionID:
		s := v.(string)
		rec.TransactionID = &s
	case TargetAmount:
		n := v.(int64)
		rec.Amount = &n
	case TargetFee:
		n := v.(int64)
		rec.Fee = &n
	case TargetBalance:
		n := v.(int64)
		rec.Balance = &n
	case TargetTimestamp:
		s := v.(string)
		rec.Timestamp = &s
	case TargetCounterparty:
		s := v.(string)
		rec.Counterparty = &s
	}
}
