// Package extract pulls typed field values out of SMS bodies and assembles them
// into transaction records.
package extract

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// ErrCast marks a capture that matched but could not be converted to its type.
var ErrCast = errors.New("capture cannot be cast")

// Cast is the type a captured value is converted to.
type Cast int

// Supported casts.
const (
	CastString Cast = iota
	CastInt
)

func (c Cast) String() string {
	switch c {
	case CastString:
		return "string"
	case CastInt:
		return "int"
	default:
		return "unknown"
	}
}

// Target names the record column a field populates.
type Target string

// Record columns populated by extraction.
const (
	TargetTransactionID Target = "transaction_id"
	TargetAmount        Target = "amount"
	TargetFee           Target = "fee"
	TargetBalance       Target = "balance"
	TargetTimestamp     Target = "timestamp"
	TargetCounterparty  Target = "counterparty"
)

// Field is one row of the extraction table: what to look for, how to cast it,
// and which categories it applies to. An empty Categories list means all.
type Field struct {
	Pattern    *regexp.Regexp
	Target     Target
	Categories []model.Category
	Cast       Cast
}

// NewField compiles pattern and returns a field. The pattern must have at least
// one capturing group; only the first is used.
func NewField(target Target, pattern string, cast Cast, categories ...model.Category) (Field, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Field{}, fmt.Errorf("field %s: %w", target, err)
	}
	if re.NumSubexp() < 1 {
		return Field{}, fmt.Errorf("field %s: pattern %q has no capturing group", target, pattern)
	}
	return Field{
		Target:     target,
		Pattern:    re,
		Cast:       cast,
		Categories: categories,
	}, nil
}

// MustField is NewField for static tables.
func MustField(target Target, pattern string, cast Cast, categories ...model.Category) Field {
	f, err := NewField(target, pattern, cast, categories...)
	if err != nil {
		panic(err)
	}
	return f
}

// AppliesTo reports whether the field is extracted for category c.
func (f Field) AppliesTo(c model.Category) bool {
	if len(f.Categories) == 0 {
		return true
	}
	for _, allowed := range f.Categories {
		if allowed == c {
			return true
		}
	}
	return false
}

// Error describes a capture that matched but failed to cast.
type Error struct {
	Err     error
	Target  Target
	Capture string
}

func (e *Error) Error() string {
	return fmt.Sprintf("extract %s from %q: %v", e.Target, e.Capture, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Extract applies f to body. It returns ok=false with a nil error when the
// pattern does not match, and ok=false with an *Error when the capture cannot
// be cast. Integer values are int64, string values are trimmed strings.
func Extract(body string, f Field) (any, bool, error) {
	m := f.Pattern.FindStringSubmatch(body)
	if m == nil {
		return nil, false, nil
	}
	capture := m[1]

	switch f.Cast {
	case CastInt:
		digits := strings.ReplaceAll(strings.TrimSpace(capture), ",", "")
		n, err := strconv.ParseInt(digits, 10, 64)
		if err != nil {
			return nil, false, &Error{
				Target:  f.Target,
				Capture: capture,
				Err:     fmt.Errorf("%w: %v", ErrCast, err),
			}
		}
		return n, true, nil
	case CastString:
		s := strings.TrimSpace(capture)
		if s == "" {
			return nil, false, nil
		}
		return s, true, nil
	default:
		return nil, false, &Error{
			Target:  f.Target,
			Capture: capture,
			Err:     fmt.Errorf("%w: unsupported cast %s", ErrCast, f.Cast),
		}
	}
}

// Int extracts an integer field, nil when absent.
func Int(body string, f Field) (*int64, error) {
	v, ok, err := Extract(body, f)
	if !ok {
		return nil, err
	}
	n, isInt := v.(int64)
	if !isInt {
		return nil, &Error{Target: f.Target, Err: fmt.Errorf("%w: field is cast as %s", ErrCast, f.Cast)}
	}
	return &n, nil
}

// String extracts a string field, nil when absent.
func String(body string, f Field) (*string, error) {
	v, ok, err := Extract(body, f)
	if !ok {
		return nil, err
	}
	s, isString := v.(string)
	if !isString {
		return nil, &Error{Target: f.Target, Err: fmt.Errorf("%w: field is cast as %s", ErrCast, f.Cast)}
	}
	return &s, nil
}
