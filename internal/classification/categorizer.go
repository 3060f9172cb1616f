// Package classification assigns a transaction category to an SMS body.
package classification

import (
	"errors"
	"fmt"
	"strings"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// ErrInvalidRule is returned for rules that can never produce a storable category.
var ErrInvalidRule = errors.New("invalid categorization rule")

// Rule maps a case-insensitive substring to a category.
type Rule struct {
	Keyword  string
	Category model.Category
}

// Validate checks that the rule has a keyword and a storable category.
func (r Rule) Validate() error {
	if strings.TrimSpace(r.Keyword) == "" {
		return fmt.Errorf("%w: empty keyword", ErrInvalidRule)
	}
	if !r.Category.IsKnown() {
		return fmt.Errorf("%w: %q maps to %q", ErrInvalidRule, r.Keyword, r.Category)
	}
	return nil
}

// Categorizer evaluates rules in order; the first match wins.
type Categorizer struct {
	rules []Rule
}

// NewCategorizer returns a categorizer over rules, or over DefaultRules when
// none are given. Keywords are lowered once here.
func NewCategorizer(rules ...Rule) (*Categorizer, error) {
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	lowered := make([]Rule, 0, len(rules))
	for i, r := range rules {
		if err := r.Validate(); err != nil {
			return nil, fmt.Errorf("rule %d: %w", i, err)
		}
		lowered = append(lowered, Rule{
			Keyword:  strings.ToLower(r.Keyword),
			Category: r.Category,
		})
	}

	return &Categorizer{rules: lowered}, nil
}

// Categorize returns the category of the first matching rule, or
// model.CategoryUnrecognized.
func (c *Categorizer) Categorize(body string) model.Category {
	lower := strings.ToLower(body)
	for _, r := range c.rules {
		if strings.Contains(lower, r.Keyword) {
			return r.Category
		}
	}
	return model.CategoryUnrecognized
}

// Rules returns a copy of the active rule list.
func (c *Categorizer) Rules() []Rule {
	out := make([]Rule, len(c.rules))
	copy(out, c.rules)
	return out
}
