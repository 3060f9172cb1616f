// Package model defines the core domain models used throughout the application.
package model

import "fmt"

// Category is the transaction type assigned to a message from its text.
type Category string

// Known categories. CategoryUnrecognized is never persisted.
const (
	CategoryIncoming       Category = "incoming"
	CategoryPayment        Category = "payment"
	CategoryWithdrawal     Category = "withdrawal"
	CategoryDeposit        Category = "deposit"
	CategoryCashPower      Category = "cash_power"
	CategoryInternetBundle Category = "internet_bundle"
	CategoryUnrecognized   Category = "unrecognized"
)

// Categories lists every category a record can carry, in rule order.
func Categories() []Category {
	return []Category{
		CategoryIncoming,
		CategoryPayment,
		CategoryWithdrawal,
		CategoryDeposit,
		CategoryCashPower,
		CategoryInternetBundle,
	}
}

// IsKnown reports whether c is a storable category.
func (c Category) IsKnown() bool {
	for _, known := range Categories() {
		if c == known {
			return true
		}
	}
	return false
}

func (c Category) String() string {
	return string(c)
}

// ParseCategory converts a name to a storable category.
func ParseCategory(name string) (Category, error) {
	c := Category(name)
	if !c.IsKnown() {
		return "", fmt.Errorf("unknown category %q", name)
	}
	return c, nil
}
