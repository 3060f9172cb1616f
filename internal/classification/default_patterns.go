package classification

import "github.com/Veraticus/momo-ledger/internal/model"

// DefaultRules returns the categorization rules in precedence order.
// Order is part of the contract: a body mentioning both "received" and
// "bundle" is incoming.
func DefaultRules() []Rule {
	return []Rule{
		{Keyword: "received", Category: model.CategoryIncoming},
		{Keyword: "payment of", Category: model.CategoryPayment},
		{Keyword: "withdrawn", Category: model.CategoryWithdrawal},
		{Keyword: "bank deposit", Category: model.CategoryDeposit},
		{Keyword: "cash power", Category: model.CategoryCashPower},
		{Keyword: "bundle", Category: model.CategoryInternetBundle},
	}
}
