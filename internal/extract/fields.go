package extract

import "github.com/Veraticus/momo-ledger/internal/model"

// Patterns used by the default field table.
const (
	PatternTransactionID = `(?i)TxId[:\s]*([0-9]+)`
	PatternAmount        = `([0-9,]+)\s*RWF`
	PatternFee           = `Fee.*?([0-9,]+)\s*RWF`
	PatternBalance       = `(?i)new balance[:\s]*([0-9,]+)`
	PatternTimestamp     = `(\d{4}-\d{2}-\d{2} \d{2}:\d{2}:\d{2})`
	// A run of capitalised words after "to ", optionally led by "agent". It
	// ends before a digit, a lowercase word, punctuation, a parenthesis or a
	// label such as "Fee".
	PatternCounterparty = `\bto\s+((?:agent\s+)?[A-Z][\w'-]*(?:\s+[A-Z][\w'-]*)*?)` +
		`(?:\s+(?:Fee|Your|New|Balance|TxId|Ref)\b|\s*[(\d.,;:]|\s+[a-z]|\s*$)`
)

// DefaultFields returns the extraction table for MTN MoMo notifications.
// Counterparty phrasing is only reliable on outgoing messages, so it is
// limited to payments and withdrawals.
func DefaultFields() []Field {
	return []Field{
		MustField(TargetTransactionID, PatternTransactionID, CastString),
		MustField(TargetAmount, PatternAmount, CastInt),
		MustField(TargetFee, PatternFee, CastInt),
		MustField(TargetBalance, PatternBalance, CastInt),
		MustField(TargetTimestamp, PatternTimestamp, CastString),
		MustField(TargetCounterparty, PatternCounterparty, CastString,
			model.CategoryPayment, model.CategoryWithdrawal),
	}
}
