// Package messages holds canned MoMo SMS bodies and record fixtures for tests.
package messages

import (
	"fmt"
	"strconv"

	"github.com/Veraticus/momo-ledger/internal/model"
)

// Sample bodies, one per category.
const (
	Incoming       = "You have received 1,000 RWF from John Doe. TxId: 9911. New balance: 5,000 RWF. 2024-01-15 10:30:00"
	Payment        = "Your payment of 2,500 RWF to Jane Smith (250788000000) was completed. Fee 100 RWF."
	Withdrawal     = "You have withdrawn 10,000 RWF to agent Eric (250789000000) at 2024-02-10 17:00:00. Fee 300 RWF. New balance: 3,000 RWF."
	Deposit        = "A bank deposit of 40,000 RWF has been added to your mobile money account at 2024-02-12 08:15:00. New balance: 43,000 RWF."
	CashPower      = "Your Cash Power purchase of 5,000 RWF with token 1234-5678 has been completed at 2024-03-01 19:00:00. Fee 0 RWF."
	InternetBundle = "Yello! You have purchased an internet bundle of 1GB for 2,000 RWF. TxId: 7788. 2024-03-05 07:45:00"
	Unrecognized   = "Welcome to MTN"
)

// Received builds an incoming body with the given figures.
func Received(amount, balance int64, txID int, ts string) string {
	return fmt.Sprintf("You have received %s RWF from John Doe. TxId: %d. New balance: %s RWF. %s",
		group(amount), txID, group(balance), ts)
}

// PaymentTo builds a payment body for counterparty.
func PaymentTo(amount, fee int64, counterparty string) string {
	return fmt.Sprintf("Your payment of %s RWF to %s (250788000000) was completed. Fee %s RWF.",
		group(amount), counterparty, group(fee))
}

// Record returns a minimal storable record.
func Record(category model.Category, amount int64, ts string) model.TransactionRecord {
	rec := model.TransactionRecord{
		Category: category,
		RawText:  string(category) + " " + ts,
		Amount:   &amount,
	}
	if ts != "" {
		rec.Timestamp = &ts
	}
	return rec
}

// Corpus wraps bodies as raw messages numbered in order.
func Corpus(bodies ...string) []model.RawMessage {
	out := make([]model.RawMessage, len(bodies))
	for i, body := range bodies {
		out[i] = model.RawMessage{Body: body, Index: i, Address: "M-Money"}
	}
	return out
}

// group renders n with comma thousands separators.
func group(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := n < 0
	if neg {
		s = s[1:]
	}
	for i := len(s) - 3; i > 0; i -= 3 {
		s = s[:i] + "," + s[i:]
	}
	if neg {
		return "-" + s
	}
	return s
}
