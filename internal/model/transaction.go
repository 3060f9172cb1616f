package model

import "time"

// RawMessage is one SMS notification as read from the corpus.
type RawMessage struct {
	Body         string
	Address      string
	Date         string // provider epoch millis, kept as text
	ReadableDate string
	Index        int
}

// TransactionRecord is the structured form of an accepted message.
// Every field except Category and RawText is best-effort and nil when absent.
type TransactionRecord struct {
	CreatedAt     time.Time `json:"created_at"`
	TransactionID *string   `json:"tx_id"`
	Amount        *int64    `json:"amount"`
	Fee           *int64    `json:"fee"`
	Balance       *int64    `json:"balance"`
	Counterparty  *string   `json:"counterparty"`
	Timestamp     *string   `json:"timestamp"`
	Category      Category  `json:"category"`
	RawText       string    `json:"raw"`
	RunID         string    `json:"run_id"`
	ID            int64     `json:"id"`
	SourceIndex   int       `json:"source_index"`
}

// Month returns the YYYY-MM prefix of the timestamp, or "" when unknown.
func (r *TransactionRecord) Month() string {
	if r.Timestamp == nil || len(*r.Timestamp) < 7 {
		return ""
	}
	return (*r.Timestamp)[:7]
}
