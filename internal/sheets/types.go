package sheets

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// Tab names in the exported spreadsheet.
const (
	TabSummary      = "Summary"
	TabTransactions = "Transactions"
	TabMonthly      = "Monthly"
	TabContacts     = "Contacts"
)

// Report holds everything written in one export.
type Report struct {
	GeneratedAt  time.Time
	Summary      *service.Summary
	Contacts     []service.ContactSummary
	Months       []service.MonthSummary
	Transactions []model.TransactionRecord
}

// Tab is one sheet's worth of cell values.
type Tab struct {
	Name   string
	Values [][]any
}

// Tabs renders the report into sheet values, one tab per section.
func (r *Report) Tabs() []Tab {
	return []Tab{
		{Name: TabSummary, Values: r.summaryValues()},
		{Name: TabTransactions, Values: r.transactionValues()},
		{Name: TabMonthly, Values: r.monthlyValues()},
		{Name: TabContacts, Values: r.contactValues()},
	}
}

func (r *Report) summaryValues() [][]any {
	sum := r.Summary
	if sum == nil {
		sum = &service.Summary{}
	}

	values := make([][]any, 0, 10+len(sum.ByCategory))
	values = append(values,
		[]any{"MoMo Ledger", r.GeneratedAt.Format("Jan 2, 2006 15:04")},
		[]any{},
		[]any{"Summary"},
		[]any{"Total Transactions", sum.TotalTransactions},
		[]any{"Total Amount (RWF)", sum.TotalAmount},
		[]any{"Total Fees (RWF)", sum.TotalFees},
		[]any{"Unique Contacts", sum.UniqueContacts},
		[]any{},
		[]any{"Category", "Count", "Total (RWF)", "Average (RWF)"},
	)
	for _, c := range sum.ByCategory {
		values = append(values, []any{string(c.Category), c.Count, c.Total, decimalCell(c.Average)})
	}
	return values
}

func (r *Report) transactionValues() [][]any {
	values := make([][]any, 0, len(r.Transactions)+1)
	values = append(values, []any{
		"ID", "Timestamp", "Category", "Amount", "Fee", "Balance", "Counterparty", "TxId",
	})
	for _, rec := range r.Transactions {
		values = append(values, []any{
			rec.ID,
			stringCell(rec.Timestamp),
			string(rec.Category),
			intCell(rec.Amount),
			intCell(rec.Fee),
			intCell(rec.Balance),
			stringCell(rec.Counterparty),
			stringCell(rec.TransactionID),
		})
	}
	return values
}

func (r *Report) monthlyValues() [][]any {
	values := make([][]any, 0, len(r.Months)+1)
	values = append(values, []any{"Month", "Count", "Total (RWF)", "Fees (RWF)", "Average (RWF)"})
	for _, m := range r.Months {
		values = append(values, []any{m.Month, m.Count, m.Total, m.Fees, decimalCell(m.Average)})
	}
	return values
}

func (r *Report) contactValues() [][]any {
	values := make([][]any, 0, len(r.Contacts)+1)
	values = append(values, []any{"Contact", "Count", "Total (RWF)", "Average (RWF)", "Last Transaction"})
	for _, c := range r.Contacts {
		values = append(values, []any{c.Counterparty, c.Count, c.Total, decimalCell(c.Average), c.LastTimestamp})
	}
	return values
}

// The Sheets API takes numbers as float64; averages are already rounded to cents.
func decimalCell(d decimal.Decimal) any {
	f, _ := d.Float64()
	return f
}

func intCell(p *int64) any {
	if p == nil {
		return ""
	}
	return *p
}

func stringCell(p *string) any {
	if p == nil {
		return ""
	}
	return *p
}
