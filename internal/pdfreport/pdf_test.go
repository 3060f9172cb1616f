package pdfreport

import (
	"bytes"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
	"github.com/Veraticus/momo-ledger/internal/sheets"
)

func TestBuild(t *testing.T) {
	tests := []struct {
		report *sheets.Report
		name   string
	}{
		{
			name:   "empty ledger",
			report: &sheets.Report{GeneratedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
		},
		{
			name: "full report",
			report: &sheets.Report{
				GeneratedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
				Summary: &service.Summary{
					TotalTransactions: 2,
					TotalAmount:       7500,
					TotalFees:         100,
					UniqueContacts:    1,
					ByCategory: []service.CategorySummary{
						{Category: model.CategoryIncoming, Count: 1, Total: 5000, Average: decimal.NewFromInt(5000)},
						{Category: model.CategoryPayment, Count: 1, Total: 2500, Average: decimal.NewFromInt(2500)},
					},
				},
				Months: []service.MonthSummary{
					{Month: "2024-02", Count: 2, Total: 7500, Fees: 100, Average: decimal.NewFromInt(3750)},
				},
				Contacts: []service.ContactSummary{
					{Counterparty: "Jean Müller", Count: 1, Total: 2500, LastTimestamp: "2024-02-03 12:00:00"},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := Build(tt.report)
			require.NoError(t, err)
			assert.True(t, bytes.HasPrefix(data, []byte("%PDF-")))
			assert.True(t, bytes.Contains(data, []byte("%%EOF")))
		})
	}
}
