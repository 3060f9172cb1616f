package sheets

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"google.golang.org/api/sheets/v4"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
	"github.com/Veraticus/momo-ledger/internal/testutil"
	"github.com/Veraticus/momo-ledger/internal/testutil/messages"
)

func strPtr(s string) *string { return &s }

func sampleReport() *Report {
	amount := int64(2500)
	fee := int64(100)
	return &Report{
		GeneratedAt: time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC),
		Summary: &service.Summary{
			TotalTransactions: 2,
			TotalAmount:       3500,
			TotalFees:         100,
			UniqueContacts:    1,
			ByCategory: []service.CategorySummary{
				{Category: model.CategoryPayment, Count: 1, Total: 2500, Average: decimal.NewFromInt(2500)},
				{Category: model.CategoryIncoming, Count: 1, Total: 1000, Average: decimal.RequireFromString("1000.50")},
			},
		},
		Months: []service.MonthSummary{
			{Month: "2024-01", Count: 2, Total: 3500, Fees: 100, Average: decimal.NewFromInt(1750)},
		},
		Contacts: []service.ContactSummary{
			{Counterparty: "Jane Smith", Count: 1, Total: 2500, Average: decimal.NewFromInt(2500), LastTimestamp: "2024-01-20 09:00:00"},
		},
		Transactions: []model.TransactionRecord{
			{ID: 1, Category: model.CategoryPayment, Amount: &amount, Fee: &fee, Counterparty: strPtr("Jane Smith")},
			{ID: 2, Category: model.CategoryDeposit},
		},
	}
}

func TestReport_Tabs(t *testing.T) {
	tabs := sampleReport().Tabs()
	require.Len(t, tabs, 4)
	assert.Equal(t, []string{TabSummary, TabTransactions, TabMonthly, TabContacts},
		[]string{tabs[0].Name, tabs[1].Name, tabs[2].Name, tabs[3].Name})

	summary := tabs[0].Values
	assert.Equal(t, []any{"MoMo Ledger", "Mar 1, 2024 12:00"}, summary[0])
	assert.Equal(t, []any{"Total Transactions", 2}, summary[3])
	assert.Equal(t, []any{"Category", "Count", "Total (RWF)", "Average (RWF)"}, summary[8])
	assert.Equal(t, []any{"incoming", 1, int64(1000), 1000.5}, summary[10])

	txns := tabs[1].Values
	require.Len(t, txns, 3)
	assert.Equal(t, []any{int64(1), "", "payment", int64(2500), int64(100), "", "Jane Smith", ""}, txns[1])
	assert.Equal(t, []any{int64(2), "", "deposit", "", "", "", "", ""}, txns[2])

	assert.Equal(t, []any{"2024-01", 2, int64(3500), int64(100), 1750.0}, tabs[2].Values[1])
	assert.Equal(t, []any{"Jane Smith", 1, int64(2500), 2500.0, "2024-01-20 09:00:00"}, tabs[3].Values[1])
}

func TestReport_TabsWithoutSummary(t *testing.T) {
	r := &Report{}
	tabs := r.Tabs()
	assert.Len(t, tabs[0].Values, 9)
	assert.Len(t, tabs[1].Values, 1)
}

func TestFormattingRequests(t *testing.T) {
	tabs := sampleReport().Tabs()
	ids := map[string]int64{TabSummary: 0, TabTransactions: 11}

	reqs := formattingRequests(tabs, ids)
	require.Len(t, reqs, 6, "three requests per known tab")

	summaryBold := reqs[0].RepeatCell.Range
	assert.Equal(t, int64(8), summaryBold.StartRowIndex)
	assert.Equal(t, int64(9), reqs[1].UpdateSheetProperties.Properties.GridProperties.FrozenRowCount)

	txnBold := reqs[3].RepeatCell.Range
	assert.Equal(t, int64(11), txnBold.SheetId)
	assert.Equal(t, int64(0), txnBold.StartRowIndex)
	assert.Equal(t, int64(8), txnBold.EndColumnIndex)
}

func TestSheetIDsAndMissingTabs(t *testing.T) {
	s := &sheets.Spreadsheet{Sheets: []*sheets.Sheet{
		{Properties: &sheets.SheetProperties{Title: TabSummary, SheetId: 0}},
		{Properties: &sheets.SheetProperties{Title: "Notes", SheetId: 5}},
		{},
	}}

	ids := sheetIDsOf(s)
	assert.Equal(t, map[string]int64{TabSummary: 0, "Notes": 5}, ids)
	assert.Equal(t, []string{TabTransactions, TabMonthly, TabContacts}, missingTabs(ids))
}

func TestBuildReport(t *testing.T) {
	pay := messages.Record(model.CategoryPayment, 2500, "2024-01-20 09:00:00")
	pay.Counterparty = strPtr("Jane Smith")
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Records: []model.TransactionRecord{
			messages.Record(model.CategoryIncoming, 1000, "2024-01-15 10:30:00"),
			pay,
		},
	})

	now := time.Now()
	report, err := BuildReport(context.Background(), db.Storage, now)
	require.NoError(t, err)

	assert.Equal(t, now, report.GeneratedAt)
	assert.Equal(t, 2, report.Summary.TotalTransactions)
	assert.Len(t, report.Transactions, 2)
	require.Len(t, report.Months, 1)
	assert.Equal(t, "2024-01", report.Months[0].Month)
	require.Len(t, report.Contacts, 1)
	assert.Equal(t, "Jane Smith", report.Contacts[0].Counterparty)
}

func TestMockWriter(t *testing.T) {
	m := NewMockWriter()
	report := sampleReport()

	require.NoError(t, m.Write(context.Background(), report))
	m.SetWriteError(errors.New("quota"))
	assert.Error(t, m.Write(context.Background(), report))

	calls := m.GetWriteCalls()
	require.Len(t, calls, 2)
	assert.NoError(t, calls[0].Error)
	assert.EqualError(t, calls[1].Error, "quota")
	assert.Same(t, report, m.LastReport)
	assert.Equal(t, 2, m.WriteCallCount)
}

func TestTokenRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "token.json")
	token := &oauth2.Token{AccessToken: "a", RefreshToken: "r", TokenType: "Bearer"}

	require.NoError(t, SaveToken(path, token))
	loaded, err := LoadToken(path)
	require.NoError(t, err)
	assert.Equal(t, "r", loaded.RefreshToken)
	assert.Equal(t, "a", loaded.AccessToken)

	_, err = LoadToken(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestNewWriter_InvalidConfig(t *testing.T) {
	_, err := NewWriter(context.Background(), Config{}, nil)
	assert.Error(t, err)
}
