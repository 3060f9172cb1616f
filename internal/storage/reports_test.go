package storage

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

func seedReportData(t *testing.T, store *SQLiteStorage) {
	t.Helper()

	pay1 := testRecord(model.CategoryPayment, 2500, "2024-01-20 09:00:00")
	pay1.Counterparty = strPtr("Jane Smith")
	pay1.Fee = int64Ptr(100)
	pay2 := testRecord(model.CategoryPayment, 1500, "2024-02-03 12:00:00")
	pay2.Counterparty = strPtr("Jane Smith")
	pay2.Fee = int64Ptr(50)
	wd := testRecord(model.CategoryWithdrawal, 10000, "2024-02-10 17:00:00")
	wd.Counterparty = strPtr("agent Eric")
	noAmount := model.TransactionRecord{Category: model.CategoryCashPower, RawText: "token"}

	seedRecords(t, store,
		testRecord(model.CategoryIncoming, 1000, "2024-01-15 10:30:00"),
		pay1,
		pay2,
		wd,
		noAmount,
	)
}

func TestSQLiteStorage_SumByCategory(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	got, err := store.SumByCategory(context.Background())
	require.NoError(t, err)

	want := []service.CategorySummary{
		{Category: model.CategoryWithdrawal, Count: 1, Total: 10000, Average: decimal.NewFromInt(10000)},
		{Category: model.CategoryPayment, Count: 2, Total: 4000, Average: decimal.NewFromInt(2000)},
		{Category: model.CategoryIncoming, Count: 1, Total: 1000, Average: decimal.NewFromInt(1000)},
		{Category: model.CategoryCashPower, Count: 1, Total: 0, Average: decimal.Zero},
	}
	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Category, got[i].Category)
		assert.Equal(t, want[i].Count, got[i].Count)
		assert.Equal(t, want[i].Total, got[i].Total)
		assert.True(t, want[i].Average.Equal(got[i].Average), "%s average %s", got[i].Category, got[i].Average)
	}
}

func TestSQLiteStorage_SumByMonth(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)
	ctx := context.Background()

	got, err := store.SumByMonth(ctx, 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "2024-02", got[0].Month)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, int64(11500), got[0].Total)
	assert.Equal(t, int64(50), got[0].Fees)
	assert.True(t, decimal.NewFromInt(5750).Equal(got[0].Average))

	assert.Equal(t, "2024-01", got[1].Month)
	assert.Equal(t, int64(3500), got[1].Total)
	assert.Equal(t, int64(100), got[1].Fees)

	limited, err := store.SumByMonth(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}

func TestSQLiteStorage_Contacts(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	seedReportData(t, store)

	got, err := store.Contacts(context.Background(), 0)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Jane Smith", got[0].Counterparty)
	assert.Equal(t, 2, got[0].Count)
	assert.Equal(t, int64(4000), got[0].Total)
	assert.Equal(t, "2024-02-03 12:00:00", got[0].LastTimestamp)
	assert.Equal(t, "agent Eric", got[1].Counterparty)
}

func TestSQLiteStorage_Summary(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()
	ctx := context.Background()

	empty, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Zero(t, empty.TotalTransactions)
	assert.Zero(t, empty.TotalAmount)
	assert.Empty(t, empty.ByCategory)

	seedReportData(t, store)

	sum, err := store.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 5, sum.TotalTransactions)
	assert.Equal(t, int64(15000), sum.TotalAmount)
	assert.Equal(t, int64(150), sum.TotalFees)
	assert.Equal(t, 2, sum.UniqueContacts)
	assert.Len(t, sum.ByCategory, 4)
	assert.Len(t, sum.ByMonth, 2)
}

func TestAverage(t *testing.T) {
	assert.True(t, decimal.Zero.Equal(average(100, 0)))
	assert.Equal(t, "33.33", average(100, 3).String())
}
