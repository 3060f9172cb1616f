package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCategory(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Category
		wantErr bool
	}{
		{name: "incoming", input: "incoming", want: CategoryIncoming},
		{name: "cash power", input: "cash_power", want: CategoryCashPower},
		{name: "bundle", input: "internet_bundle", want: CategoryInternetBundle},
		{name: "unrecognized is not storable", input: "unrecognized", wantErr: true},
		{name: "unknown", input: "airtime", wantErr: true},
		{name: "case sensitive", input: "Payment", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCategory(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCategories_Order(t *testing.T) {
	assert.Equal(t, []Category{
		CategoryIncoming,
		CategoryPayment,
		CategoryWithdrawal,
		CategoryDeposit,
		CategoryCashPower,
		CategoryInternetBundle,
	}, Categories())
	assert.False(t, CategoryUnrecognized.IsKnown())
}

func TestTransactionRecord_Month(t *testing.T) {
	ts := "2024-01-15 10:30:00"
	short := "2024"

	r := TransactionRecord{Timestamp: &ts}
	assert.Equal(t, "2024-01", r.Month())

	r.Timestamp = &short
	assert.Empty(t, r.Month())

	r.Timestamp = nil
	assert.Empty(t, r.Month())
}
