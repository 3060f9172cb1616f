package classification

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/model"
)

func TestCategorizer_Categorize(t *testing.T) {
	c, err := NewCategorizer()
	require.NoError(t, err)

	tests := []struct {
		name string
		body string
		want model.Category
	}{
		{
			name: "incoming",
			body: "TxId: 9911 You have received 1,000 RWF from John Doe.",
			want: model.CategoryIncoming,
		},
		{
			name: "payment",
			body: "You have made a payment of 2,500 RWF to Jane Smith (2547...) Fee was 100 RWF",
			want: model.CategoryPayment,
		},
		{
			name: "withdrawal",
			body: "You have withdrawn 20,000 RWF via agent",
			want: model.CategoryWithdrawal,
		},
		{
			name: "deposit",
			body: "A bank deposit of 40,000 RWF has been added",
			want: model.CategoryDeposit,
		},
		{
			name: "cash power",
			body: "Your Cash Power token for 5,000 RWF is 1234-5678",
			want: model.CategoryCashPower,
		},
		{
			name: "bundle",
			body: "You have purchased an internet BUNDLE of 1GB",
			want: model.CategoryInternetBundle,
		},
		{
			name: "received wins over bundle",
			body: "You have received a bundle gift of 500 RWF",
			want: model.CategoryIncoming,
		},
		{
			name: "payment wins over withdrawn",
			body: "Your payment of 1,000 RWF was withdrawn from savings",
			want: model.CategoryPayment,
		},
		{
			name: "withdrawn wins over bank deposit",
			body: "Amount withdrawn for bank deposit",
			want: model.CategoryWithdrawal,
		},
		{
			name: "case insensitive",
			body: "YOU HAVE RECEIVED 10 RWF",
			want: model.CategoryIncoming,
		},
		{
			name: "promotional",
			body: "Unrelated promotional text with no transaction keywords",
			want: model.CategoryUnrecognized,
		},
		{
			name: "empty",
			body: "",
			want: model.CategoryUnrecognized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Categorize(tt.body))
		})
	}
}

func TestNewCategorizer_CustomRules(t *testing.T) {
	rules := append(DefaultRules(), Rule{Keyword: "Airtime top-up", Category: model.CategoryPayment})
	c, err := NewCategorizer(rules...)
	require.NoError(t, err)

	assert.Equal(t, model.CategoryPayment, c.Categorize("airtime top-up of 100 RWF"))
	assert.Len(t, c.Rules(), len(DefaultRules())+1)
	assert.Equal(t, "airtime top-up", c.Rules()[len(rules)-1].Keyword)
}

func TestNewCategorizer_InvalidRules(t *testing.T) {
	tests := []struct {
		name string
		rule Rule
	}{
		{name: "empty keyword", rule: Rule{Keyword: "  ", Category: model.CategoryPayment}},
		{name: "unrecognized target", rule: Rule{Keyword: "promo", Category: model.CategoryUnrecognized}},
		{name: "unknown target", rule: Rule{Keyword: "airtime", Category: model.Category("airtime")}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCategorizer(tt.rule)
			assert.ErrorIs(t, err, ErrInvalidRule)
		})
	}
}

func TestCategorizer_RulesIsACopy(t *testing.T) {
	c, err := NewCategorizer()
	require.NoError(t, err)

	rules := c.Rules()
	rules[0].Category = model.CategoryDeposit

	assert.Equal(t, model.CategoryIncoming, c.Categorize("received"))
}
