package config

import (
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/momo-ledger/internal/classification"
	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/model"
)

func yamlViper(t *testing.T, doc string) *viper.Viper {
	t.Helper()
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(strings.NewReader(doc)))
	return v
}

func TestLoadRules_DefaultsOnly(t *testing.T) {
	rules, err := LoadRules(viper.New())
	require.NoError(t, err)
	assert.Equal(t, classification.DefaultRules(), rules)
}

func TestLoadRules_AppendsConfigured(t *testing.T) {
	v := yamlViper(t, `
categorization:
  rules:
    - keyword: airtime
      category: internet_bundle
    - keyword: merchant code
      category: payment
`)

	rules, err := LoadRules(v)
	require.NoError(t, err)

	defaults := classification.DefaultRules()
	require.Len(t, rules, len(defaults)+2)
	assert.Equal(t, defaults, rules[:len(defaults)])
	assert.Equal(t, classification.Rule{Keyword: "airtime", Category: model.CategoryInternetBundle}, rules[len(defaults)])
	assert.Equal(t, classification.Rule{Keyword: "merchant code", Category: model.CategoryPayment}, rules[len(defaults)+1])
}

func TestLoadRules_Invalid(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{
			name: "unknown category",
			doc: `
categorization:
  rules:
    - keyword: refund
      category: refund
`,
		},
		{
			name: "unrecognized category",
			doc: `
categorization:
  rules:
    - keyword: hello
      category: unrecognized
`,
		},
		{
			name: "empty keyword",
			doc: `
categorization:
  rules:
    - keyword: ""
      category: payment
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadRules(yamlViper(t, tt.doc))
			require.Error(t, err)
			assert.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.ErrorIs(t, err, classification.ErrInvalidRule)
		})
	}
}
