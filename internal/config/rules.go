package config

import (
	"fmt"

	"github.com/spf13/viper"

	"github.com/Veraticus/momo-ledger/internal/classification"
	"github.com/Veraticus/momo-ledger/internal/common"
	"github.com/Veraticus/momo-ledger/internal/model"
)

// KeyExtraRules lists operator-added rules, evaluated after the defaults:
//
//	categorization:
//	  rules:
//	    - keyword: "airtime"
//	      category: internet_bundle
const KeyExtraRules = "categorization.rules"

type ruleEntry struct {
	Keyword  string `mapstructure:"keyword"`
	Category string `mapstructure:"category"`
}

// LoadRules returns the default rule list followed by any configured rules.
func LoadRules(v *viper.Viper) ([]classification.Rule, error) {
	rules := classification.DefaultRules()
	if !v.IsSet(KeyExtraRules) {
		return rules, nil
	}

	var entries []ruleEntry
	if err := v.UnmarshalKey(KeyExtraRules, &entries); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", common.ErrInvalidConfig, KeyExtraRules, err)
	}

	for i, e := range entries {
		rule := classification.Rule{Keyword: e.Keyword, Category: model.Category(e.Category)}
		if err := rule.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %s[%d]: %w", common.ErrInvalidConfig, KeyExtraRules, i, err)
		}
		rules = append(rules, rule)
	}
	return rules, nil
}
