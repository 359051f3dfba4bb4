// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
)

// RegisterBuiltinRules registers all built-in rule types with the factory.
func RegisterBuiltinRules(f *rule.Factory) {
	f.RegisterRuleType(GameWinnerRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewGameWinnerRule(config), nil
	})

	f.RegisterRuleType(EliminationRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewEliminationRule(config), nil
	})

	f.RegisterRuleType(ComebackRuleID, func(config rule.RuleConfig) (rule.Rule, error) {
		return NewComebackRule(config), nil
	})
}
