// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	ruleBuiltin "github.com/AccelByte/extend-tag-engine/pkg/rule/builtin"
	"github.com/sirupsen/logrus"
)

// InitRuleEngine creates a rule engine with the rules from the pipeline config.
//
// ============================================================
// DEVELOPER: Register custom rule types here.
// ============================================================
// Rules decide which player earned a reward from a signal.
//
// Steps to add a new rule:
// 1. Create your rule in pkg/rule/builtin/
// 2. Implement the Rule interface
// 3. Register the rule type in pkg/rule/builtin/init.go
// 4. Add the rule to config/pipeline.yaml
//
// The builtin rules reward:
// - game_winner → the last player standing
// - elimination → the player who took the last strike
// - comeback    → a player back after a long absence
// ============================================================
func InitRuleEngine(pipelineConfig *pipeline.Config) (*rule.Engine, *rule.Registry, error) {
	factory := rule.NewFactory()
	ruleBuiltin.RegisterBuiltinRules(factory)

	// ============================================================
	// DEVELOPER: Register custom rule types below
	// ============================================================
	// factory.RegisterRuleType("my_custom_rule", func(cfg rule.RuleConfig) (rule.Rule, error) {
	//     return mycustom.NewMyRule(cfg), nil
	// })
	// ============================================================

	registry := rule.NewRegistry()
	if err := factory.RegisterRules(registry, pipelineConfig.RuleConfigs()); err != nil {
		return nil, nil, fmt.Errorf("failed to register rules: %w", err)
	}

	logrus.Infof("initialized rule engine with %d rules", registry.Count())
	return rule.NewEngine(registry), registry, nil
}
