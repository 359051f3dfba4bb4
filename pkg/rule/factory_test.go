// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"errors"
	"strings"
	"testing"
)

func newTestFactory() *Factory {
	f := NewFactory()
	f.RegisterRuleType("test", func(config RuleConfig) (Rule, error) {
		return newTestRule(config.ID, config.Priority, true), nil
	})
	f.RegisterRuleType("broken", func(config RuleConfig) (Rule, error) {
		return nil, errors.New("bad parameters")
	})
	return f
}

func TestFactory_CreateRule(t *testing.T) {
	f := newTestFactory()

	tests := []struct {
		name      string
		config    RuleConfig
		expectNil bool
		expectErr string
	}{
		{name: "known type", config: RuleConfig{ID: "r1", Type: "test", Enabled: true}},
		{name: "disabled", config: RuleConfig{ID: "r2", Type: "test"}, expectNil: true},
		{name: "unknown type", config: RuleConfig{ID: "r3", Type: "nope", Enabled: true}, expectNil: true, expectErr: "unknown rule type"},
		{name: "factory failure", config: RuleConfig{ID: "r4", Type: "broken", Enabled: true}, expectNil: true, expectErr: "bad parameters"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, err := f.CreateRule(tt.config)
			if tt.expectErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.expectErr) {
					t.Errorf("expected error containing %q, got %v", tt.expectErr, err)
				}
			} else if err != nil {
				t.Fatalf("CreateRule() error = %v", err)
			}
			if (r == nil) != tt.expectNil {
				t.Errorf("expected nil=%v, got %v", tt.expectNil, r)
			}
		})
	}
}

func TestFactory_RegisterRules(t *testing.T) {
	f := newTestFactory()
	registry := NewRegistry()

	err := f.RegisterRules(registry, []RuleConfig{
		{ID: "a", Type: "test", Enabled: true},
		{ID: "b", Type: "test", Enabled: false},
		{ID: "c", Type: "test", Enabled: true},
	})
	if err != nil {
		t.Fatalf("RegisterRules() error = %v", err)
	}
	if registry.Count() != 2 {
		t.Errorf("expected 2 rules, got %d", registry.Count())
	}

	err = f.RegisterRules(NewRegistry(), []RuleConfig{
		{ID: "a", Type: "test", Enabled: true},
		{ID: "x", Type: "missing", Enabled: true},
	})
	if err == nil {
		t.Error("expected error for an unknown rule type")
	}
}

func TestRuleConfig_Getters(t *testing.T) {
	c := RuleConfig{Parameters: map[string]interface{}{
		"int":   3,
		"whole": 4.0,
		"frac":  4.5,
		"str":   "radar",
		"flag":  true,
	}}

	if c.GetInt("int", 0) != 3 || c.GetInt("whole", 0) != 4 || c.GetInt("frac", 7) != 7 || c.GetInt("missing", 9) != 9 {
		t.Error("unexpected GetInt results")
	}
	if c.GetFloat("int", 0) != 3 || c.GetFloat("frac", 0) != 4.5 {
		t.Error("unexpected GetFloat results")
	}
	if c.GetString("str", "") != "radar" || c.GetString("int", "d") != "d" {
		t.Error("unexpected GetString results")
	}
	if !c.GetBool("flag", false) || !c.GetBool("missing", true) {
		t.Error("unexpected GetBool results")
	}
}
