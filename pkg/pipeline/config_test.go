// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pipeline

import (
	"errors"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadConfig_ShippedPipeline(t *testing.T) {
	config, err := LoadConfig(filepath.Join("..", "..", "config", "pipeline.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if len(config.Rules) != 3 {
		t.Errorf("expected 3 rules, got %d", len(config.Rules))
	}
	if config.Rules[0].ID != "game_winner" || config.Rules[0].Priority != 100 {
		t.Errorf("unexpected first rule %+v", config.Rules[0])
	}
	if v, ok := config.Rules[0].Parameters["min_players"].(int); !ok || v != 2 {
		t.Errorf("expected min_players default 2, got %v", config.Rules[0].Parameters["min_players"])
	}

	var winStat *ActionConfig
	for i := range config.Actions {
		if config.Actions[i].ID == "record_win_stat" {
			winStat = &config.Actions[i]
		}
	}
	if winStat == nil || !winStat.Async || winStat.Retry == nil {
		t.Fatalf("expected async record_win_stat with retry, got %+v", winStat)
	}
	if winStat.Retry.MaxAttempts != 3 || winStat.Retry.Delay != 500*time.Millisecond {
		t.Errorf("unexpected retry %+v", winStat.Retry)
	}

	actions := config.RuleActions()
	if got := actions["game_winner"]; len(got) != 1 || got[0] != "record_win_stat" {
		t.Errorf("expected the disabled item grant to be skipped, got %v", got)
	}
	if got := actions["elimination"]; len(got) != 2 {
		t.Errorf("expected two elimination actions, got %v", got)
	}
}

func TestParseConfig_EnvVarExpansion(t *testing.T) {
	t.Setenv("TEST_MIN_PLAYERS", "4")

	config, err := ParseConfig([]byte(`
rules:
  - id: winner
    type: game_winner
    enabled: true
    parameters:
      min_players: ${TEST_MIN_PLAYERS}
      fallback: ${TEST_UNSET_VALUE:7}
actions: []
`))
	if err != nil {
		t.Fatalf("ParseConfig failed: %v", err)
	}

	params := config.Rules[0].Parameters
	if v, ok := params["min_players"].(int); !ok || v != 4 {
		t.Errorf("expected min_players 4, got %v (%T)", params["min_players"], params["min_players"])
	}
	if v, ok := params["fallback"].(int); !ok || v != 7 {
		t.Errorf("expected fallback 7, got %v", params["fallback"])
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr []string
	}{
		{
			name: "valid",
			config: Config{
				Rules:   []RuleConfig{{ID: "r", Type: "game_winner", Actions: []string{"a"}}},
				Actions: []ActionConfig{{ID: "a", Type: "update_stat"}},
			},
		},
		{
			name: "duplicate ids",
			config: Config{
				Rules:   []RuleConfig{{ID: "r", Type: "t"}, {ID: "r", Type: "t"}},
				Actions: []ActionConfig{{ID: "a", Type: "t"}, {ID: "a", Type: "t"}},
			},
			wantErr: []string{"duplicate rule ID: r", "duplicate action ID: a"},
		},
		{
			name: "missing fields and unknown reference",
			config: Config{
				Rules:   []RuleConfig{{ID: "", Type: "t"}, {ID: "r", Actions: []string{"ghost"}}},
				Actions: []ActionConfig{{ID: "a"}},
			},
			wantErr: []string{"rule #0 has an empty ID", "rule r has empty type", "unknown action: ghost", "action a has empty type"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if len(tt.wantErr) == 0 {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, want := range tt.wantErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected error to mention %q, got %v", want, err)
				}
			}
		})
	}
}

func TestConfig_Conversions(t *testing.T) {
	config := Config{
		Rules:   []RuleConfig{{ID: "r", Name: "Rule", Type: "elimination", Enabled: true, Priority: 5, Parameters: map[string]interface{}{"x": 1}}},
		Actions: []ActionConfig{{ID: "a", Type: "credit_arsenal", Enabled: true, Async: true}},
	}

	rules := config.RuleConfigs()
	if len(rules) != 1 || rules[0].Priority != 5 || rules[0].Name != "Rule" || rules[0].Parameters["x"] != 1 {
		t.Errorf("unexpected rule configs %+v", rules)
	}
	actions := config.ActionConfigs()
	if len(actions) != 1 || !actions[0].Async || actions[0].Type != "credit_arsenal" {
		t.Errorf("unexpected action configs %+v", actions)
	}
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected a not-exist error, got %v", err)
	}
}
