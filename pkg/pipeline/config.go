// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pipeline

import (
	"fmt"
	"os"
	"strings"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	errlist "github.com/pixil98/go-errors"
	"gopkg.in/yaml.v3"
)

// Config is the reward pipeline configuration.
type Config struct {
	Rules   []RuleConfig   `yaml:"rules"`
	Actions []ActionConfig `yaml:"actions"`
}

// RuleConfig is one rule entry and the actions it runs when it matches.
type RuleConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Priority   int                    `yaml:"priority,omitempty"`
	Actions    []string               `yaml:"actions,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// ActionConfig is one action entry.
type ActionConfig struct {
	ID         string                 `yaml:"id"`
	Name       string                 `yaml:"name,omitempty"`
	Type       string                 `yaml:"type"`
	Enabled    bool                   `yaml:"enabled"`
	Async      bool                   `yaml:"async,omitempty"`
	Retry      *action.RetryConfig    `yaml:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters,omitempty"`
}

// LoadConfig reads a pipeline configuration from a YAML file. ${VAR} and
// ${VAR:default} references are expanded from the environment first.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	return ParseConfig(data)
}

// ParseConfig parses and validates a pipeline configuration document.
func ParseConfig(data []byte) (*Config, error) {
	var config Config
	if err := yaml.Unmarshal([]byte(expandEnvVars(string(data))), &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML config: %w", err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &config, nil
}

// Validate reports every missing id or type, duplicate id, and reference to an
// unknown action.
func (c *Config) Validate() error {
	el := errlist.NewErrorList()

	actionIDs := make(map[string]bool)
	for i, ac := range c.Actions {
		switch {
		case ac.ID == "":
			el.Add(fmt.Errorf("action #%d has an empty ID", i))
		case actionIDs[ac.ID]:
			el.Add(fmt.Errorf("duplicate action ID: %s", ac.ID))
		}
		actionIDs[ac.ID] = true
		if ac.Type == "" {
			el.Add(fmt.Errorf("action %s has empty type", ac.ID))
		}
	}

	ruleIDs := make(map[string]bool)
	for i, rc := range c.Rules {
		switch {
		case rc.ID == "":
			el.Add(fmt.Errorf("rule #%d has an empty ID", i))
		case ruleIDs[rc.ID]:
			el.Add(fmt.Errorf("duplicate rule ID: %s", rc.ID))
		}
		ruleIDs[rc.ID] = true
		if rc.Type == "" {
			el.Add(fmt.Errorf("rule %s has empty type", rc.ID))
		}
		for _, actionID := range rc.Actions {
			if !actionIDs[actionID] {
				el.Add(fmt.Errorf("rule %s references unknown action: %s", rc.ID, actionID))
			}
		}
	}

	return el.Err()
}

// RuleActions maps each rule id to the enabled action ids it runs.
func (c *Config) RuleActions() map[string][]string {
	enabled := make(map[string]bool, len(c.Actions))
	for _, ac := range c.Actions {
		enabled[ac.ID] = ac.Enabled
	}

	out := make(map[string][]string)
	for _, rc := range c.Rules {
		var ids []string
		for _, id := range rc.Actions {
			if enabled[id] {
				ids = append(ids, id)
			}
		}
		if len(ids) > 0 {
			out[rc.ID] = ids
		}
	}
	return out
}

// RuleConfigs converts the rule entries for the rule factory.
func (c *Config) RuleConfigs() []rule.RuleConfig {
	out := make([]rule.RuleConfig, len(c.Rules))
	for i, rc := range c.Rules {
		out[i] = rule.RuleConfig{
			ID:         rc.ID,
			Name:       rc.Name,
			Type:       rc.Type,
			Enabled:    rc.Enabled,
			Priority:   rc.Priority,
			Parameters: rc.Parameters,
		}
	}
	return out
}

// ActionConfigs converts the action entries for the action factory.
func (c *Config) ActionConfigs() []action.ActionConfig {
	out := make([]action.ActionConfig, len(c.Actions))
	for i, ac := range c.Actions {
		out[i] = action.ActionConfig{
			ID:         ac.ID,
			Name:       ac.Name,
			Type:       ac.Type,
			Enabled:    ac.Enabled,
			Async:      ac.Async,
			Retry:      ac.Retry,
			Parameters: ac.Parameters,
		}
	}
	return out
}

// expandEnvVars expands ${VAR} and ${VAR:default}.
func expandEnvVars(s string) string {
	return os.Expand(s, func(key string) string {
		name, defaultValue, _ := strings.Cut(key, ":")
		if value := os.Getenv(name); value != "" {
			return value
		}
		return defaultValue
	})
}
