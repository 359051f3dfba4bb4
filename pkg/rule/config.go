// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

// RuleConfig is the YAML configuration of one rule.
type RuleConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"` // e.g. "game_winner"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Priority   int                    `yaml:"priority" json:"priority"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// GetInt reads an integer parameter. YAML and JSON decoders disagree on number
// types, so whole floats are accepted too.
func (c *RuleConfig) GetInt(key string, defaultValue int) int {
	switch v := c.Parameters[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		if v == float64(int(v)) {
			return int(v)
		}
	}
	return defaultValue
}

// GetFloat reads a numeric parameter.
func (c *RuleConfig) GetFloat(key string, defaultValue float64) float64 {
	switch v := c.Parameters[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case int64:
		return float64(v)
	}
	return defaultValue
}

func (c *RuleConfig) GetString(key string, defaultValue string) string {
	if v, ok := c.Parameters[key].(string); ok {
		return v
	}
	return defaultValue
}

func (c *RuleConfig) GetBool(key string, defaultValue bool) bool {
	if v, ok := c.Parameters[key].(bool); ok {
		return v
	}
	return defaultValue
}
