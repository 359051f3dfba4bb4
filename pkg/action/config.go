// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import "time"

// ActionConfig is the YAML configuration of one action.
type ActionConfig struct {
	ID         string                 `yaml:"id" json:"id"`
	Name       string                 `yaml:"name" json:"name"`
	Type       string                 `yaml:"type" json:"type"` // e.g. "grant_item"
	Enabled    bool                   `yaml:"enabled" json:"enabled"`
	Async      bool                   `yaml:"async" json:"async"`
	Retry      *RetryConfig           `yaml:"retry,omitempty" json:"retry,omitempty"`
	Parameters map[string]interface{} `yaml:"parameters" json:"parameters"`
}

// RetryConfig defines how a failing action is retried.
type RetryConfig struct {
	MaxAttempts int           `yaml:"max_attempts" json:"max_attempts"`
	Delay       time.Duration `yaml:"delay" json:"delay"`
	Backoff     string        `yaml:"backoff" json:"backoff"` // "constant" or "exponential"
}

// GetParameterInt reads an integer parameter. Whole floats from JSON are accepted.
func (c *ActionConfig) GetParameterInt(key string, defaultValue int) int {
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

// GetParameterFloat reads a numeric parameter.
func (c *ActionConfig) GetParameterFloat(key string, defaultValue float64) float64 {
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

func (c *ActionConfig) GetParameterString(key string, defaultValue string) string {
	if v, ok := c.Parameters[key].(string); ok {
		return v
	}
	return defaultValue
}

func (c *ActionConfig) GetParameterBool(key string, defaultValue bool) bool {
	if v, ok := c.Parameters[key].(bool); ok {
		return v
	}
	return defaultValue
}

// GetParameterStringSlice reads a list of strings. Non-string entries of a
// decoded []interface{} are skipped.
func (c *ActionConfig) GetParameterStringSlice(key string, defaultValue []string) []string {
	switch v := c.Parameters[key].(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return defaultValue
}
