// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// RuleFactory creates a rule from its configuration.
type RuleFactory func(config RuleConfig) (Rule, error)

// Factory maps rule types to constructors. Each engine owns its own factory so
// tests and services never share registrations.
type Factory struct {
	mu        sync.RWMutex
	factories map[string]RuleFactory
}

func NewFactory() *Factory {
	return &Factory{factories: make(map[string]RuleFactory)}
}

// RegisterRuleType registers the constructor for a rule type, replacing any
// earlier one.
func (f *Factory) RegisterRuleType(ruleType string, factory RuleFactory) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.factories[ruleType] = factory
	logrus.Debugf("registered rule type: %s", ruleType)
}

// Types returns the registered rule types in sorted order.
func (f *Factory) Types() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	types := make([]string, 0, len(f.factories))
	for t := range f.factories {
		types = append(types, t)
	}
	sort.Strings(types)
	return types
}

// CreateRule builds one rule. Disabled rules yield nil without error.
func (f *Factory) CreateRule(config RuleConfig) (Rule, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled rule: %s", config.ID)
		return nil, nil
	}

	f.mu.RLock()
	factory, exists := f.factories[config.Type]
	f.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown rule type: %s", config.Type)
	}

	logrus.Infof("creating rule: id=%s, type=%s, priority=%d", config.ID, config.Type, config.Priority)
	return factory(config)
}

// RegisterRules creates every configured rule and adds it to registry. Creation
// failures are reported together after all configs were tried.
func (f *Factory) RegisterRules(registry *Registry, configs []RuleConfig) error {
	var failed []error
	created := 0
	for _, config := range configs {
		rule, err := f.CreateRule(config)
		if err != nil {
			failed = append(failed, fmt.Errorf("rule %s: %w", config.ID, err))
			continue
		}
		if rule == nil {
			continue
		}
		if err := registry.Register(rule); err != nil {
			return err
		}
		created++
	}

	if len(failed) > 0 {
		for _, err := range failed {
			logrus.Warnf("rule creation error: %v", err)
		}
		return fmt.Errorf("failed to create %d rules: %w", len(failed), failed[0])
	}

	logrus.Infof("registered %d rules", created)
	return nil
}
