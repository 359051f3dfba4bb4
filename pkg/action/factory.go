// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import (
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ActionFactory creates an action from its configuration.
type ActionFactory func(config ActionConfig) (Action, error)

// Factory maps action types to constructors. Constructors close over the
// services they need, so each executor owns its own factory.
type Factory struct {
	mu        sync.RWMutex
	factories map[string]ActionFactory
}

func NewFactory() *Factory {
	return &Factory{factories: make(map[string]ActionFactory)}
}

// RegisterActionType registers the constructor for an action type, replacing
// any earlier one.
func (f *Factory) RegisterActionType(actionType string, factory ActionFactory) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.factories[actionType] = factory
	logrus.Debugf("registered action type: %s", actionType)
}

// Types returns the registered action types in sorted order.
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

// CreateAction builds one action. Disabled actions yield nil without error.
func (f *Factory) CreateAction(config ActionConfig) (Action, error) {
	if !config.Enabled {
		logrus.Infof("skipping disabled action: %s", config.ID)
		return nil, nil
	}

	f.mu.RLock()
	factory, exists := f.factories[config.Type]
	f.mu.RUnlock()
	if !exists {
		return nil, fmt.Errorf("unknown action type: %s", config.Type)
	}

	logrus.Infof("creating action: id=%s, type=%s", config.ID, config.Type)
	return factory(config)
}

// RegisterActions creates every configured action and adds it to registry.
// Creation failures are reported together after all configs were tried.
func (f *Factory) RegisterActions(registry *Registry, configs []ActionConfig) error {
	var failed []error
	created := 0
	for _, config := range configs {
		act, err := f.CreateAction(config)
		if err != nil {
			failed = append(failed, fmt.Errorf("action %s: %w", config.ID, err))
			continue
		}
		if act == nil {
			continue
		}
		if err := registry.Register(act); err != nil {
			return err
		}
		created++
	}

	if len(failed) > 0 {
		for _, err := range failed {
			logrus.Warnf("action creation error: %v", err)
		}
		return fmt.Errorf("failed to create %d actions: %w", len(failed), failed[0])
	}

	logrus.Infof("registered %d actions", created)
	return nil
}
