// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"context"
	"sort"

	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Engine evaluates signals against the registered rules.
type Engine struct {
	registry *Registry
}

func NewEngine(registry *Registry) *Engine {
	return &Engine{
		registry: registry,
	}
}

// Evaluate returns the triggers of every rule that matched sig, highest priority
// first. A failing rule is logged and skipped.
func (e *Engine) Evaluate(ctx context.Context, sig signal.Signal) ([]*Trigger, error) {
	if sig == nil {
		return nil, nil
	}

	rules := e.registry.GetBySignalType(sig.Type())
	if len(rules) == 0 {
		logrus.Debugf("no rules for signal type '%s'", sig.Type())
		return nil, nil
	}

	var triggers []*Trigger
	for _, rule := range rules {
		if err := ctx.Err(); err != nil {
			return triggers, err
		}

		matched, trigger, err := rule.Evaluate(ctx, sig)
		if err != nil {
			logrus.Errorf("rule %s evaluation failed: %v", rule.ID(), err)
			continue
		}
		if matched && trigger != nil {
			logrus.Infof("rule %s triggered for user %s: %s", rule.ID(), trigger.UserID, trigger.Reason)
			triggers = append(triggers, trigger)
		}
	}

	// rules arrive ordered by id, so equal priorities stay deterministic
	sort.SliceStable(triggers, func(i, j int) bool {
		return triggers[i].Priority > triggers[j].Priority
	})
	return triggers, nil
}

// GetRegistry returns the registry the engine reads from.
func (e *Engine) GetRegistry() *Registry {
	return e.registry
}
