// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// UpdateStatActionID is the action type that increments a player statistic
	UpdateStatActionID = "update_stat"
)

// StatUpdater increments a player statistic.
type StatUpdater interface {
	IncrementStat(ctx context.Context, userID, statCode string, inc float64) error
}

// UpdateStatAction increments a statistic such as wins or eliminations.
type UpdateStatAction struct {
	config    action.ActionConfig
	updater   StatUpdater
	statCode  string
	increment float64
}

func NewUpdateStatAction(config action.ActionConfig, updater StatUpdater) (*UpdateStatAction, error) {
	statCode := config.GetParameterString("stat_code", "")
	if statCode == "" {
		return nil, fmt.Errorf("%w: stat_code is required", action.ErrInvalidConfig)
	}
	increment := config.GetParameterFloat("increment", 1)
	if increment == 0 {
		return nil, fmt.Errorf("%w: increment must not be zero", action.ErrInvalidConfig)
	}

	return &UpdateStatAction{
		config:    config,
		updater:   updater,
		statCode:  statCode,
		increment: increment,
	}, nil
}

func (a *UpdateStatAction) ID() string                  { return a.config.ID }
func (a *UpdateStatAction) Name() string                { return "Update Statistic" }
func (a *UpdateStatAction) Config() action.ActionConfig { return a.config }

func (a *UpdateStatAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.updater == nil {
		logrus.Warnf("[DRY RUN] would add %v to stat %s of user %s", a.increment, a.statCode, trigger.UserID)
		return nil
	}
	if err := a.updater.IncrementStat(ctx, trigger.UserID, a.statCode, a.increment); err != nil {
		return fmt.Errorf("failed to update stat %s: %w", a.statCode, err)
	}
	logrus.Debugf("added %v to stat %s of user %s", a.increment, a.statCode, trigger.UserID)
	return nil
}

// Rollback applies the opposite increment.
func (a *UpdateStatAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.updater == nil {
		return nil
	}
	return a.updater.IncrementStat(ctx, trigger.UserID, a.statCode, -a.increment)
}
