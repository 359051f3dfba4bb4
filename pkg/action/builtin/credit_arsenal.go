// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

const (
	// CreditArsenalActionID is the action type that adds items to a player's arsenal
	CreditArsenalActionID = "credit_arsenal"

	ScopeGame = "game"
	ScopeAll  = "all"
)

// ArsenalCreditor adds units of an item to a player's arsenal in the listed games,
// or in every game the player is in when none are listed.
type ArsenalCreditor interface {
	Credit(ctx context.Context, playerID string, kind game.ItemKind, quantity int, gameIDs []string) ([]string, error)
}

// CreditArsenalAction rewards the triggering player with extra items. Scope "game"
// credits the game the trigger came from, scope "all" every unfinished game.
type CreditArsenalAction struct {
	config   action.ActionConfig
	arsenal  ArsenalCreditor
	item     game.ItemKind
	quantity int
	scope    string
}

func NewCreditArsenalAction(config action.ActionConfig, arsenal ArsenalCreditor) (*CreditArsenalAction, error) {
	item := game.ItemKind(config.GetParameterString("item", ""))
	if !item.Valid() {
		return nil, fmt.Errorf("%w: unknown item %q", action.ErrInvalidConfig, item)
	}
	quantity := config.GetParameterInt("quantity", 1)
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", action.ErrInvalidConfig)
	}
	scope := config.GetParameterString("scope", ScopeGame)
	if scope != ScopeGame && scope != ScopeAll {
		return nil, fmt.Errorf("%w: scope must be %q or %q", action.ErrInvalidConfig, ScopeGame, ScopeAll)
	}

	return &CreditArsenalAction{
		config:   config,
		arsenal:  arsenal,
		item:     item,
		quantity: quantity,
		scope:    scope,
	}, nil
}

func (a *CreditArsenalAction) ID() string                  { return a.config.ID }
func (a *CreditArsenalAction) Name() string                { return "Credit Arsenal" }
func (a *CreditArsenalAction) Config() action.ActionConfig { return a.config }

func (a *CreditArsenalAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.arsenal == nil {
		return action.ErrMissingDependency
	}

	var gameIDs []string
	if a.scope == ScopeGame {
		if trigger.GameID == "" {
			return fmt.Errorf("%w: trigger %s has no game for scope %q", action.ErrInvalidConfig, trigger.RuleID, ScopeGame)
		}
		gameIDs = []string{trigger.GameID}
	}

	credited, err := a.arsenal.Credit(ctx, trigger.UserID, a.item, a.quantity, gameIDs)
	if err != nil {
		return fmt.Errorf("failed to credit %s: %w", a.item, err)
	}
	logrus.Infof("credited %d %s to user %s in %d games", a.quantity, a.item, trigger.UserID, len(credited))
	return nil
}

// Rollback is not supported, credited items may already be spent.
func (a *CreditArsenalAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
