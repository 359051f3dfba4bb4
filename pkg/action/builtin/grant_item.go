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
	// GrantItemActionID is the action type that grants a store item
	GrantItemActionID = "grant_item"
)

// ItemGranter fulfills store items for a player.
type ItemGranter interface {
	GrantItem(ctx context.Context, namespace, userID, itemID string, quantity int32) error
}

// GrantItemAction grants a platform item to the triggering player, for example
// a cosmetic for winning a game.
type GrantItemAction struct {
	config    action.ActionConfig
	granter   ItemGranter
	namespace string
	itemID    string
	quantity  int32
}

func NewGrantItemAction(config action.ActionConfig, granter ItemGranter, namespace string) (*GrantItemAction, error) {
	itemID := config.GetParameterString("item_id", "")
	if itemID == "" {
		return nil, fmt.Errorf("%w: item_id is required", action.ErrInvalidConfig)
	}
	quantity := config.GetParameterInt("quantity", 1)
	if quantity <= 0 {
		return nil, fmt.Errorf("%w: quantity must be positive", action.ErrInvalidConfig)
	}

	logrus.Infof("creating grant item action: itemID=%s, quantity=%d", itemID, quantity)
	return &GrantItemAction{
		config:    config,
		granter:   granter,
		namespace: namespace,
		itemID:    itemID,
		quantity:  int32(quantity),
	}, nil
}

func (a *GrantItemAction) ID() string                  { return a.config.ID }
func (a *GrantItemAction) Name() string                { return "Grant Item" }
func (a *GrantItemAction) Config() action.ActionConfig { return a.config }

// Execute grants the configured item. Without a granter the grant is only logged,
// which keeps local runs free of platform credentials.
func (a *GrantItemAction) Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	if a.granter == nil {
		logrus.Warnf("[DRY RUN] would grant item %s (quantity: %d) to user %s", a.itemID, a.quantity, trigger.UserID)
		return nil
	}

	if err := a.granter.GrantItem(ctx, a.namespace, trigger.UserID, a.itemID, a.quantity); err != nil {
		return fmt.Errorf("failed to grant item %s: %w", a.itemID, err)
	}

	logrus.Infof("granted item %s (quantity: %d) to user %s", a.itemID, a.quantity, trigger.UserID)
	return nil
}

// Rollback is not supported, fulfilled items cannot be revoked here.
func (a *GrantItemAction) Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error {
	return action.ErrRollbackNotSupported
}
