// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"github.com/AccelByte/extend-tag-engine/pkg/action"
)

// Dependencies holds the services built-in actions call. A nil ItemGranter or
// StatUpdater puts the matching actions in dry-run mode.
type Dependencies struct {
	ItemGranter ItemGranter
	StatUpdater StatUpdater
	Arsenal     ArsenalCreditor
	Namespace   string
}

// RegisterBuiltinActions registers the built-in action types with f.
func RegisterBuiltinActions(f *action.Factory, deps *Dependencies) {
	if deps == nil {
		deps = &Dependencies{}
	}

	f.RegisterActionType(GrantItemActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewGrantItemAction(config, deps.ItemGranter, deps.Namespace)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	f.RegisterActionType(UpdateStatActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewUpdateStatAction(config, deps.StatUpdater)
		if err != nil {
			return nil, err
		}
		return a, nil
	})

	f.RegisterActionType(CreditArsenalActionID, func(config action.ActionConfig) (action.Action, error) {
		a, err := NewCreditArsenalAction(config, deps.Arsenal)
		if err != nil {
			return nil, err
		}
		return a, nil
	})
}
