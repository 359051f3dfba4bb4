// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pipeline

import (
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	errlist "github.com/pixil98/go-errors"
)

// ValidateWiring reports every enabled rule or action in config that has no
// registered instance.
func ValidateWiring(rules *rule.Registry, actions *action.Registry, config *Config) error {
	el := errlist.NewErrorList()
	for _, ac := range config.Actions {
		if ac.Enabled && actions.Get(ac.ID) == nil {
			el.Add(fmt.Errorf("action '%s' (type=%s) is enabled but not registered", ac.ID, ac.Type))
		}
	}
	for _, rc := range config.Rules {
		if rc.Enabled && rules.Get(rc.ID) == nil {
			el.Add(fmt.Errorf("rule '%s' (type=%s) is enabled but not registered", rc.ID, rc.Type))
		}
	}
	return el.Err()
}
