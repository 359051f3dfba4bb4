// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	actionBuiltin "github.com/AccelByte/extend-tag-engine/pkg/action/builtin"
	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/sirupsen/logrus"
)

// InitActionExecutor creates an action executor with the actions from the
// pipeline config.
//
// ============================================================
// DEVELOPER: Register custom action types here.
// ============================================================
// Actions hand out rewards when rules trigger.
//
// Steps to add a new action:
// 1. Create your action in pkg/action/builtin/
// 2. Implement the Action interface
// 3. Register the action type in pkg/action/builtin/init.go
// 4. Add the action to config/pipeline.yaml
// 5. List it under a rule's actions in config/pipeline.yaml
//
// The builtin actions:
// - grant_item     → fulfills a platform item
// - update_stat    → increments a player statistic
// - credit_arsenal → adds tags, radars or tripwires in game
//
// IMPORTANT: actions call external services. Pass them through
// the Dependencies struct; a nil granter or stat updater makes
// the matching actions log instead of calling the platform.
// ============================================================
func InitActionExecutor(
	pipelineConfig *pipeline.Config,
	deps *actionBuiltin.Dependencies,
) (*action.Executor, *action.Registry, error) {
	factory := action.NewFactory()
	actionBuiltin.RegisterBuiltinActions(factory, deps)

	registry := action.NewRegistry()
	if err := factory.RegisterActions(registry, pipelineConfig.ActionConfigs()); err != nil {
		return nil, nil, fmt.Errorf("failed to register actions: %w", err)
	}

	logrus.Infof("initialized action executor with %d actions", registry.Count())
	return action.NewExecutor(registry), registry, nil
}
