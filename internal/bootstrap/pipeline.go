// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/sirupsen/logrus"
)

// Engines groups the pieces InitPipeline stitches together.
type Engines struct {
	Processor *signal.Processor
	Rules     *rule.Engine
	RuleSet   *rule.Registry
	Actions   *action.Executor
	ActionSet *action.Registry
}

// InitPipeline checks that every enabled entry in config/pipeline.yaml was
// built, then returns the manager the game services emit their events into.
//
// ============================================================
// DEVELOPER: Rewarding game outcomes
// ============================================================
// A tag_hit, player_eliminated or game_completed event becomes a
// signal, rules such as game_winner decide whether it earns
// anything, and the mapped actions grant items, bump stats or
// credit the player's arsenal. Add a mapping in the YAML:
//
// rules:
//   - id: winner
//     type: game_winner
//     actions: [grant_winner_reward, record_win_stat]
// ============================================================
func InitPipeline(e Engines, pipelineConfig *pipeline.Config, logger *slog.Logger) (*pipeline.Manager, error) {
	if err := pipeline.ValidateWiring(e.RuleSet, e.ActionSet, pipelineConfig); err != nil {
		return nil, fmt.Errorf("pipeline wiring: %w", err)
	}

	mappings := pipelineConfig.RuleActions()
	for _, r := range e.RuleSet.GetAll() {
		if r.Config().Enabled && len(mappings[r.ID()]) == 0 {
			logrus.Warnf("rule %s is enabled but maps to no enabled action", r.ID())
		}
	}
	logrus.Infof("pipeline ready: %d rules, %d rule-to-action mappings", e.RuleSet.Count(), len(mappings))

	return pipeline.NewManager(e.Processor, e.Rules, e.Actions, mappings, logger), nil
}
