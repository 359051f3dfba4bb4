// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-tag-engine/pkg/signal/builtin"
	"github.com/sirupsen/logrus"
)

const (
	// GameWinnerRuleID rewards the last player standing.
	GameWinnerRuleID = "game_winner"

	// DefaultWinnerMinPlayers is the smallest game whose win is rewarded.
	DefaultWinnerMinPlayers = 2
)

// GameWinnerRule fires for the winner of a completed game that had at least
// min_players participants.
type GameWinnerRule struct {
	config     rule.RuleConfig
	minPlayers int
}

func NewGameWinnerRule(config rule.RuleConfig) *GameWinnerRule {
	minPlayers := config.GetInt("min_players", DefaultWinnerMinPlayers)
	logrus.Infof("creating game winner rule with min_players=%d", minPlayers)

	return &GameWinnerRule{
		config:     config,
		minPlayers: minPlayers,
	}
}

func (r *GameWinnerRule) ID() string {
	return r.config.ID
}

func (r *GameWinnerRule) Name() string {
	return "Game Winner"
}

func (r *GameWinnerRule) SignalTypes() []string {
	return []string{signal.TypeGameCompleted}
}

func (r *GameWinnerRule) Config() rule.RuleConfig {
	return r.config
}

func (r *GameWinnerRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	completed, ok := sig.(*signalBuiltin.GameCompletedSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected GameCompletedSignal, got %T", sig)
	}
	if completed.UserID() == "" || completed.PlayerCount < r.minPlayers {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), completed.UserID(), "Won a game", r.config.Priority).
		ForSignal(sig).
		WithMetadata("player_count", completed.PlayerCount)
	return true, trigger, nil
}
