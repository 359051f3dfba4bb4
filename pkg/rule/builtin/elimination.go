// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-tag-engine/pkg/signal/builtin"
)

// EliminationRuleID rewards the player who took an opponent's last strike.
const EliminationRuleID = "elimination"

// EliminationRule fires for the eliminating player. Inactivity eliminations have
// nobody to reward; tripwire eliminations count unless include_tripwire is false.
type EliminationRule struct {
	config          rule.RuleConfig
	includeTripwire bool
}

func NewEliminationRule(config rule.RuleConfig) *EliminationRule {
	return &EliminationRule{
		config:          config,
		includeTripwire: config.GetBool("include_tripwire", true),
	}
}

func (r *EliminationRule) ID() string              { return r.config.ID }
func (r *EliminationRule) Name() string            { return "Elimination Bounty" }
func (r *EliminationRule) SignalTypes() []string   { return []string{signal.TypePlayerEliminated} }
func (r *EliminationRule) Config() rule.RuleConfig { return r.config }

func (r *EliminationRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	el, ok := sig.(*signalBuiltin.EliminationSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected EliminationSignal, got %T", sig)
	}
	if el.EliminatedBy == "" || el.EliminatedBy == el.UserID() {
		return false, nil, nil
	}
	if el.Source == string(game.SourceTripwire) && !r.includeTripwire {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), el.EliminatedBy, "Eliminated an opponent", r.config.Priority).
		ForSignal(sig).
		WithMetadata("eliminated_player", el.UserID()).
		WithMetadata("source", el.Source)
	return true, trigger, nil
}
