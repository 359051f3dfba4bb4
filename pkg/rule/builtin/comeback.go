// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-tag-engine/pkg/signal/builtin"
)

const (
	// ComebackRuleID welcomes back a player who survived a long absence.
	ComebackRuleID = "comeback"

	DefaultComebackMinOfflineHours = 48
)

type ComebackRule struct {
	config     rule.RuleConfig
	minOffline time.Duration
}

func NewComebackRule(config rule.RuleConfig) *ComebackRule {
	hours := config.GetFloat("min_offline_hours", DefaultComebackMinOfflineHours)
	return &ComebackRule{
		config:     config,
		minOffline: time.Duration(hours * float64(time.Hour)),
	}
}

func (r *ComebackRule) ID() string              { return r.config.ID }
func (r *ComebackRule) Name() string            { return "Comeback" }
func (r *ComebackRule) SignalTypes() []string   { return []string{signal.TypePlayerReturned} }
func (r *ComebackRule) Config() rule.RuleConfig { return r.config }

// Evaluate matches a return after at least min_offline_hours when the player is
// still in the running.
func (r *ComebackRule) Evaluate(ctx context.Context, sig signal.Signal) (bool, *rule.Trigger, error) {
	ret, ok := sig.(*signalBuiltin.ReturnSignal)
	if !ok {
		return false, nil, fmt.Errorf("expected ReturnSignal, got %T", sig)
	}
	if ret.OfflineFor < r.minOffline {
		return false, nil, nil
	}
	if pc := ret.Context(); pc == nil || pc.State == nil || !pc.State.IsActive {
		return false, nil, nil
	}

	trigger := rule.NewTrigger(r.ID(), ret.UserID(), "Returned after a long absence", r.config.Priority).
		ForSignal(sig).
		WithMetadata("offline_hours", ret.OfflineFor.Hours())
	return true, trigger, nil
}
