// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"context"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// Rule decides whether a game signal earns a player a reward.
// Rules are registered in a Registry and evaluated by the Engine.
type Rule interface {
	// ID returns the configured rule identifier.
	ID() string

	// Name returns a human-readable rule name.
	Name() string

	// SignalTypes lists the signal types the rule evaluates.
	// An empty slice means every type.
	SignalTypes() []string

	// Evaluate reports whether the signal matches and, if so, the trigger to act on.
	// A mismatch is not an error.
	Evaluate(ctx context.Context, sig signal.Signal) (bool, *Trigger, error)

	// Config returns the rule's configuration.
	Config() RuleConfig
}

// Trigger is a rule match that actions execute against.
type Trigger struct {
	RuleID    string                 // rule that matched
	UserID    string                 // player the actions apply to
	GameID    string                 // game the signal came from, if any
	Timestamp time.Time              // when the matching event happened
	Reason    string                 // human-readable reason
	Metadata  map[string]interface{} // rule-specific data for actions
	Priority  int                    // higher runs first
}

// NewTrigger creates a trigger stamped with the current time.
func NewTrigger(ruleID, userID, reason string, priority int) *Trigger {
	return &Trigger{
		RuleID:    ruleID,
		UserID:    userID,
		Timestamp: time.Now(),
		Reason:    reason,
		Metadata:  make(map[string]interface{}),
		Priority:  priority,
	}
}

// ForSignal copies the game id and event time of sig onto the trigger.
func (t *Trigger) ForSignal(sig signal.Signal) *Trigger {
	if !sig.Timestamp().IsZero() {
		t.Timestamp = sig.Timestamp()
	}
	if pc := sig.Context(); pc != nil {
		t.GameID = pc.GameID
	}
	if t.GameID == "" {
		if id, ok := sig.Metadata()["game_id"].(string); ok {
			t.GameID = id
		}
	}
	if t.GameID != "" {
		t.Metadata["game_id"] = t.GameID
	}
	return t
}

// WithMetadata adds a metadata entry and returns the trigger for chaining.
func (t *Trigger) WithMetadata(key string, value interface{}) *Trigger {
	t.Metadata[key] = value
	return t
}
