// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import (
	"context"

	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// Action rewards a player in response to a rule trigger.
// Actions are registered in a Registry and executed by the Executor.
type Action interface {
	// ID returns the configured action identifier.
	ID() string

	// Name returns a human-readable action name.
	Name() string

	// Execute performs the action for trigger.UserID.
	// playerCtx may be nil when the trigger came from outside a game.
	Execute(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Rollback undoes a successful Execute, or returns ErrRollbackNotSupported.
	// It is called when a later action of the same trigger fails.
	Rollback(ctx context.Context, trigger *rule.Trigger, playerCtx *signal.PlayerContext) error

	// Config returns the action's configuration.
	Config() ActionConfig
}

// ActionResult is the outcome of one action execution.
type ActionResult struct {
	ActionID string
	Success  bool
	Attempts int
	Error    error
	Metadata map[string]interface{}
}

// NewActionResult creates a successful result.
func NewActionResult(actionID string) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Success:  true,
		Attempts: 1,
		Metadata: make(map[string]interface{}),
	}
}

// NewActionError creates a failed result.
func NewActionError(actionID string, err error) *ActionResult {
	return &ActionResult{
		ActionID: actionID,
		Success:  false,
		Attempts: 1,
		Error:    err,
		Metadata: make(map[string]interface{}),
	}
}

// WithMetadata adds metadata to the result and returns it for chaining.
func (r *ActionResult) WithMetadata(key string, value interface{}) *ActionResult {
	r.Metadata[key] = value
	return r
}
