// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import (
	"context"
	"errors"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/cenkalti/backoff/v4"
	"github.com/sirupsen/logrus"
)

// Executor executes actions in response to rule triggers.
type Executor struct {
	registry *Registry
}

func NewExecutor(registry *Registry) *Executor {
	return &Executor{registry: registry}
}

// Execute runs one action, retrying it as its RetryConfig allows.
func (e *Executor) Execute(ctx context.Context, actionID string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	act := e.registry.Get(actionID)
	if act == nil {
		return nil, fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	return e.run(ctx, act, trigger, playerCtx)
}

// ExecuteMultiple executes actions in order and stops at the first failure. With
// rollbackOnError, the actions that already succeeded are rolled back in reverse.
func (e *Executor) ExecuteMultiple(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext, rollbackOnError bool) ([]*ActionResult, error) {
	var results []*ActionResult
	var executed []Action

	for _, actionID := range actionIDs {
		act := e.registry.Get(actionID)
		if act == nil {
			err := fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
			logrus.Errorf("%v", err)
			if rollbackOnError {
				e.rollbackActions(ctx, executed, trigger, playerCtx)
			}
			return results, err
		}

		result, err := e.run(ctx, act, trigger, playerCtx)
		results = append(results, result)
		if err != nil {
			if rollbackOnError {
				e.rollbackActions(ctx, executed, trigger, playerCtx)
			}
			return results, err
		}
		executed = append(executed, act)
	}

	return results, nil
}

func (e *Executor) run(ctx context.Context, act Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) (*ActionResult, error) {
	logrus.Infof("executing action %s for trigger %s (user: %s, game: %s)", act.ID(), trigger.RuleID, trigger.UserID, trigger.GameID)

	attempts := 0
	err := backoff.Retry(func() error {
		attempts++
		err := act.Execute(ctx, trigger, playerCtx)
		if err != nil && (errors.Is(err, ErrInvalidConfig) || errors.Is(err, ErrMissingDependency)) {
			return backoff.Permanent(err)
		}
		if err != nil {
			logrus.Warnf("action %s attempt %d failed: %v", act.ID(), attempts, err)
		}
		return err
	}, retryPolicy(ctx, act.Config().Retry))

	if err != nil {
		if attempts > 1 {
			err = fmt.Errorf("%w after %d attempts: %w", ErrMaxRetriesExceeded, attempts, err)
		}
		metrics.ActionExecutionsTotal.WithLabelValues(act.ID(), "failed").Inc()
		logrus.Errorf("action %s failed: %v", act.ID(), err)
		result := NewActionError(act.ID(), err)
		result.Attempts = attempts
		return result, err
	}

	metrics.ActionExecutionsTotal.WithLabelValues(act.ID(), "success").Inc()
	logrus.Infof("action %s completed successfully", act.ID())
	result := NewActionResult(act.ID())
	result.Attempts = attempts
	return result, nil
}

// retryPolicy turns a RetryConfig into a backoff policy. No config means one attempt.
func retryPolicy(ctx context.Context, cfg *RetryConfig) backoff.BackOffContext {
	if cfg == nil || cfg.MaxAttempts <= 1 {
		return backoff.WithContext(&backoff.StopBackOff{}, ctx)
	}

	var b backoff.BackOff
	switch cfg.Backoff {
	case "exponential":
		eb := backoff.NewExponentialBackOff()
		eb.InitialInterval = cfg.Delay
		eb.MaxElapsedTime = 0
		b = eb
	default:
		b = backoff.NewConstantBackOff(cfg.Delay)
	}
	return backoff.WithContext(backoff.WithMaxRetries(b, uint64(cfg.MaxAttempts-1)), ctx)
}

// rollbackActions rolls back actions in reverse order.
func (e *Executor) rollbackActions(ctx context.Context, actions []Action, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	if len(actions) == 0 {
		return
	}
	logrus.Warnf("rolling back %d actions", len(actions))

	for i := len(actions) - 1; i >= 0; i-- {
		act := actions[i]
		err := act.Rollback(ctx, trigger, playerCtx)
		switch {
		case errors.Is(err, ErrRollbackNotSupported):
			logrus.Warnf("action %s does not support rollback", act.ID())
		case err != nil:
			logrus.Errorf("failed to roll back action %s: %v", act.ID(), err)
		default:
			logrus.Infof("action %s rolled back", act.ID())
		}
	}
}

// GetRegistry returns the action registry used by this executor.
func (e *Executor) GetRegistry() *Registry {
	return e.registry
}
