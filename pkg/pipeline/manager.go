// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/AccelByte/extend-tag-engine/pkg/action"
	"github.com/AccelByte/extend-tag-engine/pkg/rule"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// Manager runs the reward pipeline:
// Event → Signal → Rules → Actions
//
// It is the signal.Emitter the game components report to, so rewards never
// hold up a tag, a tripwire or a sweep.
type Manager struct {
	processor   *signal.Processor
	engine      *rule.Engine
	executor    *action.Executor
	ruleActions map[string][]string // rule ID → action IDs
	logger      *slog.Logger

	wg    sync.WaitGroup
	stats counters
}

type counters struct {
	events, signals, evaluations, triggers atomic.Int64
	actions, succeeded, failed             atomic.Int64
}

// NewManager creates a pipeline manager. ruleActions maps rule ids to the action
// ids they run.
func NewManager(processor *signal.Processor, engine *rule.Engine, executor *action.Executor, ruleActions map[string][]string, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	if ruleActions == nil {
		ruleActions = make(map[string][]string)
	}
	return &Manager{
		processor:   processor,
		engine:      engine,
		executor:    executor,
		ruleActions: ruleActions,
		logger:      logger,
	}
}

// Emit processes ev in the background. The work outlives the caller's request
// but keeps its values.
func (m *Manager) Emit(ctx context.Context, ev signal.Event) {
	bg := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		if err := m.Process(bg, ev); err != nil {
			m.logger.Error("pipeline failed for event",
				slog.String("event_type", ev.Type),
				slog.String("user_id", ev.UserID),
				slog.String("game_id", ev.GameID),
				slog.String("error", err.Error()))
		}
	}()
}

// Wait blocks until every emitted event and async action has finished.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Process runs one event through the pipeline synchronously.
func (m *Manager) Process(ctx context.Context, ev signal.Event) error {
	m.stats.events.Add(1)

	sig, err := m.processor.Process(ctx, ev)
	if err != nil {
		return fmt.Errorf("signal processing failed: %w", err)
	}
	m.stats.signals.Add(1)

	m.logger.Debug("event converted to signal",
		slog.String("signal_type", sig.Type()),
		slog.String("user_id", sig.UserID()))

	return m.evaluateAndExecute(ctx, sig)
}

func (m *Manager) evaluateAndExecute(ctx context.Context, sig signal.Signal) error {
	m.stats.evaluations.Add(1)
	triggers, err := m.engine.Evaluate(ctx, sig)
	if err != nil {
		return fmt.Errorf("rule evaluation failed: %w", err)
	}
	if len(triggers) == 0 {
		m.logger.Debug("no rules triggered for signal",
			slog.String("signal_type", sig.Type()),
			slog.String("user_id", sig.UserID()))
		return nil
	}
	m.stats.triggers.Add(int64(len(triggers)))

	m.logger.Info("rules triggered",
		slog.Int("trigger_count", len(triggers)),
		slog.String("signal_type", sig.Type()),
		slog.String("user_id", sig.UserID()))

	for _, trigger := range triggers {
		actionIDs := m.ruleActions[trigger.RuleID]
		if len(actionIDs) == 0 {
			m.logger.Info("trigger has no actions configured", slog.String("rule_id", trigger.RuleID))
			continue
		}

		syncIDs, asyncIDs := m.splitAsync(actionIDs)
		if len(asyncIDs) > 0 {
			m.runAsync(ctx, asyncIDs, trigger, sig.Context())
		}
		if len(syncIDs) > 0 {
			results, err := m.executor.ExecuteMultiple(ctx, syncIDs, trigger, sig.Context(), true)
			m.record(trigger, results, err)
		}
	}
	return nil
}

// splitAsync separates actions configured to run in the background. Unknown ids
// stay in the synchronous list so the executor reports them.
func (m *Manager) splitAsync(actionIDs []string) (syncIDs, asyncIDs []string) {
	registry := m.executor.GetRegistry()
	for _, id := range actionIDs {
		if a := registry.Get(id); a != nil && a.Config().Async {
			asyncIDs = append(asyncIDs, id)
			continue
		}
		syncIDs = append(syncIDs, id)
	}
	return syncIDs, asyncIDs
}

func (m *Manager) runAsync(ctx context.Context, actionIDs []string, trigger *rule.Trigger, playerCtx *signal.PlayerContext) {
	bg := context.WithoutCancel(ctx)
	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		results, err := m.executor.ExecuteMultiple(bg, actionIDs, trigger, playerCtx, false)
		m.record(trigger, results, err)
	}()
}

func (m *Manager) record(trigger *rule.Trigger, results []*action.ActionResult, err error) {
	succeeded, failed := 0, 0
	for _, result := range results {
		if result.Success {
			succeeded++
		} else {
			failed++
		}
	}
	m.stats.actions.Add(int64(len(results)))
	m.stats.succeeded.Add(int64(succeeded))
	m.stats.failed.Add(int64(failed))

	if err != nil {
		m.logger.Error("action execution encountered error",
			slog.String("rule_id", trigger.RuleID),
			slog.String("user_id", trigger.UserID),
			slog.String("error", err.Error()))
	}
	m.logger.Info("action execution completed",
		slog.String("rule_id", trigger.RuleID),
		slog.Int("success_count", succeeded),
		slog.Int("failure_count", failed))
}

// Stats are pipeline counters since start.
type Stats struct {
	EventsProcessed   int64 `json:"events_processed"`
	SignalsGenerated  int64 `json:"signals_generated"`
	Evaluations       int64 `json:"evaluations"`
	TriggersGenerated int64 `json:"triggers_generated"`
	ActionsExecuted   int64 `json:"actions_executed"`
	SuccessfulActions int64 `json:"successful_actions"`
	FailedActions     int64 `json:"failed_actions"`
}

func (m *Manager) GetStats() Stats {
	return Stats{
		EventsProcessed:   m.stats.events.Load(),
		SignalsGenerated:  m.stats.signals.Load(),
		Evaluations:       m.stats.evaluations.Load(),
		TriggersGenerated: m.stats.triggers.Load(),
		ActionsExecuted:   m.stats.actions.Load(),
		SuccessfulActions: m.stats.succeeded.Load(),
		FailedActions:     m.stats.failed.Load(),
	}
}

var _ signal.Emitter = (*Manager)(nil)
