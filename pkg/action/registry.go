// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package action

import (
	"fmt"
	"sort"
	"sync"
)

// Registry holds the configured actions by id.
type Registry struct {
	mu      sync.RWMutex
	actions map[string]Action
}

func NewRegistry() *Registry {
	return &Registry{actions: make(map[string]Action)}
}

// Register adds an action. Ids must be unique.
func (r *Registry) Register(act Action) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[act.ID()]; exists {
		return fmt.Errorf("action %s already registered", act.ID())
	}
	r.actions[act.ID()] = act
	return nil
}

func (r *Registry) Unregister(actionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.actions[actionID]; !exists {
		return fmt.Errorf("%w: %s", ErrActionNotFound, actionID)
	}
	delete(r.actions, actionID)
	return nil
}

// Get returns an action by id, or nil.
func (r *Registry) Get(actionID string) Action {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.actions[actionID]
}

// GetAll returns every action sorted by id.
func (r *Registry) GetAll() []Action {
	r.mu.RLock()
	defer r.mu.RUnlock()

	actions := make([]Action, 0, len(r.actions))
	for _, act := range r.actions {
		actions = append(actions, act)
	}
	sort.Slice(actions, func(i, j int) bool { return actions[i].ID() < actions[j].ID() })
	return actions
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.actions)
}
