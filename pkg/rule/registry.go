// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package rule

import (
	"fmt"
	"slices"
	"sync"
)

// Registry holds the configured rules in id order. Lookups by signal type are
// cached until the set of rules changes.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]Rule
	order []string
	bySig map[string][]Rule
}

func NewRegistry() *Registry {
	return &Registry{byID: map[string]Rule{}}
}

// Register adds a rule. Rule ids must be unique.
func (r *Registry) Register(rule Rule) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if _, dup := r.byID[id]; dup {
		return fmt.Errorf("duplicate rule id %q", id)
	}
	r.byID[id] = rule
	pos, _ := slices.BinarySearch(r.order, id)
	r.order = slices.Insert(r.order, pos, id)
	r.bySig = nil
	return nil
}

func (r *Registry) Unregister(ruleID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[ruleID]; !ok {
		return fmt.Errorf("unknown rule id %q", ruleID)
	}
	delete(r.byID, ruleID)
	if pos, found := slices.BinarySearch(r.order, ruleID); found {
		r.order = slices.Delete(r.order, pos, pos+1)
	}
	r.bySig = nil
	return nil
}

// Get returns a rule by id, or nil.
func (r *Registry) Get(ruleID string) Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.byID[ruleID]
}

// GetBySignalType returns the enabled rules listening for signalType. A rule with
// no signal types listens for all of them.
func (r *Registry) GetBySignalType(signalType string) []Rule {
	r.mu.RLock()
	cached, ok := r.bySig[signalType]
	r.mu.RUnlock()
	if ok {
		return cached
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	var matching []Rule
	for _, id := range r.order {
		rule := r.byID[id]
		if !rule.Config().Enabled {
			continue
		}
		types := rule.SignalTypes()
		if len(types) == 0 || slices.Contains(types, signalType) {
			matching = append(matching, rule)
		}
	}
	if r.bySig == nil {
		r.bySig = map[string][]Rule{}
	}
	r.bySig[signalType] = matching
	return matching
}

// GetAll returns every registered rule, disabled ones included.
func (r *Registry) GetAll() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	all := make([]Rule, len(r.order))
	for i, id := range r.order {
		all[i] = r.byID[id]
	}
	return all
}

func (r *Registry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}
