// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package signal

import (
	"context"
	"sync"
)

// EventProcessor turns one event type into a typed signal.
type EventProcessor interface {
	// EventType returns the Event.Type this processor handles.
	EventType() string

	// Process converts the event into a signal using the loaded player context.
	Process(ctx context.Context, ev Event, playerCtx *PlayerContext) (Signal, error)
}

// PlayerContextLoader loads the player's state in a game.
type PlayerContextLoader interface {
	Load(ctx context.Context, gameID, userID string) (*PlayerContext, error)
}

// EventProcessorRegistry holds event processors keyed by event type.
type EventProcessorRegistry struct {
	mu         sync.RWMutex
	processors map[string]EventProcessor
}

func NewEventProcessorRegistry() *EventProcessorRegistry {
	return &EventProcessorRegistry{
		processors: make(map[string]EventProcessor),
	}
}

// Register adds a processor, replacing any previous one for the same type.
func (r *EventProcessorRegistry) Register(processor EventProcessor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.processors[processor.EventType()] = processor
}

// Get returns the processor for an event type, or nil.
func (r *EventProcessorRegistry) Get(eventType string) EventProcessor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.processors[eventType]
}

// Count returns the number of registered processors.
func (r *EventProcessorRegistry) Count() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.processors)
}
