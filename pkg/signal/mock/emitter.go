// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// Emitter is a mock implementation of signal.Emitter that records events
type Emitter struct {
	mu     sync.Mutex
	events []signal.Event
}

func (m *Emitter) Emit(ctx context.Context, ev signal.Event) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, ev)
}

// Events returns a snapshot of every emitted event
func (m *Emitter) Events() []signal.Event {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]signal.Event(nil), m.events...)
}

// OfType returns the emitted events of one type
func (m *Emitter) OfType(eventType string) []signal.Event {
	var out []signal.Event
	for _, ev := range m.Events() {
		if ev.Type == eventType {
			out = append(out, ev)
		}
	}
	return out
}
