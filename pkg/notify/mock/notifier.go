// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-tag-engine/pkg/notify"
)

// Notifier is a mock implementation of notify.Notifier for testing
type Notifier struct {
	// SendFunc is called when Send is invoked, if set
	SendFunc func(ctx context.Context, recipientIDs []string, n notify.Notification) error

	mu    sync.Mutex
	calls []SendCall
}

// SendCall tracks parameters for Send calls
type SendCall struct {
	RecipientIDs []string
	Notification notify.Notification
}

func (m *Notifier) Send(ctx context.Context, recipientIDs []string, n notify.Notification) error {
	m.mu.Lock()
	m.calls = append(m.calls, SendCall{
		RecipientIDs: append([]string(nil), recipientIDs...),
		Notification: n,
	})
	m.mu.Unlock()

	if m.SendFunc != nil {
		return m.SendFunc(ctx, recipientIDs, n)
	}
	return nil
}

// Calls returns a snapshot of every Send call so far
func (m *Notifier) Calls() []SendCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]SendCall(nil), m.calls...)
}

// OfKind returns the Send calls carrying the given kind
func (m *Notifier) OfKind(kind notify.Kind) []SendCall {
	var out []SendCall
	for _, c := range m.Calls() {
		if c.Notification.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}
