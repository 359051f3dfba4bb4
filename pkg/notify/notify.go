// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify

import (
	"context"
	"sync"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/sirupsen/logrus"
)

// Kind identifies what a notification is about so clients can route it.
type Kind string

const (
	KindTagIncoming       Kind = "tag_incoming"
	KindTagged            Kind = "tagged"
	KindEliminated        Kind = "eliminated"
	KindGameStarted       Kind = "game_started"
	KindGameCompleted     Kind = "game_completed"
	KindInactivityWarning Kind = "inactivity_warning"
	KindInactivityPenalty Kind = "inactivity_penalty"
	KindPlayerReturned    Kind = "player_returned"
	KindTripwireTriggered Kind = "tripwire_triggered"
)

// Notification is the provider-neutral push payload.
type Notification struct {
	Kind    Kind                   `json:"kind"`
	Title   string                 `json:"title"`
	Body    string                 `json:"body"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// Notifier delivers a notification to a set of players.
type Notifier interface {
	Send(ctx context.Context, recipientIDs []string, n Notification) error
}

// Dispatcher sends notifications in the background. Failures are logged and
// counted, never retried, and never reported to the caller.
type Dispatcher struct {
	notifier Notifier
	timeout  time.Duration
	wg       sync.WaitGroup
}

// NewDispatcher wraps a notifier for fire-and-forget delivery.
func NewDispatcher(notifier Notifier, timeout time.Duration) *Dispatcher {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Dispatcher{notifier: notifier, timeout: timeout}
}

// Dispatch queues n for delivery and returns immediately.
func (d *Dispatcher) Dispatch(ctx context.Context, recipientIDs []string, n Notification) {
	if d == nil || d.notifier == nil || len(recipientIDs) == 0 {
		return
	}

	// the request may finish before delivery does
	sendCtx := context.WithoutCancel(ctx)

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()

		ctx, cancel := context.WithTimeout(sendCtx, d.timeout)
		defer cancel()

		if err := d.notifier.Send(ctx, recipientIDs, n); err != nil {
			metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "failed").Inc()
			logrus.Warnf("failed to send %s notification to %v: %v", n.Kind, recipientIDs, err)
			return
		}
		metrics.NotificationsTotal.WithLabelValues(string(n.Kind), "sent").Inc()
	}()
}

// Wait blocks until every queued notification finished.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// LogNotifier writes notifications to the log. Used when no transport is configured.
type LogNotifier struct{}

func (LogNotifier) Send(ctx context.Context, recipientIDs []string, n Notification) error {
	logrus.WithFields(logrus.Fields{
		"kind":       n.Kind,
		"recipients": recipientIDs,
		"payload":    n.Payload,
	}).Infof("notification: %s: %s", n.Title, n.Body)
	return nil
}

// Multi fans a notification out to several notifiers and returns the first error.
type Multi []Notifier

func (m Multi) Send(ctx context.Context, recipientIDs []string, n Notification) error {
	var firstErr error
	for _, notifier := range m {
		if err := notifier.Send(ctx, recipientIDs, n); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
