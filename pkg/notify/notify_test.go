// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package notify_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/notify/mock"
)

func TestDispatcher_Dispatch(t *testing.T) {
	rec := &mock.Notifier{}
	d := notify.NewDispatcher(rec, time.Second)

	d.Dispatch(context.Background(), []string{"a", "b"}, notify.Notification{Kind: notify.KindTagged, Title: "hit"})
	d.Dispatch(context.Background(), nil, notify.Notification{Kind: notify.KindTagged})
	d.Wait()

	calls := rec.Calls()
	if len(calls) != 1 {
		t.Fatalf("expected 1 send, got %d", len(calls))
	}
	if len(calls[0].RecipientIDs) != 2 {
		t.Errorf("expected 2 recipients, got %v", calls[0].RecipientIDs)
	}
}

func TestDispatcher_SurvivesCancelledRequest(t *testing.T) {
	rec := &mock.Notifier{
		SendFunc: func(ctx context.Context, recipientIDs []string, n notify.Notification) error {
			return ctx.Err()
		},
	}
	failed := make(chan struct{}, 1)
	wrapped := &mock.Notifier{
		SendFunc: func(ctx context.Context, recipientIDs []string, n notify.Notification) error {
			if err := rec.Send(ctx, recipientIDs, n); err != nil {
				failed <- struct{}{}
			}
			return nil
		},
	}
	d := notify.NewDispatcher(wrapped, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Dispatch(ctx, []string{"a"}, notify.Notification{Kind: notify.KindTagIncoming})
	d.Wait()

	select {
	case <-failed:
		t.Error("delivery context should not inherit the request cancellation")
	default:
	}
}

func TestDispatcher_FailureIsSwallowed(t *testing.T) {
	rec := &mock.Notifier{
		SendFunc: func(ctx context.Context, recipientIDs []string, n notify.Notification) error {
			return errors.New("provider down")
		},
	}
	d := notify.NewDispatcher(rec, time.Second)
	d.Dispatch(context.Background(), []string{"a"}, notify.Notification{Kind: notify.KindEliminated})
	d.Wait()

	if len(rec.Calls()) != 1 {
		t.Errorf("expected exactly one attempt, got %d", len(rec.Calls()))
	}
}

func TestMulti_Send(t *testing.T) {
	first := &mock.Notifier{
		SendFunc: func(ctx context.Context, recipientIDs []string, n notify.Notification) error {
			return errors.New("first failed")
		},
	}
	second := &mock.Notifier{}

	err := notify.Multi{first, second}.Send(context.Background(), []string{"a"}, notify.Notification{Kind: notify.KindTagged})
	if err == nil || err.Error() != "first failed" {
		t.Errorf("expected first error, got %v", err)
	}
	if len(second.Calls()) != 1 {
		t.Error("expected the second notifier to still be called")
	}
}

func TestNilDispatcherIsNoop(t *testing.T) {
	var d *notify.Dispatcher
	d.Dispatch(context.Background(), []string{"a"}, notify.Notification{})
}
