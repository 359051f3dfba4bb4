// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

func TestRegisterEventProcessors(t *testing.T) {
	registry := signal.NewEventProcessorRegistry()
	RegisterEventProcessors(registry)

	for _, typ := range []string{
		signal.TypeTagHit,
		signal.TypePlayerEliminated,
		signal.TypeGameCompleted,
		signal.TypeTripwireTriggered,
		signal.TypePlayerReturned,
	} {
		if registry.Get(typ) == nil {
			t.Errorf("expected a processor for %s", typ)
		}
	}
	if registry.Get(signal.TypeInactivityPenalty) != nil {
		t.Error("inactivity_penalty should use the base signal")
	}
}

func TestEventProcessors(t *testing.T) {
	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	pc := &signal.PlayerContext{
		UserID: "a",
		GameID: "g1",
		Game:   &game.Game{ID: "g1", PlayerIDs: []string{"a", "b", "c"}},
	}

	t.Run("tag hit", func(t *testing.T) {
		sig, err := (&TagHitProcessor{}).Process(context.Background(), signal.Event{
			Type: signal.TypeTagHit, UserID: "a", GameID: "g1", At: at,
			Data: map[string]interface{}{"target_id": "b", "distance": 42.0},
		}, pc)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		hit, ok := sig.(*TagHitSignal)
		if !ok {
			t.Fatalf("expected *TagHitSignal, got %T", sig)
		}
		if hit.TargetID != "b" || hit.Distance != 42.0 || hit.Metadata()["game_id"] != "g1" {
			t.Errorf("unexpected signal %+v", hit)
		}
	})

	t.Run("tag hit without target", func(t *testing.T) {
		_, err := (&TagHitProcessor{}).Process(context.Background(), signal.Event{Type: signal.TypeTagHit, UserID: "a"}, pc)
		if err == nil {
			t.Error("expected error for missing target")
		}
	})

	t.Run("elimination", func(t *testing.T) {
		sig, err := (&EliminationProcessor{}).Process(context.Background(), signal.Event{
			Type: signal.TypePlayerEliminated, UserID: "b", At: at,
			Data: map[string]interface{}{"eliminated_by": "a", "source": "tag"},
		}, pc)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		el := sig.(*EliminationSignal)
		if el.EliminatedBy != "a" || el.Source != "tag" || el.Type() != signal.TypePlayerEliminated {
			t.Errorf("unexpected signal %+v", el)
		}
	})

	t.Run("game completed counts players", func(t *testing.T) {
		sig, err := (&GameCompletedProcessor{}).Process(context.Background(), signal.Event{
			Type: signal.TypeGameCompleted, UserID: "a", GameID: "g1", At: at,
		}, pc)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if sig.(*GameCompletedSignal).PlayerCount != 3 {
			t.Errorf("expected 3 players, got %d", sig.(*GameCompletedSignal).PlayerCount)
		}
	})

	t.Run("tripwire", func(t *testing.T) {
		sig, err := (&TripwireProcessor{}).Process(context.Background(), signal.Event{
			Type: signal.TypeTripwireTriggered, UserID: "a", At: at,
			Data: map[string]interface{}{"victim_id": "c", "tripwire_id": "tw1"},
		}, pc)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		tw := sig.(*TripwireSignal)
		if tw.VictimID != "c" || tw.TripwireID != "tw1" {
			t.Errorf("unexpected signal %+v", tw)
		}
	})

	t.Run("return", func(t *testing.T) {
		sig, err := (&ReturnProcessor{}).Process(context.Background(), signal.Event{
			Type: signal.TypePlayerReturned, UserID: "a", At: at,
			Data: map[string]interface{}{"offline_for": 60 * time.Hour},
		}, pc)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		ret := sig.(*ReturnSignal)
		if ret.OfflineFor != 60*time.Hour || ret.Metadata()["offline_hours"] != 60.0 {
			t.Errorf("unexpected signal %+v", ret)
		}
	})

	t.Run("return without duration", func(t *testing.T) {
		_, err := (&ReturnProcessor{}).Process(context.Background(), signal.Event{Type: signal.TypePlayerReturned, UserID: "a"}, pc)
		if err == nil {
			t.Error("expected error for missing duration")
		}
	})
}
