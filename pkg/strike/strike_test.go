// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package strike_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	notifymock "github.com/AccelByte/extend-tag-engine/pkg/notify/mock"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	signalmock "github.com/AccelByte/extend-tag-engine/pkg/signal/mock"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/AccelByte/extend-tag-engine/pkg/store/storetest"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	store    store.GameStore
	applier  *strike.Applier
	notifier *notifymock.Notifier
	dispatch *notify.Dispatcher
	emitter  *signalmock.Emitter
}

func newFixture(t *testing.T, players ...storetest.Player) *fixture {
	t.Helper()
	s, _ := storetest.New(t)
	storetest.SeedGame(t, s, "g1", game.StatusActive, testNow, players...)

	rec := &notifymock.Notifier{}
	d := notify.NewDispatcher(rec, time.Second)
	em := &signalmock.Emitter{}
	return &fixture{
		store:    s,
		applier:  strike.NewApplier(s, d, em, clock.NewFake(testNow), game.DefaultTuning()),
		notifier: rec,
		dispatch: d,
		emitter:  em,
	}
}

func TestApply_RemovesStrikeAndPlacesHitZone(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b"}, storetest.Player{ID: "c"})
	at := geo.Coordinate{Lat: 10, Lng: 10}

	out, err := f.applier.Apply(context.Background(), strike.Request{
		GameID:     "g1",
		TargetID:   "b",
		AttackerID: "a",
		Source:     game.SourceTag,
		HitZoneAt:  &at,
		At:         testNow,
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if out.Eliminated || out.GameCompleted {
		t.Errorf("unexpected outcome %+v", out)
	}
	if out.Target.Strikes != 2 || !out.Target.IsActive {
		t.Errorf("expected 2 strikes and active, got %+v", out.Target)
	}

	ps := storetest.Reload(t, f.store, "g1").Players["b"]
	if len(ps.SafeZones) != 1 || ps.SafeZones[0].Kind != game.ZoneHitZone || ps.SafeZones[0].ExpiresAt != nil {
		t.Errorf("expected one permanent hit zone, got %+v", ps.SafeZones)
	}
	if ps.SafeZones[0].Location != at || ps.SafeZones[0].Radius != 80 {
		t.Errorf("unexpected hit zone %+v", ps.SafeZones[0])
	}

	f.dispatch.Wait()
	if len(f.notifier.OfKind(notify.KindTagged)) != 1 {
		t.Error("expected the target to be notified")
	}
	if hits := f.emitter.OfType(signal.TypeTagHit); len(hits) != 1 || hits[0].UserID != "a" {
		t.Errorf("expected one tag_hit for the attacker, got %+v", hits)
	}
}

func TestApply_EliminationCompletesGame(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b", Strikes: 1})

	out, err := f.applier.Apply(context.Background(), strike.Request{
		GameID: "g1", TargetID: "b", AttackerID: "a", Source: game.SourceTag, At: testNow,
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !out.Eliminated || !out.GameCompleted || out.WinnerID != "a" {
		t.Errorf("expected elimination and completion won by a, got %+v", out)
	}
	if out.Target.Strikes != 0 || out.Target.IsActive {
		t.Errorf("expected eliminated target, got %+v", out.Target)
	}

	g := storetest.Reload(t, f.store, "g1")
	if g.Status != game.StatusCompleted || g.WinnerID != "a" || g.EndedAt == nil {
		t.Errorf("expected completed game, got %+v", g)
	}

	f.dispatch.Wait()
	if n := len(f.notifier.OfKind(notify.KindGameCompleted)); n != 1 {
		t.Errorf("expected one game_completed notification, got %d", n)
	}
	if n := len(f.notifier.OfKind(notify.KindEliminated)); n != 1 {
		t.Errorf("expected one eliminated notification, got %d", n)
	}
	if evs := f.emitter.OfType(signal.TypePlayerEliminated); len(evs) != 1 || evs[0].Data["eliminated_by"] != "a" {
		t.Errorf("unexpected elimination events %+v", evs)
	}
	if evs := f.emitter.OfType(signal.TypeGameCompleted); len(evs) != 1 || evs[0].UserID != "a" {
		t.Errorf("unexpected completion events %+v", evs)
	}
}

func TestApply_RejectsEliminatedTarget(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b", Strikes: -1}, storetest.Player{ID: "c"})

	_, err := f.applier.Apply(context.Background(), strike.Request{GameID: "g1", TargetID: "b", Source: game.SourceTag})
	if !errors.Is(err, game.ErrPlayerEliminated) {
		t.Errorf("expected ErrPlayerEliminated, got %v", err)
	}
}

func TestApply_InactivityDoesNotSendTaggedNotice(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b"}, storetest.Player{ID: "c"})

	if _, err := f.applier.Apply(context.Background(), strike.Request{GameID: "g1", TargetID: "b", Source: game.SourceInactivity}); err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	f.dispatch.Wait()
	if n := len(f.notifier.OfKind(notify.KindTagged)); n != 0 {
		t.Errorf("expected no tagged notification, got %d", n)
	}
	if n := len(f.emitter.Events()); n != 0 {
		t.Errorf("expected no events without an attacker, got %d", n)
	}
}

func TestCheckCompletion_IsIdempotent(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b", Strikes: -1})
	ctx := context.Background()

	first, err := f.applier.CheckCompletion(ctx, "g1")
	if err != nil {
		t.Fatalf("CheckCompletion() error = %v", err)
	}
	if !first.Completed || first.WinnerID != "a" {
		t.Errorf("expected first check to complete the game, got %+v", first)
	}
	endedAt := *storetest.Reload(t, f.store, "g1").EndedAt

	for i := 0; i < 3; i++ {
		again, err := f.applier.CheckCompletion(ctx, "g1")
		if err != nil {
			t.Fatalf("CheckCompletion() error = %v", err)
		}
		if again.Completed {
			t.Error("expected repeated checks to be no-ops")
		}
	}

	g := storetest.Reload(t, f.store, "g1")
	if !g.EndedAt.Equal(endedAt) || g.Status != game.StatusCompleted {
		t.Errorf("game changed after repeated checks: %+v", g)
	}
	f.dispatch.Wait()
	if n := len(f.notifier.OfKind(notify.KindGameCompleted)); n != 1 {
		t.Errorf("expected exactly one completion notice, got %d", n)
	}
}

func TestCheckCompletion_StillContested(t *testing.T) {
	f := newFixture(t, storetest.Player{ID: "a"}, storetest.Player{ID: "b"})

	c, err := f.applier.CheckCompletion(context.Background(), "g1")
	if err != nil {
		t.Fatalf("CheckCompletion() error = %v", err)
	}
	if c.Completed || c.Game.Status != game.StatusActive {
		t.Errorf("expected game to stay active, got %+v", c)
	}
}

func TestApply_EliminationSurvivesFailedCompletion(t *testing.T) {
	s, _ := storetest.New(t)
	storetest.SeedGame(t, s, "g1", game.StatusActive, testNow, storetest.Player{ID: "a"}, storetest.Player{ID: "b", Strikes: 1})
	faulty := storetest.NewFaulty(s)
	faulty.FailGame(game.ErrStoreUnavailable)

	rec := &notifymock.Notifier{}
	d := notify.NewDispatcher(rec, time.Second)
	em := &signalmock.Emitter{}
	applier := strike.NewApplier(faulty, d, em, clock.NewFake(testNow), game.DefaultTuning())

	out, err := applier.Apply(context.Background(), strike.Request{
		GameID: "g1", TargetID: "b", AttackerID: "a", Source: game.SourceTag, At: testNow,
	})
	if err != nil {
		t.Fatalf("Apply() error = %v", err)
	}
	if !out.Eliminated || out.GameCompleted {
		t.Errorf("expected elimination without completion, got %+v", out)
	}
	if g := storetest.Reload(t, s, "g1"); g.Status != game.StatusActive || g.Players["b"].IsActive {
		t.Errorf("expected b eliminated in a still active game, got status %s", g.Status)
	}

	faulty.Heal()
	completion, err := applier.CheckCompletion(context.Background(), "g1")
	if err != nil {
		t.Fatalf("CheckCompletion() error = %v", err)
	}
	if !completion.Completed || completion.WinnerID != "a" {
		t.Errorf("expected a later check to finish the game, got %+v", completion)
	}

	d.Wait()
	if evs := em.OfType(signal.TypePlayerEliminated); len(evs) != 1 {
		t.Errorf("expected one elimination signal, got %d", len(evs))
	}
}
