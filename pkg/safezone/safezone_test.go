// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package safezone_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/notify/mock"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/store/storetest"
)

var (
	testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	origin  = geo.Coordinate{Lat: 40.7128, Lng: -74.0060}
)

func TestIsProtected(t *testing.T) {
	expired := testNow.Add(-time.Minute)
	tuning := game.DefaultTuning()

	ps := game.NewPlayerState("p", "P", tuning, testNow, time.UTC)
	ps.SafeZones = []game.SafeZone{
		{ID: "miss-old", Kind: game.ZoneMissZone, Location: geo.Destination(origin, 0, 1000), Radius: 80, ExpiresAt: &expired},
		{ID: "hit", Kind: game.ZoneHitZone, Location: origin, Radius: 80},
		{ID: "home", Kind: game.ZoneHomeBase, Location: origin, Radius: 100},
	}

	tests := []struct {
		name     string
		coord    geo.Coordinate
		expected bool
		zoneID   string
	}{
		{name: "home base wins over hit zone", coord: origin, expected: true, zoneID: "home"},
		{name: "inside home base only", coord: geo.Destination(origin, 90, 90), expected: true, zoneID: "home"},
		{name: "expired miss zone does not protect", coord: geo.Destination(origin, 0, 1000), expected: false},
		{name: "outside every zone", coord: geo.Destination(origin, 180, 500), expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, zone := safezone.IsProtected(ps, tt.coord, testNow)
			if got != tt.expected {
				t.Fatalf("IsProtected() = %v, expected %v", got, tt.expected)
			}
			if tt.expected && zone.ID != tt.zoneID {
				t.Errorf("protecting zone = %s, expected %s", zone.ID, tt.zoneID)
			}
		})
	}
}

func TestIsProtected_HitZoneReportedWhenNoHomeBase(t *testing.T) {
	ps := &game.PlayerState{SafeZones: []game.SafeZone{
		safezone.NewHitZone(origin, testNow, 80),
	}}
	ok, zone := safezone.IsProtected(ps, geo.Destination(origin, 45, 40), testNow)
	if !ok || zone.Kind != game.ZoneHitZone {
		t.Errorf("expected hit zone protection, got %v %+v", ok, zone)
	}
}

func TestPruneExpired(t *testing.T) {
	ps := &game.PlayerState{SafeZones: []game.SafeZone{
		safezone.NewHomeBase(origin, testNow, 100),
		safezone.NewMissZone(origin, testNow, 80, time.UTC),
		safezone.NewHitZone(origin, testNow, 80),
	}}

	if n := safezone.PruneExpired(ps, testNow.Add(time.Hour)); n != 0 {
		t.Errorf("expected nothing pruned before midnight, pruned %d", n)
	}

	midnight := game.NextLocalMidnight(testNow, time.UTC)
	if n := safezone.PruneExpired(ps, midnight); n != 1 {
		t.Errorf("expected the miss zone pruned at midnight, pruned %d", n)
	}
	for _, z := range ps.SafeZones {
		if z.Kind == game.ZoneMissZone {
			t.Error("miss zone survived pruning")
		}
	}
	if len(ps.SafeZones) != 2 {
		t.Errorf("expected 2 permanent zones, got %d", len(ps.SafeZones))
	}
}

func TestNewMissZone_ExpiresAtLocalMidnight(t *testing.T) {
	ny, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}
	// 01:00 UTC on May 2 is still May 1 in New York.
	created := time.Date(2025, 5, 2, 1, 0, 0, 0, time.UTC)
	z := safezone.NewMissZone(origin, created, 300, ny)

	expected := time.Date(2025, 5, 2, 0, 0, 0, 0, ny)
	if !z.ExpiresAt.Equal(expected) {
		t.Errorf("ExpiresAt = %v, expected %v", z.ExpiresAt, expected)
	}
	if !z.IsActiveAt(expected.Add(-time.Nanosecond)) {
		t.Error("expected zone active just before midnight")
	}
	if z.IsActiveAt(expected) {
		t.Error("expected zone inactive at midnight")
	}
}

func newService(t *testing.T) (*safezone.Service, *mock.Notifier, *notify.Dispatcher) {
	t.Helper()
	s, _ := storetest.New(t)
	rec := &mock.Notifier{}
	d := notify.NewDispatcher(rec, time.Second)
	storetest.SeedGame(t, s, "g1", game.StatusWaiting, testNow,
		storetest.Player{ID: "a"},
		storetest.Player{ID: "b"},
		storetest.Player{ID: "c"},
	)
	return safezone.NewService(s, d, clock.NewFake(testNow), game.DefaultTuning()), rec, d
}

func TestPlaceHomeBase_PromotesOnLastPlacement(t *testing.T) {
	svc, rec, d := newService(t)
	ctx := context.Background()

	order := []struct {
		player string
		base   int
	}{
		{"a", 1}, {"a", 2}, {"b", 1}, {"b", 2}, {"c", 1},
	}
	for _, step := range order {
		res, err := svc.PlaceHomeBase(ctx, "g1", step.player, geo.Destination(origin, float64(step.base*90), 500))
		if err != nil {
			t.Fatalf("PlaceHomeBase(%s) error = %v", step.player, err)
		}
		if res.Status != game.StatusWaiting || res.GameStarted {
			t.Fatalf("game started early after %s base %d", step.player, step.base)
		}
	}

	res, err := svc.PlaceHomeBase(ctx, "g1", "c", geo.Destination(origin, 270, 500))
	if err != nil {
		t.Fatalf("PlaceHomeBase() error = %v", err)
	}
	if res.Status != game.StatusActive || !res.GameStarted || !res.Ready {
		t.Errorf("expected the final placement to start the game, got %+v", res)
	}
	if len(res.Player.SafeZones) != 2 {
		t.Errorf("expected 2 home base zones, got %d", len(res.Player.SafeZones))
	}

	d.Wait()
	started := rec.OfKind(notify.KindGameStarted)
	if len(started) != 1 || len(started[0].RecipientIDs) != 3 {
		t.Errorf("expected one game_started to all 3 players, got %+v", started)
	}

	_, err = svc.PlaceHomeBase(ctx, "g1", "c", origin)
	if !errors.Is(err, game.ErrGameNotWaiting) {
		t.Errorf("expected ErrGameNotWaiting after start, got %v", err)
	}
}

func TestPlaceHomeBase_Errors(t *testing.T) {
	svc, _, _ := newService(t)
	ctx := context.Background()

	if _, err := svc.PlaceHomeBase(ctx, "g1", "a", geo.Coordinate{Lat: 95}); !errors.Is(err, geo.ErrInvalidCoordinate) {
		t.Errorf("expected ErrInvalidCoordinate, got %v", err)
	}
	if _, err := svc.PlaceHomeBase(ctx, "nope", "a", origin); !errors.Is(err, game.ErrGameNotFound) {
		t.Errorf("expected ErrGameNotFound, got %v", err)
	}
	if _, err := svc.PlaceHomeBase(ctx, "g1", "zed", origin); !errors.Is(err, game.ErrPlayerNotFound) {
		t.Errorf("expected ErrPlayerNotFound, got %v", err)
	}

	for i := 0; i < 2; i++ {
		if _, err := svc.PlaceHomeBase(ctx, "g1", "a", origin); err != nil {
			t.Fatalf("PlaceHomeBase() error = %v", err)
		}
	}
	if _, err := svc.PlaceHomeBase(ctx, "g1", "a", origin); !errors.Is(err, game.ErrHomeBasesPlaced) {
		t.Errorf("expected ErrHomeBasesPlaced, got %v", err)
	}
}
