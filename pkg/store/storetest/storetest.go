// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

// Package storetest provides miniredis-backed fixtures for engine tests.
package storetest

import (
	"context"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
)

// New starts a miniredis server and returns a store bound to it.
func New(t *testing.T) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("failed to start miniredis: %v", err)
	}
	client := redis.NewClient(&redis.Options{
		Addr:       mr.Addr(),
		MaxRetries: -1,
	})
	t.Cleanup(func() {
		client.Close()
		mr.Close()
	})

	s := store.NewRedisStore(client, store.RedisStoreConfig{
		CallTimeout:    time.Second,
		MaxAttempts:    20,
		InitialBackoff: time.Millisecond,
	})
	return s, mr
}

// Player describes one seeded player.
type Player struct {
	ID        string
	HomeBases []geo.Coordinate
	Location  *geo.Coordinate
	Strikes   int
	Arsenal   game.Arsenal
	DailyTags int
}

// SeedGame writes a game with the given status, players and locations.
// Strikes of zero default to the starting strike count.
func SeedGame(t *testing.T, s *store.RedisStore, gameID string, status game.Status, now time.Time, players ...Player) *game.Game {
	t.Helper()
	ctx := context.Background()
	tuning := game.DefaultTuning()

	g := &game.Game{
		ID:        gameID,
		Title:     "test " + gameID,
		JoinCode:  "CODE" + gameID,
		Status:    status,
		TimeZone:  "UTC",
		CreatedAt: now.Add(-time.Hour),
		Players:   map[string]*game.PlayerState{},
	}
	if status == game.StatusActive {
		started := now.Add(-time.Hour)
		g.StartedAt = &started
	}

	for i, p := range players {
		if i == 0 {
			g.CreatorID = p.ID
		}
		ps := game.NewPlayerState(p.ID, "Player "+p.ID, tuning, now, time.UTC)
		if p.Strikes > 0 {
			ps.Strikes = p.Strikes
		}
		if p.Strikes < 0 {
			ps.Strikes = 0
		}
		ps.IsActive = ps.Strikes > 0
		ps.Arsenal = p.Arsenal
		ps.DailyTagsRemaining = p.DailyTags
		for j, hb := range p.HomeBases {
			c := hb
			if j == 0 {
				ps.HomeBase1 = &c
			} else {
				ps.HomeBase2 = &c
			}
			ps.SafeZones = append(ps.SafeZones, game.SafeZone{
				ID:        p.ID + "-hb",
				Location:  c,
				CreatedAt: now,
				Kind:      game.ZoneHomeBase,
				Radius:    tuning.HomeBaseRadius,
			})
		}
		g.PlayerIDs = append(g.PlayerIDs, p.ID)
		g.Players[p.ID] = ps
	}

	if err := s.CreateGame(ctx, g); err != nil {
		t.Fatalf("failed to seed game: %v", err)
	}

	for _, p := range players {
		if p.Location == nil {
			continue
		}
		if _, err := s.PutLocation(ctx, game.LocationRecord{PlayerID: p.ID, Location: *p.Location, RecordedAt: now}); err != nil {
			t.Fatalf("failed to seed location: %v", err)
		}
	}
	return g
}

// Reload fetches the current game state or fails the test.
func Reload(t *testing.T, s store.GameStore, gameID string) *game.Game {
	t.Helper()
	g, err := s.GetGame(context.Background(), gameID)
	if err != nil {
		t.Fatalf("failed to reload game %s: %v", gameID, err)
	}
	return g
}

// Ptr returns a pointer to c.
func Ptr(c geo.Coordinate) *geo.Coordinate {
	return &c
}
