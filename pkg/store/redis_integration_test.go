// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

//go:build integration
// +build integration

package store_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/service"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
)

// Run with: go test -tags integration ./pkg/store/...
// Requires Redis at REDIS_HOST:REDIS_PORT (default localhost:6379).
func TestRedisStore_Integration(t *testing.T) {
	ctx := context.Background()

	client, err := service.NewRedisClient(ctx, service.RedisServiceConfig{
		Host:       common.GetEnv("REDIS_HOST", "localhost"),
		Port:       common.GetEnv("REDIS_PORT", "6379"),
		Password:   common.GetEnv("REDIS_PASSWORD", ""),
		MaxRetries: 2,
		RetryDelay: 200 * time.Millisecond,
	})
	if err != nil {
		t.Skipf("Redis not reachable: %v", err)
	}
	defer client.Close()

	s := store.NewRedisStore(client, store.RedisStoreConfig{})
	suffix := time.Now().UnixNano()
	gameID := fmt.Sprintf("it-game-%d", suffix)
	alice := fmt.Sprintf("it-alice-%d", suffix)
	bob := fmt.Sprintf("it-bob-%d", suffix)
	tuning := game.DefaultTuning()
	now := time.Now().UTC()

	t.Run("create and join", func(t *testing.T) {
		g := &game.Game{
			ID:        gameID,
			Title:     "integration",
			JoinCode:  fmt.Sprintf("IT%d", suffix%10000),
			CreatorID: alice,
			Status:    game.StatusWaiting,
			TimeZone:  "UTC",
			CreatedAt: now,
			PlayerIDs: []string{alice},
			Players:   map[string]*game.PlayerState{alice: game.NewPlayerState(alice, "Alice", tuning, now, time.UTC)},
		}
		if err := s.CreateGame(ctx, g); err != nil {
			t.Fatalf("CreateGame() error = %v", err)
		}

		joined, err := s.AddPlayer(ctx, gameID, game.NewPlayerState(bob, "Bob", tuning, now, time.UTC), tuning.MaxPlayers)
		if err != nil {
			t.Fatalf("AddPlayer() error = %v", err)
		}
		if len(joined.PlayerIDs) != 2 {
			t.Errorf("expected 2 players, got %v", joined.PlayerIDs)
		}
	})

	t.Run("update player", func(t *testing.T) {
		ps, err := s.UpdatePlayer(ctx, gameID, bob, func(ps *game.PlayerState) error {
			ps.Strikes--
			return nil
		})
		if err != nil {
			t.Fatalf("UpdatePlayer() error = %v", err)
		}
		if ps.Strikes != tuning.StartingStrikes-1 {
			t.Errorf("expected %d strikes, got %d", tuning.StartingStrikes-1, ps.Strikes)
		}
	})

	t.Run("location round trip", func(t *testing.T) {
		rec := game.LocationRecord{PlayerID: alice, Location: geo.Coordinate{Lat: 1.3521, Lng: 103.8198}, RecordedAt: now}
		if _, err := s.PutLocation(ctx, rec); err != nil {
			t.Fatalf("PutLocation() error = %v", err)
		}
		got, err := s.GetLocation(ctx, alice)
		if err != nil {
			t.Fatalf("GetLocation() error = %v", err)
		}
		if got.Location != rec.Location {
			t.Errorf("expected %v, got %v", rec.Location, got.Location)
		}
	})
}
