// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package safezone

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/sirupsen/logrus"
)

// PlaceResult describes the state after a home base was placed.
type PlaceResult struct {
	Player      *game.PlayerState `json:"player"`
	Ready       bool              `json:"ready"`
	GameStarted bool              `json:"gameStarted"`
	Status      game.Status       `json:"status"`
}

// Service handles home base placement and the Waiting to Active promotion.
type Service struct {
	games      store.GameStore
	dispatcher *notify.Dispatcher
	clock      clock.Clock
	tuning     game.Tuning
}

func NewService(games store.GameStore, dispatcher *notify.Dispatcher, clk clock.Clock, tuning game.Tuning) *Service {
	return &Service{
		games:      games,
		dispatcher: dispatcher,
		clock:      clk,
		tuning:     tuning,
	}
}

// PlaceHomeBase appends a home base for the player. Once every player placed all of
// theirs the game becomes Active; only the placement that completes the set starts it.
func (s *Service) PlaceHomeBase(ctx context.Context, gameID, playerID string, c geo.Coordinate) (*PlaceResult, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}

	g, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusWaiting {
		return nil, game.ErrGameNotWaiting
	}
	if !g.HasPlayer(playerID) {
		return nil, game.ErrPlayerNotFound
	}

	now := s.clock.Now()
	ps, err := s.games.UpdatePlayer(ctx, gameID, playerID, func(ps *game.PlayerState) error {
		if ps.HomeBaseCount() >= s.tuning.HomeBases {
			return game.ErrHomeBasesPlaced
		}
		base := c
		if ps.HomeBase1 == nil {
			ps.HomeBase1 = &base
		} else {
			ps.HomeBase2 = &base
		}
		ps.SafeZones = append(ps.SafeZones, NewHomeBase(c, now, s.tuning.HomeBaseRadius))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("place home base: %w", err)
	}

	result := &PlaceResult{
		Player: ps,
		Ready:  ps.HomeBaseCount() == s.tuning.HomeBases,
		Status: game.StatusWaiting,
	}
	if !result.Ready {
		return result, nil
	}

	var started bool
	updated, err := s.games.UpdateGame(ctx, gameID, func(g *game.Game) error {
		started = false
		if g.Status != game.StatusWaiting || !g.AllReady(s.tuning) {
			return nil
		}
		g.Status = game.StatusActive
		g.StartedAt = &now
		started = true
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("promote game: %w", err)
	}

	result.Status = updated.Status
	result.GameStarted = started
	if started {
		logrus.Infof("game %s started with %d players", gameID, len(updated.PlayerIDs))
		s.dispatcher.Dispatch(ctx, updated.PlayerIDs, notify.Notification{
			Kind:    notify.KindGameStarted,
			Title:   "Game on",
			Body:    fmt.Sprintf("%s has started. Stay hidden.", updated.Title),
			Payload: map[string]interface{}{"gameId": gameID},
		})
	}
	return result, nil
}
