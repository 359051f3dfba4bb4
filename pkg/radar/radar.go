// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package radar

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"sync"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/sirupsen/logrus"
)

// Reveal is an ephemeral radar result. One of the two locations is the target's
// stored position and the other a decoy; their order carries no meaning.
type Reveal struct {
	ID          string           `json:"id"`
	GameID      string           `json:"gameId"`
	RequesterID string           `json:"requesterId"`
	TargetName  string           `json:"targetName"`
	Locations   []geo.Coordinate `json:"locations"`
	Radius      float64          `json:"radius"`
	ExpiresAt   time.Time        `json:"expiresAt"`
}

type Option func(*Service)

// WithRand replaces the random source used for target and decoy selection.
func WithRand(r *rand.Rand) Option {
	return func(s *Service) {
		s.rng = r
	}
}

// Service hands out radar reveals and keeps them in memory until they expire.
type Service struct {
	games     store.GameStore
	locations store.LocationStore
	ledger    *arsenal.Ledger
	clock     clock.Clock
	tuning    game.Tuning
	reveals   *cache.Cache

	mu  sync.Mutex
	rng *rand.Rand
}

func NewService(games store.GameStore, locations store.LocationStore, ledger *arsenal.Ledger, clk clock.Clock, tuning game.Tuning, opts ...Option) *Service {
	s := &Service{
		games:     games,
		locations: locations,
		ledger:    ledger,
		clock:     clk,
		tuning:    tuning,
		reveals:   cache.New(tuning.RadarRevealTTL, time.Minute),
		rng:       rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type target struct {
	state    *game.PlayerState
	location geo.Coordinate
}

// Reveal spends one radar and discloses a random active opponent. When no
// opponent has uploaded a location the radar is refunded and
// game.ErrNoRadarTarget is returned.
func (s *Service) Reveal(ctx context.Context, gameID, requesterID string) (*Reveal, error) {
	g, err := s.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusActive {
		return nil, game.ErrGameNotActive
	}
	requester := g.Player(requesterID)
	if requester == nil {
		return nil, game.ErrPlayerNotFound
	}
	if !requester.IsActive {
		return nil, game.ErrPlayerEliminated
	}

	draw, err := s.ledger.Consume(ctx, gameID, requesterID, game.ItemRadar)
	if err != nil {
		return nil, err
	}

	targets, err := s.targets(ctx, g, requesterID)
	if err == nil && len(targets) == 0 {
		err = game.ErrNoRadarTarget
	}
	if err != nil {
		if refundErr := s.ledger.Refund(ctx, gameID, requesterID, draw); refundErr != nil {
			logrus.Errorf("failed to refund radar to player %s: %v", requesterID, refundErr)
		}
		if errors.Is(err, game.ErrNoRadarTarget) {
			metrics.RadarRevealsTotal.WithLabelValues("no_target").Inc()
		}
		return nil, err
	}

	now := s.clock.Now()
	reveal := &Reveal{
		ID:          uuid.NewString(),
		GameID:      gameID,
		RequesterID: requesterID,
		Radius:      s.tuning.RadarRadius,
		ExpiresAt:   now.Add(s.tuning.RadarRevealTTL),
	}

	s.mu.Lock()
	picked := targets[s.rng.Intn(len(targets))]
	bearing := s.rng.Float64() * 360
	distance := s.tuning.RadarDecoyMin + s.rng.Float64()*(s.tuning.RadarDecoyMax-s.tuning.RadarDecoyMin)
	swap := s.rng.Intn(2) == 1
	s.mu.Unlock()

	decoy := geo.Destination(picked.location, bearing, distance)
	reveal.Locations = []geo.Coordinate{picked.location, decoy}
	if swap {
		reveal.Locations[0], reveal.Locations[1] = reveal.Locations[1], reveal.Locations[0]
	}
	reveal.TargetName = picked.state.DisplayName
	if reveal.TargetName == "" {
		reveal.TargetName = picked.state.PlayerID
	}

	s.reveals.Set(reveal.ID, reveal, s.tuning.RadarRevealTTL)
	metrics.RadarRevealsTotal.WithLabelValues("revealed").Inc()
	logrus.Infof("player %s revealed %s in game %s", requesterID, picked.state.PlayerID, gameID)
	return reveal, nil
}

func (s *Service) targets(ctx context.Context, g *game.Game, requesterID string) ([]target, error) {
	var out []target
	for _, op := range g.Opponents(requesterID) {
		rec, err := s.locations.GetLocation(ctx, op.PlayerID)
		if errors.Is(err, game.ErrLocationUnavailable) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("load location of %s: %w", op.PlayerID, err)
		}
		out = append(out, target{state: op, location: rec.Location})
	}
	return out, nil
}

// Get returns a reveal that has not expired or been dismissed.
func (s *Service) Get(requesterID, revealID string) (*Reveal, error) {
	v, ok := s.reveals.Get(revealID)
	if !ok {
		return nil, game.ErrRevealNotFound
	}
	reveal := v.(*Reveal)
	if reveal.RequesterID != requesterID {
		return nil, game.ErrRevealNotFound
	}
	if !s.clock.Now().Before(reveal.ExpiresAt) {
		s.reveals.Delete(revealID)
		return nil, game.ErrRevealNotFound
	}
	return reveal, nil
}

// Dismiss invalidates a reveal before it expires.
func (s *Service) Dismiss(requesterID, revealID string) error {
	if _, err := s.Get(requesterID, revealID); err != nil {
		return err
	}
	s.reveals.Delete(revealID)
	return nil
}
