// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package lobby

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	joinCodeLength   = 6
	joinCodeAlphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"
	joinCodeAttempts = 5
)

var (
	ErrTitleRequired   = errors.New("game title is required")
	ErrInvalidTimeZone = errors.New("invalid time zone")
)

// CodeGenerator returns a new candidate join code.
type CodeGenerator func() (string, error)

// RandomCode draws a join code from an alphabet without look-alike characters.
func RandomCode() (string, error) {
	var sb strings.Builder
	size := big.NewInt(int64(len(joinCodeAlphabet)))
	for i := 0; i < joinCodeLength; i++ {
		n, err := rand.Int(rand.Reader, size)
		if err != nil {
			return "", fmt.Errorf("failed to generate join code: %w", err)
		}
		sb.WriteByte(joinCodeAlphabet[n.Int64()])
	}
	return sb.String(), nil
}

// Service creates and joins games.
type Service struct {
	games  store.GameStore
	clock  clock.Clock
	tuning game.Tuning
	codes  CodeGenerator
}

func NewService(games store.GameStore, clk clock.Clock, tuning game.Tuning, codes CodeGenerator) *Service {
	if codes == nil {
		codes = RandomCode
	}
	return &Service{games: games, clock: clk, tuning: tuning, codes: codes}
}

// CreateGame opens a waiting game with the creator as its first player. The
// time zone decides when daily allowances reset and miss zones expire.
func (s *Service) CreateGame(ctx context.Context, creatorID, displayName, title, timeZone string) (*game.Game, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, ErrTitleRequired
	}
	if timeZone == "" {
		timeZone = s.tuning.DefaultTimeZone
	}
	loc, err := time.LoadLocation(timeZone)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrInvalidTimeZone, timeZone)
	}

	now := s.clock.Now()
	creator := game.NewPlayerState(creatorID, displayName, s.tuning, now, loc)

	for attempt := 1; attempt <= joinCodeAttempts; attempt++ {
		code, err := s.codes()
		if err != nil {
			return nil, err
		}
		g := &game.Game{
			ID:        uuid.NewString(),
			Title:     title,
			JoinCode:  code,
			CreatorID: creatorID,
			Status:    game.StatusWaiting,
			TimeZone:  timeZone,
			CreatedAt: now,
			PlayerIDs: []string{creatorID},
			Players:   map[string]*game.PlayerState{creatorID: creator},
		}

		err = s.games.CreateGame(ctx, g)
		if errors.Is(err, game.ErrJoinCodeTaken) {
			logrus.Warnf("join code collision on attempt %d, retrying", attempt)
			continue
		}
		if err != nil {
			return nil, err
		}
		return g, nil
	}
	return nil, fmt.Errorf("%w: gave up after %d attempts", game.ErrJoinCodeTaken, joinCodeAttempts)
}

// JoinGame adds a player to a waiting game that is not full.
func (s *Service) JoinGame(ctx context.Context, code, playerID, displayName string) (*game.Game, error) {
	g, err := s.games.GetGameByJoinCode(ctx, strings.ToUpper(strings.TrimSpace(code)))
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusWaiting {
		return nil, game.ErrGameNotWaiting
	}

	ps := game.NewPlayerState(playerID, displayName, s.tuning, s.clock.Now(), g.Location())
	return s.games.AddPlayer(ctx, g.ID, ps, s.tuning.MaxPlayers)
}

func (s *Service) GetGame(ctx context.Context, gameID string) (*game.Game, error) {
	return s.games.GetGame(ctx, gameID)
}
