// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package arsenal

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	errlist "github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

// ErrInvalidQuantity is returned when crediting zero or fewer units.
var ErrInvalidQuantity = errors.New("quantity must be positive")

// Draw records which pool a consumed unit came from, so a refund can return it.
type Draw struct {
	Kind  game.ItemKind `json:"kind"`
	Daily bool          `json:"daily"`
}

// Ledger consumes and credits arsenal units. Every change is a conditional update on
// the single player document.
type Ledger struct {
	games  store.GameStore
	clock  clock.Clock
	tuning game.Tuning
}

func NewLedger(games store.GameStore, clk clock.Clock, tuning game.Tuning) *Ledger {
	return &Ledger{games: games, clock: clk, tuning: tuning}
}

// ApplyDailyReset sets the free basic tags back to the cap the first time the player
// is touched on a new local date. Expired zones are pruned on the same pass.
func ApplyDailyReset(ps *game.PlayerState, now time.Time, loc *time.Location, dailyCap int) bool {
	today := game.LocalDate(now, loc)
	if ps.LastDailyResetDate == today {
		return false
	}
	ps.DailyTagsRemaining = dailyCap
	ps.LastDailyResetDate = today
	if n := safezone.PruneExpired(ps, now); n > 0 {
		logrus.Debugf("pruned %d expired zones for player %s", n, ps.PlayerID)
	}
	return true
}

// Available returns how many units of kind the player can spend right now.
func Available(ps *game.PlayerState, kind game.ItemKind) int {
	switch kind {
	case game.ItemBasicTag:
		return ps.DailyTagsRemaining + ps.Arsenal.BasicTags
	case game.ItemWideTag:
		return ps.Arsenal.WideTags
	case game.ItemRadar:
		return ps.Arsenal.Radars
	case game.ItemTripwire:
		return ps.Arsenal.Tripwires
	}
	return 0
}

// Consume takes one unit of kind from the player. It returns game.ErrOutOfTags when
// nothing is left, in which case the player document is unchanged apart from the
// daily reset.
func (l *Ledger) Consume(ctx context.Context, gameID, playerID string, kind game.ItemKind) (Draw, error) {
	if !kind.Valid() {
		return Draw{}, game.ErrInvalidItemKind
	}

	g, err := l.games.GetGame(ctx, gameID)
	if err != nil {
		return Draw{}, err
	}
	loc := g.Location()
	now := l.clock.Now()

	var draw Draw
	var empty bool
	_, err = l.games.UpdatePlayer(ctx, gameID, playerID, func(ps *game.PlayerState) error {
		draw, empty = Draw{Kind: kind}, false
		ApplyDailyReset(ps, now, loc, l.tuning.DailyFreeTags)
		empty = !take(ps, kind, &draw)
		return nil
	})
	if err != nil {
		return Draw{}, fmt.Errorf("consume %s: %w", kind, err)
	}
	if empty {
		return Draw{}, game.ErrOutOfTags
	}
	logrus.Debugf("player %s consumed %s in game %s (daily=%v)", playerID, kind, gameID, draw.Daily)
	return draw, nil
}

func take(ps *game.PlayerState, kind game.ItemKind, draw *Draw) bool {
	switch kind {
	case game.ItemBasicTag:
		if ps.DailyTagsRemaining > 0 {
			ps.DailyTagsRemaining--
			draw.Daily = true
			return true
		}
		return decrement(&ps.Arsenal.BasicTags)
	case game.ItemWideTag:
		return decrement(&ps.Arsenal.WideTags)
	case game.ItemRadar:
		return decrement(&ps.Arsenal.Radars)
	case game.ItemTripwire:
		return decrement(&ps.Arsenal.Tripwires)
	}
	return false
}

func decrement(n *int) bool {
	if *n <= 0 {
		return false
	}
	*n--
	return true
}

// Refund returns a consumed unit to the pool it came from. It is only used when the
// action the unit paid for could not be evaluated.
func (l *Ledger) Refund(ctx context.Context, gameID, playerID string, draw Draw) error {
	_, err := l.games.UpdatePlayer(ctx, gameID, playerID, func(ps *game.PlayerState) error {
		switch {
		case draw.Daily:
			if ps.DailyTagsRemaining < l.tuning.DailyFreeTags {
				ps.DailyTagsRemaining++
			}
		case draw.Kind == game.ItemBasicTag:
			ps.Arsenal.BasicTags++
		case draw.Kind == game.ItemWideTag:
			ps.Arsenal.WideTags++
		case draw.Kind == game.ItemRadar:
			ps.Arsenal.Radars++
		case draw.Kind == game.ItemTripwire:
			ps.Arsenal.Tripwires++
		default:
			return game.ErrInvalidItemKind
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("refund %s: %w", draw.Kind, err)
	}
	logrus.Infof("refunded %s to player %s in game %s", draw.Kind, playerID, gameID)
	return nil
}

// Credit adds purchased units to every listed game the player is in that has not
// completed. With no games listed, every game the player joined is credited. It
// returns the ids of the credited games; failures for individual games are collected
// and returned together.
func (l *Ledger) Credit(ctx context.Context, playerID string, kind game.ItemKind, quantity int, gameIDs []string) ([]string, error) {
	if !kind.Valid() {
		return nil, game.ErrInvalidItemKind
	}
	if quantity <= 0 {
		return nil, ErrInvalidQuantity
	}

	if len(gameIDs) == 0 {
		ids, err := l.games.GamesForPlayer(ctx, playerID)
		if err != nil {
			return nil, err
		}
		gameIDs = ids
	}

	el := errlist.NewErrorList()
	var credited []string
	for _, gameID := range gameIDs {
		g, err := l.games.GetGame(ctx, gameID)
		if err != nil {
			el.Add(fmt.Errorf("game %s: %w", gameID, err))
			continue
		}
		if g.Status == game.StatusCompleted || !g.HasPlayer(playerID) {
			continue
		}

		_, err = l.games.UpdatePlayer(ctx, gameID, playerID, func(ps *game.PlayerState) error {
			switch kind {
			case game.ItemBasicTag:
				ps.Arsenal.BasicTags += quantity
			case game.ItemWideTag:
				ps.Arsenal.WideTags += quantity
			case game.ItemRadar:
				ps.Arsenal.Radars += quantity
			case game.ItemTripwire:
				ps.Arsenal.Tripwires += quantity
			}
			return nil
		})
		if err != nil {
			el.Add(fmt.Errorf("game %s: %w", gameID, err))
			continue
		}
		credited = append(credited, gameID)
	}

	logrus.Infof("credited %d %s to player %s in %d games", quantity, kind, playerID, len(credited))
	return credited, el.Err()
}
