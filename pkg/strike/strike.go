// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package strike

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/sirupsen/logrus"
)

// Request describes one strike against a player.
type Request struct {
	GameID     string
	TargetID   string
	AttackerID string
	Source     game.HitSource
	// HitZoneAt places a permanent hit zone for the target when set.
	HitZoneAt *geo.Coordinate
	At        time.Time
	// Guard runs inside the conditional update before the strike is taken. It may
	// set markers on the target or return an error to abort the strike.
	Guard func(ps *game.PlayerState) error
}

// Outcome is the state after a strike was applied.
type Outcome struct {
	Target        *game.PlayerState
	Eliminated    bool
	GameCompleted bool
	WinnerID      string
}

// Applier removes strikes and finishes games. It is shared by tags, tripwires
// and the inactivity sweep.
type Applier struct {
	games      store.GameStore
	dispatcher *notify.Dispatcher
	emitter    signal.Emitter
	clock      clock.Clock
	tuning     game.Tuning
}

func NewApplier(games store.GameStore, dispatcher *notify.Dispatcher, emitter signal.Emitter, clk clock.Clock, tuning game.Tuning) *Applier {
	if emitter == nil {
		emitter = signal.Discard{}
	}
	return &Applier{
		games:      games,
		dispatcher: dispatcher,
		emitter:    emitter,
		clock:      clk,
		tuning:     tuning,
	}
}

// Apply removes one strike from the target in a single conditional update. A
// target that is already eliminated is rejected with game.ErrPlayerEliminated.
func (a *Applier) Apply(ctx context.Context, req Request) (*Outcome, error) {
	if req.At.IsZero() {
		req.At = a.clock.Now()
	}

	var eliminated bool
	ps, err := a.games.UpdatePlayer(ctx, req.GameID, req.TargetID, func(ps *game.PlayerState) error {
		if !ps.IsActive {
			return game.ErrPlayerEliminated
		}
		if req.Guard != nil {
			if err := req.Guard(ps); err != nil {
				return err
			}
		}
		eliminated = ps.ApplyStrike()
		if req.HitZoneAt != nil {
			ps.SafeZones = append(ps.SafeZones, safezone.NewHitZone(*req.HitZoneAt, req.At, a.tuning.HitZoneRadius))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("strike %s in game %s: %w", req.TargetID, req.GameID, err)
	}

	logrus.Infof("player %s lost a strike in game %s (%s), %d left", req.TargetID, req.GameID, req.Source, ps.Strikes)
	out := &Outcome{Target: ps, Eliminated: eliminated}

	if req.Source != game.SourceInactivity {
		a.dispatcher.Dispatch(ctx, []string{req.TargetID}, notify.Notification{
			Kind:  notify.KindTagged,
			Title: "You've been hit",
			Body:  fmt.Sprintf("You have %d strikes left.", ps.Strikes),
			Payload: map[string]interface{}{
				"gameId":  req.GameID,
				"source":  string(req.Source),
				"strikes": ps.Strikes,
			},
		})
	}
	a.emitHit(ctx, req)

	if !eliminated {
		return out, nil
	}

	// The strike is committed at this point. A failed completion check is left
	// for the next inactivity sweep to finish.
	recipients := []string{req.TargetID}
	completion, err := a.CheckCompletion(ctx, req.GameID)
	if err != nil {
		logrus.Errorf("player %s eliminated but completion of game %s not checked: %v", req.TargetID, req.GameID, err)
	} else {
		out.GameCompleted = completion.Completed
		out.WinnerID = completion.WinnerID
		recipients = completion.Game.PlayerIDs
	}

	a.dispatcher.Dispatch(ctx, recipients, notify.Notification{
		Kind:  notify.KindEliminated,
		Title: "Player eliminated",
		Body:  fmt.Sprintf("%s is out of strikes.", displayName(ps)),
		Payload: map[string]interface{}{
			"gameId":   req.GameID,
			"playerId": req.TargetID,
			"source":   string(req.Source),
		},
	})
	a.emitter.Emit(ctx, signal.Event{
		Type:   signal.TypePlayerEliminated,
		UserID: req.TargetID,
		GameID: req.GameID,
		At:     req.At,
		Data: map[string]interface{}{
			"eliminated_by": req.AttackerID,
			"source":        string(req.Source),
		},
	})
	return out, nil
}

func (a *Applier) emitHit(ctx context.Context, req Request) {
	if req.AttackerID == "" {
		return
	}
	switch req.Source {
	case game.SourceTag:
		a.emitter.Emit(ctx, signal.Event{
			Type:   signal.TypeTagHit,
			UserID: req.AttackerID,
			GameID: req.GameID,
			At:     req.At,
			Data:   map[string]interface{}{"target_id": req.TargetID},
		})
	case game.SourceTripwire:
		a.emitter.Emit(ctx, signal.Event{
			Type:   signal.TypeTripwireTriggered,
			UserID: req.AttackerID,
			GameID: req.GameID,
			At:     req.At,
			Data:   map[string]interface{}{"victim_id": req.TargetID},
		})
	}
}

// Completion reports the result of a completion check.
type Completion struct {
	Game      *game.Game
	Completed bool
	WinnerID  string
}

// CheckCompletion finishes an active game once at most one player is left. It is
// safe to call repeatedly: only the call that performs the transition reports
// Completed, and later calls leave the game untouched.
func (a *Applier) CheckCompletion(ctx context.Context, gameID string) (*Completion, error) {
	now := a.clock.Now()
	var completed bool
	var winner string

	g, err := a.games.UpdateGame(ctx, gameID, func(g *game.Game) error {
		completed, winner = false, ""
		if g.Status != game.StatusActive {
			return nil
		}
		decided, w := g.Decided()
		if !decided {
			return nil
		}
		g.Status = game.StatusCompleted
		g.EndedAt = &now
		g.WinnerID = w
		completed, winner = true, w
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("check completion of game %s: %w", gameID, err)
	}

	if !completed {
		return &Completion{Game: g}, nil
	}

	metrics.GamesCompletedTotal.Inc()
	logrus.Infof("game %s completed, winner %q", gameID, winner)

	body := "The game has ended."
	if w := g.Player(winner); w != nil {
		body = fmt.Sprintf("%s is the last one standing.", displayName(w))
	}
	a.dispatcher.Dispatch(ctx, g.PlayerIDs, notify.Notification{
		Kind:    notify.KindGameCompleted,
		Title:   "Game over",
		Body:    body,
		Payload: map[string]interface{}{"gameId": gameID, "winnerId": winner},
	})
	if winner != "" {
		a.emitter.Emit(ctx, signal.Event{
			Type:   signal.TypeGameCompleted,
			UserID: winner,
			GameID: gameID,
			At:     now,
		})
	}
	return &Completion{Game: g, Completed: true, WinnerID: winner}, nil
}

func displayName(ps *game.PlayerState) string {
	if ps.DisplayName != "" {
		return ps.DisplayName
	}
	return ps.PlayerID
}
