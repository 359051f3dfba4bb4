// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package inactivity

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
	errlist "github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

var (
	errAlreadyPenalized = errors.New("already penalized for this offline period")
	errAlreadyWarned    = errors.New("already warned for this offline period")
)

// Report summarizes one sweep.
type Report struct {
	Games     int
	Warned    int
	Penalized int
}

// Monitor penalizes players who stop uploading locations. Each offline period is
// anchored on the later of the last upload and the game start, and the markers on
// the player document make sure it is warned and penalized at most once.
type Monitor struct {
	games      store.GameStore
	locations  store.LocationStore
	strikes    *strike.Applier
	dispatcher *notify.Dispatcher
	emitter    signal.Emitter
	clock      clock.Clock
	tuning     game.Tuning
}

func NewMonitor(
	games store.GameStore,
	locations store.LocationStore,
	strikes *strike.Applier,
	dispatcher *notify.Dispatcher,
	emitter signal.Emitter,
	clk clock.Clock,
	tuning game.Tuning,
) *Monitor {
	if emitter == nil {
		emitter = signal.Discard{}
	}
	return &Monitor{
		games:      games,
		locations:  locations,
		strikes:    strikes,
		dispatcher: dispatcher,
		emitter:    emitter,
		clock:      clk,
		tuning:     tuning,
	}
}

// Sweep checks every active player of every active game once.
func (m *Monitor) Sweep(ctx context.Context) (*Report, error) {
	ids, err := m.games.ActiveGameIDs(ctx)
	if err != nil {
		return nil, err
	}

	now := m.clock.Now()
	report := &Report{}
	el := errlist.NewErrorList()
	for _, id := range ids {
		if err := m.sweepGame(ctx, id, now, report); err != nil {
			el.Add(fmt.Errorf("game %s: %w", id, err))
		}
	}
	logrus.Debugf("inactivity sweep checked %d games, warned %d, penalized %d", report.Games, report.Warned, report.Penalized)
	return report, el.Err()
}

func (m *Monitor) sweepGame(ctx context.Context, gameID string, now time.Time, report *Report) error {
	g, err := m.games.GetGame(ctx, gameID)
	if err != nil {
		return err
	}
	if g.Status != game.StatusActive {
		return nil
	}
	if decided, _ := g.Decided(); decided {
		logrus.Warnf("game %s is decided but still active, completing it", g.ID)
		_, err := m.strikes.CheckCompletion(ctx, g.ID)
		return err
	}
	report.Games++

	el := errlist.NewErrorList()
	for _, playerID := range g.ActivePlayerIDs() {
		last, err := m.lastSeen(ctx, g, playerID)
		if err != nil {
			el.Add(err)
			continue
		}

		gap := now.Sub(last)
		switch {
		case gap >= m.tuning.InactivityStrike:
			penalized, completed, err := m.penalize(ctx, g, playerID, last, now)
			if err != nil {
				el.Add(err)
			}
			if penalized {
				report.Penalized++
			}
			if completed {
				return el.Err()
			}
		case gap >= m.tuning.InactivityWarn:
			warned, err := m.warn(ctx, g, playerID, last, now)
			if err != nil {
				el.Add(err)
			}
			if warned {
				report.Warned++
			}
		}
	}
	return el.Err()
}

// lastSeen is the later of the player's last upload and the game start.
func (m *Monitor) lastSeen(ctx context.Context, g *game.Game, playerID string) (time.Time, error) {
	last := g.CreatedAt
	if g.StartedAt != nil {
		last = *g.StartedAt
	}
	rec, err := m.locations.GetLocation(ctx, playerID)
	if errors.Is(err, game.ErrLocationUnavailable) {
		return last, nil
	}
	if err != nil {
		return time.Time{}, err
	}
	if rec.RecordedAt.After(last) {
		last = rec.RecordedAt
	}
	return last, nil
}

// penalize reports whether a strike was taken and whether it ended the game.
func (m *Monitor) penalize(ctx context.Context, g *game.Game, playerID string, last, now time.Time) (bool, bool, error) {
	out, err := m.strikes.Apply(ctx, strike.Request{
		GameID:   g.ID,
		TargetID: playerID,
		Source:   game.SourceInactivity,
		At:       now,
		Guard: func(ps *game.PlayerState) error {
			if ps.LastPenaltyAppliedAt != nil && !ps.LastPenaltyAppliedAt.Before(last) {
				return errAlreadyPenalized
			}
			t := now
			ps.LastPenaltyAppliedAt = &t
			return nil
		},
	})
	if errors.Is(err, errAlreadyPenalized) || errors.Is(err, game.ErrPlayerEliminated) {
		return false, false, nil
	}
	if err != nil {
		return false, false, err
	}

	metrics.InactivityActionsTotal.WithLabelValues("penalty").Inc()
	logrus.Infof("player %s penalized for inactivity in game %s, offline since %s", playerID, g.ID, last.Format(time.RFC3339))

	name := playerID
	if ps := g.Player(playerID); ps != nil && ps.DisplayName != "" {
		name = ps.DisplayName
	}
	m.dispatcher.Dispatch(ctx, coPlayers(g, playerID), notify.Notification{
		Kind:  notify.KindInactivityPenalty,
		Title: "Inactivity penalty",
		Body:  fmt.Sprintf("%s lost a strike for going dark.", name),
		Payload: map[string]interface{}{
			"gameId":     g.ID,
			"playerId":   playerID,
			"eliminated": out.Eliminated,
		},
	})
	m.emitter.Emit(ctx, signal.Event{
		Type:   signal.TypeInactivityPenalty,
		UserID: playerID,
		GameID: g.ID,
		At:     now,
		Data: map[string]interface{}{
			"offline_for": now.Sub(last),
			"eliminated":  out.Eliminated,
		},
	})
	return true, out.GameCompleted, nil
}

func (m *Monitor) warn(ctx context.Context, g *game.Game, playerID string, last, now time.Time) (bool, error) {
	_, err := m.games.UpdatePlayer(ctx, g.ID, playerID, func(ps *game.PlayerState) error {
		if ps.LastWarningAt != nil && !ps.LastWarningAt.Before(last) {
			return errAlreadyWarned
		}
		t := now
		ps.LastWarningAt = &t
		return nil
	})
	if errors.Is(err, errAlreadyWarned) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("mark warning for %s: %w", playerID, err)
	}

	metrics.InactivityActionsTotal.WithLabelValues("warning").Inc()
	remaining := m.tuning.InactivityStrike - now.Sub(last)
	m.dispatcher.Dispatch(ctx, []string{playerID}, notify.Notification{
		Kind:  notify.KindInactivityWarning,
		Title: "Are you still there?",
		Body:  fmt.Sprintf("Share your location within %d minutes to keep your strikes.", int(remaining.Minutes())),
		Payload: map[string]interface{}{
			"gameId": g.ID,
		},
	})
	return true, nil
}

// RecordLocation stores a fresh upload. When the previous upload, or the start of
// a game if the player never uploaded during it, is at least the strike threshold
// old, the co-players of that game are told the player is back.
func (m *Monitor) RecordLocation(ctx context.Context, playerID string, c geo.Coordinate, at time.Time) (*game.LocationRecord, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	if at.IsZero() {
		at = m.clock.Now()
	}

	rec := game.LocationRecord{PlayerID: playerID, Location: c, RecordedAt: at}
	prev, err := m.locations.PutLocation(ctx, rec)
	if err != nil {
		return nil, err
	}

	gameIDs, err := m.games.GamesForPlayer(ctx, playerID)
	if err != nil {
		logrus.Errorf("failed to list games of %s for return notice: %v", playerID, err)
		return &rec, nil
	}

	for _, gameID := range gameIDs {
		g, err := m.games.GetGame(ctx, gameID)
		if err != nil {
			logrus.Warnf("skip return check of %s in game %s: %v", playerID, gameID, err)
			continue
		}
		if g.Status != game.StatusActive || g.StartedAt == nil {
			continue
		}
		since := *g.StartedAt
		if prev != nil && prev.RecordedAt.After(since) {
			since = prev.RecordedAt
		}
		offline := at.Sub(since)
		if offline < m.tuning.InactivityStrike {
			continue
		}
		m.announceReturn(ctx, g, playerID, offline, at)
	}
	return &rec, nil
}

func (m *Monitor) announceReturn(ctx context.Context, g *game.Game, playerID string, offline time.Duration, at time.Time) {
	metrics.InactivityActionsTotal.WithLabelValues("returned").Inc()
	logrus.Infof("player %s returned to game %s after %s", playerID, g.ID, offline.Round(time.Minute))

	name := playerID
	if ps := g.Player(playerID); ps != nil && ps.DisplayName != "" {
		name = ps.DisplayName
	}
	m.dispatcher.Dispatch(ctx, coPlayers(g, playerID), notify.Notification{
		Kind:    notify.KindPlayerReturned,
		Title:   "Player returned",
		Body:    fmt.Sprintf("%s is back on the map.", name),
		Payload: map[string]interface{}{"gameId": g.ID, "playerId": playerID},
	})
	m.emitter.Emit(ctx, signal.Event{
		Type:   signal.TypePlayerReturned,
		UserID: playerID,
		GameID: g.ID,
		At:     at,
		Data:   map[string]interface{}{"offline_for": offline},
	})
}

// Run sweeps on every interval tick until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	interval := m.tuning.SweepInterval
	if interval <= 0 {
		interval = 30 * time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	logrus.Infof("inactivity monitor running every %s", interval)
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.Sweep(ctx); err != nil {
				logrus.Errorf("inactivity sweep failed: %v", err)
			}
		}
	}
}

func coPlayers(g *game.Game, playerID string) []string {
	var ids []string
	for _, id := range g.PlayerIDs {
		if id != playerID {
			ids = append(ids, id)
		}
	}
	return ids
}
