// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tag

import (
	"context"
	"errors"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
	"github.com/sirupsen/logrus"
)

// Validator resolves tag submissions into Hit, Miss or Blocked.
type Validator struct {
	games      store.GameStore
	locations  store.LocationStore
	ledger     *arsenal.Ledger
	strikes    *strike.Applier
	dispatcher *notify.Dispatcher
	clock      clock.Clock
	tuning     game.Tuning
}

func NewValidator(
	games store.GameStore,
	locations store.LocationStore,
	ledger *arsenal.Ledger,
	strikes *strike.Applier,
	dispatcher *notify.Dispatcher,
	clk clock.Clock,
	tuning game.Tuning,
) *Validator {
	return &Validator{
		games:      games,
		locations:  locations,
		ledger:     ledger,
		strikes:    strikes,
		dispatcher: dispatcher,
		clock:      clk,
		tuning:     tuning,
	}
}

// protectedError aborts a strike when the target's fresh state shows it inside
// one of its own zones.
type protectedError struct {
	zone game.SafeZone
}

func (e *protectedError) Error() string {
	return fmt.Sprintf("target protected by %s zone %s", e.zone.Kind, e.zone.ID)
}

type candidate struct {
	state    *game.PlayerState
	location geo.Coordinate
	distance float64
}

// SubmitTag spends one unit of kind and resolves the guess against every active
// opponent's stored location. Errors mean the guess could not be evaluated; in
// that case the unit is returned to the submitter.
func (v *Validator) SubmitTag(ctx context.Context, gameID, submitterID string, guess geo.Coordinate, kind game.TagKind) (*game.TagResult, error) {
	start := time.Now()

	if err := guess.Validate(); err != nil {
		return nil, err
	}
	item, err := kind.Item()
	if err != nil {
		return nil, err
	}

	g, err := v.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusActive {
		return nil, game.ErrGameNotActive
	}
	submitter := g.Player(submitterID)
	if submitter == nil {
		return nil, game.ErrPlayerNotFound
	}
	if !submitter.IsActive {
		return nil, game.ErrPlayerEliminated
	}

	draw, err := v.ledger.Consume(ctx, gameID, submitterID, item)
	if errors.Is(err, game.ErrOutOfTags) {
		logrus.Infof("player %s has no %s left in game %s", submitterID, item, gameID)
		v.record(game.Blocked(game.BlockOutOfTags), start)
		return game.Blocked(game.BlockOutOfTags), nil
	}
	if err != nil {
		return nil, err
	}

	result, err := v.resolve(ctx, g, submitterID, guess, kind)
	if err != nil {
		if refundErr := v.ledger.Refund(ctx, gameID, submitterID, draw); refundErr != nil {
			logrus.Errorf("failed to refund %s to player %s after failed tag: %v", item, submitterID, refundErr)
		}
		return nil, fmt.Errorf("resolve tag in game %s: %w", gameID, err)
	}

	v.record(result, start)
	return result, nil
}

func (v *Validator) resolve(ctx context.Context, g *game.Game, submitterID string, guess geo.Coordinate, kind game.TagKind) (*game.TagResult, error) {
	now := v.clock.Now()

	candidates, err := v.candidates(ctx, g, submitterID, guess)
	if err != nil {
		return nil, err
	}
	v.warn(ctx, g.ID, candidates)

	radius := v.tuning.TagRadius(kind)
	var target *candidate
	for i := range candidates {
		c := &candidates[i]
		if c.distance > radius {
			break
		}
		if ok, zone := safezone.IsProtected(c.state, c.location, now); ok {
			logrus.Infof("tag by %s in game %s blocked by %s zone of %s", submitterID, g.ID, zone.Kind, c.state.PlayerID)
			return blockedBy(zone), nil
		}
		if target == nil {
			target = c
		}
	}

	if target != nil {
		return v.hit(ctx, g.ID, submitterID, target, now)
	}

	nearest := game.NoCandidateDistance
	if len(candidates) > 0 {
		nearest = candidates[0].distance
	}
	if err := v.placeMissZone(ctx, g, submitterID, guess, radius, now); err != nil {
		return nil, err
	}
	logrus.Infof("tag by %s in game %s missed, nearest %.0fm", submitterID, g.ID, nearest)
	return game.Miss(nearest), nil
}

// candidates returns every active opponent with a stored location, closest first.
// Equal distances are ordered by player id.
func (v *Validator) candidates(ctx context.Context, g *game.Game, submitterID string, guess geo.Coordinate) ([]candidate, error) {
	var out []candidate
	for _, op := range g.Opponents(submitterID) {
		rec, err := v.locations.GetLocation(ctx, op.PlayerID)
		if errors.Is(err, game.ErrLocationUnavailable) {
			continue
		}
		if err != nil {
			return nil, err
		}
		out = append(out, candidate{
			state:    op,
			location: rec.Location,
			distance: geo.Distance(guess, rec.Location),
		})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].distance != out[j].distance {
			return out[i].distance < out[j].distance
		}
		return out[i].state.PlayerID < out[j].state.PlayerID
	})
	return out, nil
}

func (v *Validator) warn(ctx context.Context, gameID string, candidates []candidate) {
	for _, c := range candidates {
		if c.distance > v.tuning.TagWarningRadius {
			return
		}
		v.dispatcher.Dispatch(ctx, []string{c.state.PlayerID}, notify.Notification{
			Kind:    notify.KindTagIncoming,
			Title:   "Tag incoming",
			Body:    "Someone just guessed close to you.",
			Payload: map[string]interface{}{"gameId": gameID},
		})
	}
}

func (v *Validator) hit(ctx context.Context, gameID, submitterID string, target *candidate, now time.Time) (*game.TagResult, error) {
	location := target.location
	out, err := v.strikes.Apply(ctx, strike.Request{
		GameID:     gameID,
		TargetID:   target.state.PlayerID,
		AttackerID: submitterID,
		Source:     game.SourceTag,
		HitZoneAt:  &location,
		At:         now,
		Guard: func(ps *game.PlayerState) error {
			if ok, zone := safezone.IsProtected(ps, location, now); ok {
				return &protectedError{zone: *zone}
			}
			return nil
		},
	})
	var protected *protectedError
	if errors.As(err, &protected) {
		logrus.Infof("tag by %s in game %s blocked by %s zone of %s placed meanwhile", submitterID, gameID, protected.zone.Kind, target.state.PlayerID)
		return blockedBy(&protected.zone), nil
	}
	if err != nil {
		return nil, err
	}

	logrus.Infof("tag by %s hit %s in game %s at %.0fm", submitterID, target.state.PlayerID, gameID, target.distance)
	result := game.Hit(game.SourceTag, target.state.PlayerID, location, target.distance)
	result.Eliminated = out.Eliminated
	result.GameCompleted = out.GameCompleted
	return result, nil
}

func blockedBy(zone *game.SafeZone) *game.TagResult {
	if zone.Kind == game.ZoneHomeBase {
		return game.Blocked(game.BlockHomeBase)
	}
	return game.Blocked(game.BlockSafeBase)
}

// placeMissZone gives the consolation zone to the active opponent whose nearest
// home base is closest to the guess. Live locations are not consulted.
func (v *Validator) placeMissZone(ctx context.Context, g *game.Game, submitterID string, guess geo.Coordinate, radius float64, now time.Time) error {
	var owner string
	best := math.Inf(1)
	for _, op := range g.Opponents(submitterID) {
		d, ok := op.NearestHomeBase(guess)
		if !ok {
			continue
		}
		if d < best || (d == best && op.PlayerID < owner) {
			best, owner = d, op.PlayerID
		}
	}
	if owner == "" {
		logrus.Warnf("no opponent with a home base in game %s, miss zone skipped", g.ID)
		return nil
	}

	zone := safezone.NewMissZone(guess, now, radius, g.Location())
	_, err := v.games.UpdatePlayer(ctx, g.ID, owner, func(ps *game.PlayerState) error {
		ps.SafeZones = append(ps.SafeZones, zone)
		return nil
	})
	if err != nil {
		return fmt.Errorf("place miss zone for %s: %w", owner, err)
	}
	return nil
}

func (v *Validator) record(result *game.TagResult, start time.Time) {
	metrics.TagOutcomesTotal.WithLabelValues(string(result.Outcome), string(result.BlockReason)).Inc()
	metrics.TagResolutionSeconds.Observe(time.Since(start).Seconds())
}
