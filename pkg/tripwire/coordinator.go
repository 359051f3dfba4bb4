// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package tripwire

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/metrics"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ErrEmptyPath is returned when a tripwire is placed without any points.
var ErrEmptyPath = errors.New("tripwire path is empty")

// Region is one circular area a device should monitor.
type Region struct {
	TripwireID string         `json:"tripwireId"`
	GameID     string         `json:"gameId"`
	Center     geo.Coordinate `json:"center"`
	Radius     float64        `json:"radius"`
}

// GeofenceRegistrar hands monitoring regions to a player's device. Each call
// replaces the previous set for that player.
type GeofenceRegistrar interface {
	Register(ctx context.Context, playerID string, regions []Region) error
}

// TripwireTriggered is reported by a device when it enters a monitored region.
type TripwireTriggered struct {
	GameID     string         `json:"gameId"`
	TripwireID string         `json:"tripwireId"`
	PlayerID   string         `json:"playerId"`
	Location   geo.Coordinate `json:"location"`
	At         time.Time      `json:"at"`
}

// Coordinator places tripwires and turns geofence entries into hits.
type Coordinator struct {
	games      store.GameStore
	locations  store.LocationStore
	ledger     *arsenal.Ledger
	strikes    *strike.Applier
	registrar  GeofenceRegistrar
	dispatcher *notify.Dispatcher
	clock      clock.Clock
	tuning     game.Tuning
}

func NewCoordinator(
	games store.GameStore,
	locations store.LocationStore,
	ledger *arsenal.Ledger,
	strikes *strike.Applier,
	registrar GeofenceRegistrar,
	dispatcher *notify.Dispatcher,
	clk clock.Clock,
	tuning game.Tuning,
) *Coordinator {
	return &Coordinator{
		games:      games,
		locations:  locations,
		ledger:     ledger,
		strikes:    strikes,
		registrar:  registrar,
		dispatcher: dispatcher,
		clock:      clk,
		tuning:     tuning,
	}
}

// PlaceTripwire spends one tripwire unit and stores the trap on the owner.
func (c *Coordinator) PlaceTripwire(ctx context.Context, gameID, ownerID string, path []geo.Coordinate) (*game.Tripwire, error) {
	if len(path) == 0 {
		return nil, ErrEmptyPath
	}
	for _, p := range path {
		if err := p.Validate(); err != nil {
			return nil, err
		}
	}

	g, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusActive {
		return nil, game.ErrGameNotActive
	}
	owner := g.Player(ownerID)
	if owner == nil {
		return nil, game.ErrPlayerNotFound
	}
	if !owner.IsActive {
		return nil, game.ErrPlayerEliminated
	}

	draw, err := c.ledger.Consume(ctx, gameID, ownerID, game.ItemTripwire)
	if err != nil {
		return nil, err
	}

	tw := game.Tripwire{
		ID:       uuid.NewString(),
		OwnerID:  ownerID,
		Path:     append([]geo.Coordinate(nil), path...),
		PlacedAt: c.clock.Now(),
	}
	_, err = c.games.UpdatePlayer(ctx, gameID, ownerID, func(ps *game.PlayerState) error {
		ps.Tripwires = append(ps.Tripwires, tw)
		return nil
	})
	if err != nil {
		if refundErr := c.ledger.Refund(ctx, gameID, ownerID, draw); refundErr != nil {
			logrus.Errorf("failed to refund tripwire to player %s: %v", ownerID, refundErr)
		}
		return nil, fmt.Errorf("place tripwire: %w", err)
	}

	logrus.Infof("player %s placed tripwire %s in game %s", ownerID, tw.ID, gameID)
	return &tw, nil
}

// RegisterGeofences builds the regions the viewer's device should monitor and
// hands them to the registrar. When more tripwires exist than the device can
// watch, the nearest ones to the viewer's stored location are kept.
func (c *Coordinator) RegisterGeofences(ctx context.Context, gameID, viewerID string) ([]Region, error) {
	g, err := c.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, err
	}
	if !g.HasPlayer(viewerID) {
		return nil, game.ErrPlayerNotFound
	}
	if g.Status != game.StatusActive {
		return []Region{}, c.registrar.Register(ctx, viewerID, []Region{})
	}

	var viewer *geo.Coordinate
	rec, err := c.locations.GetLocation(ctx, viewerID)
	switch {
	case err == nil:
		viewer = &rec.Location
	case !errors.Is(err, game.ErrLocationUnavailable):
		return nil, err
	}

	type entry struct {
		region   Region
		distance float64
		placedAt time.Time
	}
	var entries []entry
	for _, op := range g.Opponents(viewerID) {
		for _, tw := range op.Tripwires {
			if tw.TriggeredAt != nil {
				continue
			}
			anchor, ok := tw.Anchor()
			if !ok {
				continue
			}
			e := entry{
				region:   Region{TripwireID: tw.ID, GameID: gameID, Center: anchor, Radius: c.tuning.TripwireRadius},
				placedAt: tw.PlacedAt,
			}
			if viewer != nil {
				e.distance = geo.Distance(*viewer, anchor)
			}
			entries = append(entries, e)
		}
	}

	// without a viewer location every distance is zero and the newest traps win
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].distance != entries[j].distance {
			return entries[i].distance < entries[j].distance
		}
		return entries[i].placedAt.After(entries[j].placedAt)
	})

	if limit := c.tuning.GeofenceLimit; limit > 0 && len(entries) > limit {
		dropped := len(entries) - limit
		logrus.Warnf("%v: %d tripwires not monitored for player %s in game %s", game.ErrGeofenceLimitExceeded, dropped, viewerID, gameID)
		metrics.GeofenceRegionsDroppedTotal.Add(float64(dropped))
		entries = entries[:limit]
	}

	regions := make([]Region, 0, len(entries))
	for _, e := range entries {
		regions = append(regions, e.region)
	}
	if err := c.registrar.Register(ctx, viewerID, regions); err != nil {
		return nil, fmt.Errorf("register geofences for %s: %w", viewerID, err)
	}
	return regions, nil
}

// OnGeofenceEntry treats a region entry as a confirmed hit on the entering
// player. The tripwire is removed from its owner before the strike is applied,
// so a redelivered entry fails with game.ErrTripwireNotFound.
func (c *Coordinator) OnGeofenceEntry(ctx context.Context, ev TripwireTriggered) (*game.TagResult, error) {
	if ev.At.IsZero() {
		ev.At = c.clock.Now()
	}
	if err := ev.Location.Validate(); err != nil {
		return nil, err
	}

	g, err := c.games.GetGame(ctx, ev.GameID)
	if err != nil {
		return nil, err
	}
	if g.Status != game.StatusActive {
		return nil, game.ErrGameNotActive
	}
	victim := g.Player(ev.PlayerID)
	if victim == nil {
		return nil, game.ErrPlayerNotFound
	}
	if !victim.IsActive {
		return nil, game.ErrPlayerEliminated
	}

	ownerID := ""
	for _, id := range g.PlayerIDs {
		if ps := g.Player(id); ps != nil && ps.FindTripwire(ev.TripwireID) >= 0 {
			ownerID = id
			break
		}
	}
	if ownerID == "" || ownerID == ev.PlayerID {
		metrics.TripwireTriggersTotal.WithLabelValues("not_found").Inc()
		return nil, game.ErrTripwireNotFound
	}

	var removed game.Tripwire
	_, err = c.games.UpdatePlayer(ctx, ev.GameID, ownerID, func(ps *game.PlayerState) error {
		i := ps.FindTripwire(ev.TripwireID)
		if i < 0 {
			return game.ErrTripwireNotFound
		}
		removed = ps.Tripwires[i]
		ps.Tripwires = append(ps.Tripwires[:i], ps.Tripwires[i+1:]...)
		return nil
	})
	if errors.Is(err, game.ErrTripwireNotFound) {
		metrics.TripwireTriggersTotal.WithLabelValues("not_found").Inc()
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("remove tripwire %s: %w", ev.TripwireID, err)
	}

	location := ev.Location
	out, err := c.strikes.Apply(ctx, strike.Request{
		GameID:     ev.GameID,
		TargetID:   ev.PlayerID,
		AttackerID: ownerID,
		Source:     game.SourceTripwire,
		HitZoneAt:  &location,
		At:         ev.At,
	})
	if err != nil {
		metrics.TripwireTriggersTotal.WithLabelValues("failed").Inc()
		c.restoreTripwire(ctx, ev.GameID, ownerID, removed)
		return nil, err
	}
	metrics.TripwireTriggersTotal.WithLabelValues("hit").Inc()

	c.dispatcher.Dispatch(ctx, []string{ownerID}, notify.Notification{
		Kind:  notify.KindTripwireTriggered,
		Title: "Tripwire sprung",
		Body:  fmt.Sprintf("%s walked into your tripwire.", victim.DisplayName),
		Payload: map[string]interface{}{
			"gameId":     ev.GameID,
			"tripwireId": ev.TripwireID,
			"playerId":   ev.PlayerID,
		},
	})
	logrus.Infof("tripwire %s of %s hit %s in game %s", ev.TripwireID, ownerID, ev.PlayerID, ev.GameID)

	result := game.Hit(game.SourceTripwire, ev.PlayerID, location, 0)
	result.Eliminated = out.Eliminated
	result.GameCompleted = out.GameCompleted
	return result, nil
}

// restoreTripwire hands a tripwire back to its owner after the strike it was
// removed for could not be applied, so a redelivered entry can trigger it again.
func (c *Coordinator) restoreTripwire(ctx context.Context, gameID, ownerID string, tw game.Tripwire) {
	_, err := c.games.UpdatePlayer(ctx, gameID, ownerID, func(ps *game.PlayerState) error {
		if ps.FindTripwire(tw.ID) < 0 {
			ps.Tripwires = append(ps.Tripwires, tw)
		}
		return nil
	})
	if err != nil {
		logrus.Errorf("failed to restore tripwire %s to %s in game %s: %v", tw.ID, ownerID, gameID, err)
		return
	}
	logrus.Warnf("tripwire %s restored to %s in game %s", tw.ID, ownerID, gameID)
}

// Run handles entries from the stream until ctx is cancelled or the stream closes.
func (c *Coordinator) Run(ctx context.Context, entries <-chan TripwireTriggered) {
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-entries:
			if !ok {
				return
			}
			if _, err := c.OnGeofenceEntry(ctx, ev); err != nil {
				logrus.Warnf("geofence entry %s by %s in game %s: %v", ev.TripwireID, ev.PlayerID, ev.GameID, err)
			}
		}
	}
}

// LogRegistrar logs geofence sets instead of delivering them. Used when no
// device transport is configured.
type LogRegistrar struct{}

func (LogRegistrar) Register(ctx context.Context, playerID string, regions []Region) error {
	logrus.WithFields(logrus.Fields{
		"playerId": playerID,
		"regions":  len(regions),
	}).Info("geofence registration")
	return nil
}
