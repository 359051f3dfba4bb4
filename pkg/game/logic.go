// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"math"
	"time"
	// game time zones must resolve in slim containers
	_ "time/tzdata"

	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/sirupsen/logrus"
)

const dateLayout = "2006-01-02"

// NewPlayerState creates the initial state for a player joining a game.
func NewPlayerState(playerID, displayName string, tuning Tuning, now time.Time, loc *time.Location) *PlayerState {
	return &PlayerState{
		PlayerID:           playerID,
		DisplayName:        displayName,
		Strikes:            tuning.StartingStrikes,
		IsActive:           tuning.StartingStrikes > 0,
		DailyTagsRemaining: tuning.DailyFreeTags,
		LastDailyResetDate: LocalDate(now, loc),
		SafeZones:          []SafeZone{},
		Tripwires:          []Tripwire{},
		JoinedAt:           now,
	}
}

// LoadLocation resolves an IANA zone name, falling back to UTC.
func LoadLocation(name string) *time.Location {
	if name == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		logrus.Warnf("unknown time zone %q, using UTC: %v", name, err)
		return time.UTC
	}
	return loc
}

// LocalDate formats t as a calendar date in loc.
func LocalDate(t time.Time, loc *time.Location) string {
	return t.In(loc).Format(dateLayout)
}

// NextLocalMidnight returns the first midnight in loc strictly after t.
func NextLocalMidnight(t time.Time, loc *time.Location) time.Time {
	y, m, d := t.In(loc).Date()
	return time.Date(y, m, d+1, 0, 0, 0, 0, loc)
}

// IsActiveAt reports whether the zone still protects at the given time.
func (z SafeZone) IsActiveAt(at time.Time) bool {
	return z.ExpiresAt == nil || at.Before(*z.ExpiresAt)
}

// Covers reports whether c lies inside an active zone.
func (z SafeZone) Covers(c geo.Coordinate, at time.Time) bool {
	return z.IsActiveAt(at) && geo.Within(z.Location, c, z.Radius)
}

// ApplyStrike removes one strike, floored at zero, and keeps IsActive in step.
// It returns true when this strike eliminated the player.
func (ps *PlayerState) ApplyStrike() bool {
	wasActive := ps.IsActive
	if ps.Strikes > 0 {
		ps.Strikes--
	}
	ps.IsActive = ps.Strikes > 0
	return wasActive && !ps.IsActive
}

// HomeBaseCount returns how many home bases the player has placed.
func (ps *PlayerState) HomeBaseCount() int {
	n := 0
	if ps.HomeBase1 != nil {
		n++
	}
	if ps.HomeBase2 != nil {
		n++
	}
	return n
}

// NearestHomeBase returns the distance from c to the closer home base.
// ok is false when no home base is placed.
func (ps *PlayerState) NearestHomeBase(c geo.Coordinate) (dist float64, ok bool) {
	dist = math.Inf(1)
	for _, hb := range []*geo.Coordinate{ps.HomeBase1, ps.HomeBase2} {
		if hb == nil {
			continue
		}
		if d := geo.Distance(*hb, c); d < dist {
			dist = d
			ok = true
		}
	}
	return dist, ok
}

// Anchor is the monitored point of a tripwire, its first path point.
func (tw Tripwire) Anchor() (geo.Coordinate, bool) {
	if len(tw.Path) == 0 {
		return geo.Coordinate{}, false
	}
	return tw.Path[0], true
}

// FindTripwire returns the index of a tripwire by id, or -1.
func (ps *PlayerState) FindTripwire(id string) int {
	for i := range ps.Tripwires {
		if ps.Tripwires[i].ID == id {
			return i
		}
	}
	return -1
}

// Location returns the game's canonical time zone.
func (g *Game) Location() *time.Location {
	return LoadLocation(g.TimeZone)
}

// Player returns a player's state or nil.
func (g *Game) Player(playerID string) *PlayerState {
	if g.Players == nil {
		return nil
	}
	return g.Players[playerID]
}

// HasPlayer reports whether playerID joined the game.
func (g *Game) HasPlayer(playerID string) bool {
	for _, id := range g.PlayerIDs {
		if id == playerID {
			return true
		}
	}
	return false
}

// ActivePlayerIDs returns active players in join order.
func (g *Game) ActivePlayerIDs() []string {
	var ids []string
	for _, id := range g.PlayerIDs {
		if ps := g.Player(id); ps != nil && ps.IsActive {
			ids = append(ids, id)
		}
	}
	return ids
}

// Opponents returns every active player other than playerID, in join order.
func (g *Game) Opponents(playerID string) []*PlayerState {
	var out []*PlayerState
	for _, id := range g.PlayerIDs {
		if id == playerID {
			continue
		}
		if ps := g.Player(id); ps != nil && ps.IsActive {
			out = append(out, ps)
		}
	}
	return out
}

// AllReady reports whether the game has enough players and each placed every home base.
func (g *Game) AllReady(tuning Tuning) bool {
	if len(g.PlayerIDs) < tuning.MinPlayers {
		return false
	}
	for _, id := range g.PlayerIDs {
		ps := g.Player(id)
		if ps == nil || ps.HomeBaseCount() != tuning.HomeBases {
			return false
		}
	}
	return true
}

// Decided reports whether at most one player remains active, and who that is.
func (g *Game) Decided() (bool, string) {
	active := g.ActivePlayerIDs()
	switch len(active) {
	case 0:
		return true, ""
	case 1:
		return true, active[0]
	}
	return false, ""
}
