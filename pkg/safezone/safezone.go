// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package safezone

import (
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/google/uuid"
)

// IsProtected reports whether c lies inside any of the player's active zones at the
// given time. When several zones cover c a home base is preferred, so callers can
// report the stronger block reason.
func IsProtected(ps *game.PlayerState, c geo.Coordinate, at time.Time) (bool, *game.SafeZone) {
	if ps == nil {
		return false, nil
	}

	var match *game.SafeZone
	for i := range ps.SafeZones {
		z := ps.SafeZones[i]
		if !z.Covers(c, at) {
			continue
		}
		if z.Kind == game.ZoneHomeBase {
			return true, &z
		}
		if match == nil {
			match = &z
		}
	}
	return match != nil, match
}

// PruneExpired drops zones whose expiry has passed and returns how many were removed.
func PruneExpired(ps *game.PlayerState, at time.Time) int {
	kept := ps.SafeZones[:0]
	removed := 0
	for _, z := range ps.SafeZones {
		if z.IsActiveAt(at) {
			kept = append(kept, z)
			continue
		}
		removed++
	}
	ps.SafeZones = kept
	return removed
}

// NewHomeBase builds a permanent home base zone.
func NewHomeBase(c geo.Coordinate, now time.Time, radius float64) game.SafeZone {
	return newZone(game.ZoneHomeBase, c, now, radius, nil)
}

// NewHitZone builds the permanent zone left at a victim's location after a hit.
func NewHitZone(c geo.Coordinate, now time.Time, radius float64) game.SafeZone {
	return newZone(game.ZoneHitZone, c, now, radius, nil)
}

// NewMissZone builds the consolation zone left at a missed guess. It expires at the
// first local midnight after now in loc.
func NewMissZone(c geo.Coordinate, now time.Time, radius float64, loc *time.Location) game.SafeZone {
	expires := game.NextLocalMidnight(now, loc)
	return newZone(game.ZoneMissZone, c, now, radius, &expires)
}

func newZone(kind game.SafeZoneKind, c geo.Coordinate, now time.Time, radius float64, expires *time.Time) game.SafeZone {
	return game.SafeZone{
		ID:        uuid.NewString(),
		Location:  c,
		CreatedAt: now,
		Kind:      kind,
		ExpiresAt: expires,
		Radius:    radius,
	}
}
