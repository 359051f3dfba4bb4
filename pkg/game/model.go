// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import (
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/geo"
)

// Status is the lifecycle state of a game.
type Status string

const (
	StatusWaiting   Status = "waiting"
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
)

// Game is the shared document for one match.
// Players is loaded alongside the meta document but persisted per player.
type Game struct {
	ID        string                  `json:"id"`
	Title     string                  `json:"title"`
	JoinCode  string                  `json:"joinCode"`
	CreatorID string                  `json:"creatorId"`
	Status    Status                  `json:"status"`
	TimeZone  string                  `json:"timeZone"`
	CreatedAt time.Time               `json:"createdAt"`
	StartedAt *time.Time              `json:"startedAt,omitempty"`
	EndedAt   *time.Time              `json:"endedAt,omitempty"`
	WinnerID  string                  `json:"winnerId,omitempty"`
	PlayerIDs []string                `json:"playerIds"`
	Players   map[string]*PlayerState `json:"-"`
}

// SafeZoneKind distinguishes player-chosen bases from zones created by play.
type SafeZoneKind string

const (
	ZoneHomeBase SafeZoneKind = "home_base"
	ZoneHitZone  SafeZoneKind = "hit_zone"
	ZoneMissZone SafeZoneKind = "miss_zone"
)

// SafeZone protects its owner while the zone is active.
type SafeZone struct {
	ID        string         `json:"id"`
	Location  geo.Coordinate `json:"location"`
	CreatedAt time.Time      `json:"createdAt"`
	Kind      SafeZoneKind   `json:"kind"`
	ExpiresAt *time.Time     `json:"expiresAt,omitempty"`
	Radius    float64        `json:"radius"`
}

// Tripwire is a single-use trap. Only the first path point is monitored.
type Tripwire struct {
	ID          string           `json:"id"`
	OwnerID     string           `json:"ownerId"`
	Path        []geo.Coordinate `json:"path"`
	PlacedAt    time.Time        `json:"placedAt"`
	TriggeredBy string           `json:"triggeredBy,omitempty"`
	TriggeredAt *time.Time       `json:"triggeredAt,omitempty"`
}

// Arsenal holds purchased units. Free daily basic tags live on PlayerState.
type Arsenal struct {
	BasicTags int `json:"basicTags"`
	WideTags  int `json:"wideTags"`
	Radars    int `json:"radars"`
	Tripwires int `json:"tripwires"`
}

// PlayerState is one player's view of a game, stored as its own document.
type PlayerState struct {
	PlayerID             string          `json:"playerId"`
	DisplayName          string          `json:"displayName"`
	Strikes              int             `json:"strikes"`
	IsActive             bool            `json:"isActive"`
	DailyTagsRemaining   int             `json:"dailyTagsRemaining"`
	LastDailyResetDate   string          `json:"lastDailyResetDate"`
	HomeBase1            *geo.Coordinate `json:"homeBase1,omitempty"`
	HomeBase2            *geo.Coordinate `json:"homeBase2,omitempty"`
	SafeZones            []SafeZone      `json:"safeZones"`
	Tripwires            []Tripwire      `json:"tripwires"`
	Arsenal              Arsenal         `json:"arsenal"`
	JoinedAt             time.Time       `json:"joinedAt"`
	LastPenaltyAppliedAt *time.Time      `json:"lastPenaltyAppliedAt,omitempty"`
	LastWarningAt        *time.Time      `json:"lastWarningAt,omitempty"`
}

// LocationRecord is the last server-stored upload for a player.
type LocationRecord struct {
	PlayerID   string         `json:"playerId"`
	Location   geo.Coordinate `json:"location"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// TagKind selects the radius of a tag submission.
type TagKind string

const (
	TagBasic TagKind = "basic"
	TagWide  TagKind = "wide"
)

// ItemKind identifies a consumable in the arsenal.
type ItemKind string

const (
	ItemBasicTag ItemKind = "basic_tag"
	ItemWideTag  ItemKind = "wide_tag"
	ItemRadar    ItemKind = "radar"
	ItemTripwire ItemKind = "tripwire"
)

// Item maps a tag kind to the arsenal unit it consumes.
func (k TagKind) Item() (ItemKind, error) {
	switch k {
	case TagBasic:
		return ItemBasicTag, nil
	case TagWide:
		return ItemWideTag, nil
	}
	return "", ErrInvalidTagKind
}

// Valid reports whether k names a known item.
func (k ItemKind) Valid() bool {
	switch k {
	case ItemBasicTag, ItemWideTag, ItemRadar, ItemTripwire:
		return true
	}
	return false
}
