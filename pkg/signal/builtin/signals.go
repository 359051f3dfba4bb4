// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// TagHitSignal is emitted for the tagger after a successful tag.
type TagHitSignal struct {
	signal.BaseSignal
	TargetID string
	Distance float64
}

func NewTagHitSignal(userID string, at time.Time, targetID string, distance float64, gameID string, pc *signal.PlayerContext) *TagHitSignal {
	metadata := map[string]interface{}{
		"game_id":   gameID,
		"target_id": targetID,
		"distance":  distance,
	}
	return &TagHitSignal{
		BaseSignal: signal.NewBaseSignal(signal.TypeTagHit, userID, at, metadata, pc),
		TargetID:   targetID,
		Distance:   distance,
	}
}

// EliminationSignal is emitted for the player who lost their last strike.
// EliminatedBy is empty when the strike came from inactivity.
type EliminationSignal struct {
	signal.BaseSignal
	EliminatedBy string
	Source       string
}

func NewEliminationSignal(userID string, at time.Time, eliminatedBy, source, gameID string, pc *signal.PlayerContext) *EliminationSignal {
	metadata := map[string]interface{}{
		"game_id":       gameID,
		"eliminated_by": eliminatedBy,
		"source":        source,
	}
	return &EliminationSignal{
		BaseSignal:   signal.NewBaseSignal(signal.TypePlayerEliminated, userID, at, metadata, pc),
		EliminatedBy: eliminatedBy,
		Source:       source,
	}
}

// GameCompletedSignal is emitted for the winner when a game completes.
type GameCompletedSignal struct {
	signal.BaseSignal
	PlayerCount int
}

func NewGameCompletedSignal(winnerID string, at time.Time, playerCount int, gameID string, pc *signal.PlayerContext) *GameCompletedSignal {
	metadata := map[string]interface{}{
		"game_id":      gameID,
		"player_count": playerCount,
	}
	return &GameCompletedSignal{
		BaseSignal:  signal.NewBaseSignal(signal.TypeGameCompleted, winnerID, at, metadata, pc),
		PlayerCount: playerCount,
	}
}

// TripwireSignal is emitted for the owner of a tripwire that caught someone.
type TripwireSignal struct {
	signal.BaseSignal
	VictimID   string
	TripwireID string
}

func NewTripwireSignal(ownerID string, at time.Time, victimID, tripwireID, gameID string, pc *signal.PlayerContext) *TripwireSignal {
	metadata := map[string]interface{}{
		"game_id":     gameID,
		"victim_id":   victimID,
		"tripwire_id": tripwireID,
	}
	return &TripwireSignal{
		BaseSignal: signal.NewBaseSignal(signal.TypeTripwireTriggered, ownerID, at, metadata, pc),
		VictimID:   victimID,
		TripwireID: tripwireID,
	}
}

// ReturnSignal is emitted when a player uploads a location after a long absence.
type ReturnSignal struct {
	signal.BaseSignal
	OfflineFor time.Duration
}

func NewReturnSignal(userID string, at time.Time, offlineFor time.Duration, gameID string, pc *signal.PlayerContext) *ReturnSignal {
	metadata := map[string]interface{}{
		"game_id":       gameID,
		"offline_hours": offlineFor.Hours(),
	}
	return &ReturnSignal{
		BaseSignal: signal.NewBaseSignal(signal.TypePlayerReturned, userID, at, metadata, pc),
		OfflineFor: offlineFor,
	}
}
