// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package signal

import (
	"context"
	"time"
)

// Event types reported by the engine after a state change.
const (
	TypeTagHit            = "tag_hit"
	TypePlayerEliminated  = "player_eliminated"
	TypeGameCompleted     = "game_completed"
	TypeTripwireTriggered = "tripwire_triggered"
	TypePlayerReturned    = "player_returned"
	TypeInactivityPenalty = "inactivity_penalty"
)

// Event is the raw fact an engine component reports. The Processor turns it into
// a Signal by attaching player context.
type Event struct {
	Type   string
	UserID string
	GameID string
	At     time.Time
	Data   map[string]interface{}
}

// Emitter accepts engine events. Emit must not block on downstream work.
type Emitter interface {
	Emit(ctx context.Context, ev Event)
}

// Discard is an Emitter that drops everything.
type Discard struct{}

func (Discard) Emit(context.Context, Event) {}
