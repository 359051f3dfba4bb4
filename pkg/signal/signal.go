// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package signal

import (
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
)

// Signal is a normalized game event with the player context rules evaluate against.
// Signals are produced by the Processor from engine events and consumed by the
// rule engine.
type Signal interface {
	// Type returns the signal type identifier (e.g., "tag_hit", "game_completed").
	Type() string

	// UserID returns the player the signal is about.
	UserID() string

	// Timestamp returns when the underlying event happened.
	Timestamp() time.Time

	// Metadata returns signal-specific data so rules can read it without type assertions.
	Metadata() map[string]interface{}

	// Context returns the player and game the signal belongs to.
	Context() *PlayerContext
}

// PlayerContext is the player's state in the game the signal came from.
type PlayerContext struct {
	UserID    string
	GameID    string
	Namespace string
	Game      *game.Game
	State     *game.PlayerState
}

// BaseSignal implements Signal and is embedded by the typed builtin signals.
type BaseSignal struct {
	signalType string
	userID     string
	timestamp  time.Time
	metadata   map[string]interface{}
	context    *PlayerContext
}

// NewBaseSignal creates a signal. A nil metadata map is replaced with an empty one.
func NewBaseSignal(signalType, userID string, timestamp time.Time, metadata map[string]interface{}, context *PlayerContext) BaseSignal {
	if metadata == nil {
		metadata = make(map[string]interface{})
	}
	return BaseSignal{
		signalType: signalType,
		userID:     userID,
		timestamp:  timestamp,
		metadata:   metadata,
		context:    context,
	}
}

func (s *BaseSignal) Type() string                     { return s.signalType }
func (s *BaseSignal) UserID() string                   { return s.userID }
func (s *BaseSignal) Timestamp() time.Time             { return s.timestamp }
func (s *BaseSignal) Metadata() map[string]interface{} { return s.metadata }
func (s *BaseSignal) Context() *PlayerContext          { return s.context }
