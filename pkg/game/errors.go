// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import "errors"

var (
	// ErrGameNotFound indicates the game id or join code does not resolve.
	ErrGameNotFound = errors.New("game not found")

	// ErrPlayerNotFound indicates the player is not part of the game.
	ErrPlayerNotFound = errors.New("player not found")

	// ErrOutOfTags indicates the submitter has no eligible unit.
	ErrOutOfTags = errors.New("out of tags")

	// ErrLocationUnavailable marks a candidate with no stored location. It is skipped, never surfaced.
	ErrLocationUnavailable = errors.New("location unavailable")

	// ErrStoreUnavailable wraps transient store failures that survived the retry budget.
	ErrStoreUnavailable = errors.New("store unavailable")

	// ErrGeofenceLimitExceeded is logged when tripwire regions are dropped to fit the device limit.
	ErrGeofenceLimitExceeded = errors.New("geofence limit exceeded")

	ErrGameNotWaiting   = errors.New("game is not accepting players")
	ErrGameNotActive    = errors.New("game is not active")
	ErrGameFull         = errors.New("game is full")
	ErrAlreadyJoined    = errors.New("player already joined")
	ErrHomeBasesPlaced  = errors.New("both home bases already placed")
	ErrPlayerEliminated = errors.New("player is eliminated")
	ErrTripwireNotFound = errors.New("tripwire not found")
	ErrNoRadarTarget    = errors.New("no opponent with a known location")
	ErrInvalidTagKind   = errors.New("invalid tag kind")
	ErrInvalidItemKind  = errors.New("invalid item kind")
	ErrRevealNotFound   = errors.New("radar reveal not found or expired")
	ErrJoinCodeTaken    = errors.New("join code already in use")
)
