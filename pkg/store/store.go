// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package store

import (
	"context"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
)

// PlayerMutator changes a player document inside an optimistic transaction.
// It may run more than once when a conflicting write forces a retry, so it must
// derive everything from the state it is given.
type PlayerMutator func(ps *game.PlayerState) error

// GameMutator changes the game meta document. Changes to Players are not persisted.
type GameMutator func(g *game.Game) error

// GameStore is the shared source of truth for games and player states.
type GameStore interface {
	CreateGame(ctx context.Context, g *game.Game) error
	GetGame(ctx context.Context, gameID string) (*game.Game, error)
	GetGameByJoinCode(ctx context.Context, code string) (*game.Game, error)
	AddPlayer(ctx context.Context, gameID string, ps *game.PlayerState, maxPlayers int) (*game.Game, error)
	UpdatePlayer(ctx context.Context, gameID, playerID string, fn PlayerMutator) (*game.PlayerState, error)
	UpdateGame(ctx context.Context, gameID string, fn GameMutator) (*game.Game, error)
	GamesForPlayer(ctx context.Context, playerID string) ([]string, error)
	ActiveGameIDs(ctx context.Context) ([]string, error)
}

// LocationStore holds the last uploaded location per player.
type LocationStore interface {
	// GetLocation returns game.ErrLocationUnavailable when nothing was uploaded.
	GetLocation(ctx context.Context, playerID string) (*game.LocationRecord, error)
	// PutLocation stores rec and returns the record it replaced, or nil.
	PutLocation(ctx context.Context, rec game.LocationRecord) (*game.LocationRecord, error)
}
