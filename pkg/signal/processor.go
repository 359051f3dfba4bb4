// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package signal

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/sirupsen/logrus"
)

// StoreContextLoader loads player context from the game store.
type StoreContextLoader struct {
	games     store.GameStore
	namespace string
}

func NewStoreContextLoader(games store.GameStore, namespace string) *StoreContextLoader {
	return &StoreContextLoader{games: games, namespace: namespace}
}

// Load returns the player's context. A player that left the game, or an event
// without a game, yields a context without state.
func (l *StoreContextLoader) Load(ctx context.Context, gameID, userID string) (*PlayerContext, error) {
	pc := &PlayerContext{
		UserID:    userID,
		GameID:    gameID,
		Namespace: l.namespace,
	}
	if gameID == "" {
		return pc, nil
	}

	g, err := l.games.GetGame(ctx, gameID)
	if err != nil {
		return nil, fmt.Errorf("failed to load game %s: %w", gameID, err)
	}
	pc.Game = g
	pc.State = g.Player(userID)
	return pc, nil
}

// Processor converts engine events into signals with player context.
type Processor struct {
	loader   PlayerContextLoader
	registry *EventProcessorRegistry
}

func NewProcessor(loader PlayerContextLoader) *Processor {
	return &Processor{
		loader:   loader,
		registry: NewEventProcessorRegistry(),
	}
}

// Registry returns the event processor registry so callers can add processors.
func (p *Processor) Registry() *EventProcessorRegistry {
	return p.registry
}

// Process converts ev into a signal. Event types without a registered processor
// become a BaseSignal carrying the event data as metadata.
func (p *Processor) Process(ctx context.Context, ev Event) (Signal, error) {
	if ev.Type == "" {
		return nil, fmt.Errorf("event type is empty")
	}
	if ev.UserID == "" {
		return nil, fmt.Errorf("user ID is empty in %s event", ev.Type)
	}

	playerCtx, err := p.loader.Load(ctx, ev.GameID, ev.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load player context for user %s: %w", ev.UserID, err)
	}

	if processor := p.registry.Get(ev.Type); processor != nil {
		sig, err := processor.Process(ctx, ev, playerCtx)
		if err != nil {
			return nil, fmt.Errorf("failed to process %s event: %w", ev.Type, err)
		}
		logrus.Debugf("processed %s event for user %s in game %s", ev.Type, ev.UserID, ev.GameID)
		return sig, nil
	}

	metadata := make(map[string]interface{}, len(ev.Data)+1)
	for k, v := range ev.Data {
		metadata[k] = v
	}
	metadata["game_id"] = ev.GameID

	base := NewBaseSignal(ev.Type, ev.UserID, ev.At, metadata, playerCtx)
	logrus.Debugf("processed %s event for user %s into a base signal", ev.Type, ev.UserID)
	return &base, nil
}

var _ PlayerContextLoader = (*StoreContextLoader)(nil)

