// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package storetest

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
)

// Faulty wraps a GameStore and fails selected writes until Heal is called.
type Faulty struct {
	store.GameStore

	mu         sync.Mutex
	playerErrs map[string]error
	gameErr    error
}

func NewFaulty(s store.GameStore) *Faulty {
	return &Faulty{GameStore: s, playerErrs: map[string]error{}}
}

// FailPlayer makes UpdatePlayer on playerID return err.
func (f *Faulty) FailPlayer(playerID string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerErrs[playerID] = err
}

// FailGame makes UpdateGame return err.
func (f *Faulty) FailGame(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gameErr = err
}

func (f *Faulty) Heal() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.playerErrs = map[string]error{}
	f.gameErr = nil
}

func (f *Faulty) UpdatePlayer(ctx context.Context, gameID, playerID string, fn store.PlayerMutator) (*game.PlayerState, error) {
	f.mu.Lock()
	err := f.playerErrs[playerID]
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.GameStore.UpdatePlayer(ctx, gameID, playerID, fn)
}

func (f *Faulty) UpdateGame(ctx context.Context, gameID string, fn store.GameMutator) (*game.Game, error) {
	f.mu.Lock()
	err := f.gameErr
	f.mu.Unlock()
	if err != nil {
		return nil, err
	}
	return f.GameStore.UpdateGame(ctx, gameID, fn)
}
