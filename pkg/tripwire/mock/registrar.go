// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package mock

import (
	"context"
	"sync"

	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
)

// Registrar is a mock implementation of tripwire.GeofenceRegistrar
type Registrar struct {
	RegisterFunc func(ctx context.Context, playerID string, regions []tripwire.Region) error

	mu         sync.Mutex
	registered map[string][]tripwire.Region
}

func (m *Registrar) Register(ctx context.Context, playerID string, regions []tripwire.Region) error {
	if m.RegisterFunc != nil {
		if err := m.RegisterFunc(ctx, playerID, regions); err != nil {
			return err
		}
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.registered == nil {
		m.registered = make(map[string][]tripwire.Region)
	}
	m.registered[playerID] = regions
	return nil
}

// Regions returns the last set registered for a player
func (m *Registrar) Regions(playerID string) []tripwire.Region {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.registered[playerID]
}
