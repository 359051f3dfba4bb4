// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package builtin

import (
	"context"
	"fmt"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/signal"
)

// RegisterEventProcessors registers the processors for every engine event type
// that has a typed signal. inactivity_penalty falls back to a base signal.
func RegisterEventProcessors(registry *signal.EventProcessorRegistry) {
	registry.Register(&TagHitProcessor{})
	registry.Register(&EliminationProcessor{})
	registry.Register(&GameCompletedProcessor{})
	registry.Register(&TripwireProcessor{})
	registry.Register(&ReturnProcessor{})
}

type TagHitProcessor struct{}

func (p *TagHitProcessor) EventType() string { return signal.TypeTagHit }

func (p *TagHitProcessor) Process(ctx context.Context, ev signal.Event, pc *signal.PlayerContext) (signal.Signal, error) {
	targetID, err := requireString(ev, "target_id")
	if err != nil {
		return nil, err
	}
	distance, _ := ev.Data["distance"].(float64)
	return NewTagHitSignal(ev.UserID, ev.At, targetID, distance, ev.GameID, pc), nil
}

type EliminationProcessor struct{}

func (p *EliminationProcessor) EventType() string { return signal.TypePlayerEliminated }

func (p *EliminationProcessor) Process(ctx context.Context, ev signal.Event, pc *signal.PlayerContext) (signal.Signal, error) {
	by, _ := ev.Data["eliminated_by"].(string)
	source, _ := ev.Data["source"].(string)
	return NewEliminationSignal(ev.UserID, ev.At, by, source, ev.GameID, pc), nil
}

type GameCompletedProcessor struct{}

func (p *GameCompletedProcessor) EventType() string { return signal.TypeGameCompleted }

func (p *GameCompletedProcessor) Process(ctx context.Context, ev signal.Event, pc *signal.PlayerContext) (signal.Signal, error) {
	count := 0
	if pc != nil && pc.Game != nil {
		count = len(pc.Game.PlayerIDs)
	}
	return NewGameCompletedSignal(ev.UserID, ev.At, count, ev.GameID, pc), nil
}

type TripwireProcessor struct{}

func (p *TripwireProcessor) EventType() string { return signal.TypeTripwireTriggered }

func (p *TripwireProcessor) Process(ctx context.Context, ev signal.Event, pc *signal.PlayerContext) (signal.Signal, error) {
	victimID, err := requireString(ev, "victim_id")
	if err != nil {
		return nil, err
	}
	tripwireID, _ := ev.Data["tripwire_id"].(string)
	return NewTripwireSignal(ev.UserID, ev.At, victimID, tripwireID, ev.GameID, pc), nil
}

type ReturnProcessor struct{}

func (p *ReturnProcessor) EventType() string { return signal.TypePlayerReturned }

func (p *ReturnProcessor) Process(ctx context.Context, ev signal.Event, pc *signal.PlayerContext) (signal.Signal, error) {
	offline, ok := ev.Data["offline_for"].(time.Duration)
	if !ok {
		return nil, fmt.Errorf("offline_for missing from %s event", ev.Type)
	}
	return NewReturnSignal(ev.UserID, ev.At, offline, ev.GameID, pc), nil
}

func requireString(ev signal.Event, key string) (string, error) {
	v, _ := ev.Data[key].(string)
	if v == "" {
		return "", fmt.Errorf("%s missing from %s event", key, ev.Type)
	}
	return v, nil
}
