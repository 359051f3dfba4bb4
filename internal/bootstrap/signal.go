// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package bootstrap

import (
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	signalBuiltin "github.com/AccelByte/extend-tag-engine/pkg/signal/builtin"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/sirupsen/logrus"
)

// InitSignalProcessor creates a signal processor with the builtin event processors.
//
// ============================================================
// DEVELOPER: Register custom event processors here.
// ============================================================
// Event processors turn engine events (tag hits, eliminations,
// completed games, tripwires, returns) into typed signals that
// carry the player's state in the game.
//
// Steps to add a new event processor:
// 1. Emit a signal.Event with a new Type from the engine
// 2. Create the processor in pkg/signal/builtin/
// 3. Register it in pkg/signal/builtin/event_processors.go
//
// Event types without a processor still reach the rules as a
// base signal with the event data as metadata.
// ============================================================
func InitSignalProcessor(games store.GameStore, namespace string) *signal.Processor {
	processor := signal.NewProcessor(signal.NewStoreContextLoader(games, namespace))

	signalBuiltin.RegisterEventProcessors(processor.Registry())

	// ============================================================
	// DEVELOPER: Register custom event processors below
	// ============================================================
	// processor.Registry().Register(&mycustom.MyEventProcessor{})
	// ============================================================

	logrus.Infof("initialized signal processor with %d event processors", processor.Registry().Count())
	return processor
}
