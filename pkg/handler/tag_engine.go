// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/inactivity"
	"github.com/AccelByte/extend-tag-engine/pkg/lobby"
	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/AccelByte/extend-tag-engine/pkg/radar"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/tag"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	"google.golang.org/protobuf/types/known/structpb"
)

// StatsReporter exposes pipeline counters.
type StatsReporter interface {
	GetStats() pipeline.Stats
}

// Dependencies are the engine components behind the API.
type Dependencies struct {
	Lobby      *lobby.Service
	SafeZones  *safezone.Service
	Validator  *tag.Validator
	Tripwires  *tripwire.Coordinator
	Radar      *radar.Service
	Inactivity *inactivity.Monitor
	Ledger     *arsenal.Ledger
	Pipeline   StatsReporter
	Tuning     game.Tuning
}

// TagEngine serves the game API.
type TagEngine struct {
	deps Dependencies
}

func NewTagEngine(deps Dependencies) *TagEngine {
	return &TagEngine{deps: deps}
}

type createGameRequest struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Title       string `json:"title"`
	TimeZone    string `json:"timeZone"`
}

type joinGameRequest struct {
	JoinCode    string `json:"joinCode"`
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
}

type gameRequest struct {
	GameID   string `json:"gameId"`
	PlayerID string `json:"playerId"`
}

type placeHomeBaseRequest struct {
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId"`
	Location geo.Coordinate `json:"location"`
}

type submitTagRequest struct {
	GameID   string         `json:"gameId"`
	PlayerID string         `json:"playerId"`
	Guess    geo.Coordinate `json:"guess"`
	Kind     game.TagKind   `json:"kind"`
}

type placeTripwireRequest struct {
	GameID   string           `json:"gameId"`
	PlayerID string           `json:"playerId"`
	Path     []geo.Coordinate `json:"path"`
}

type dismissRadarRequest struct {
	PlayerID string `json:"playerId"`
	RevealID string `json:"revealId"`
}

type recordLocationRequest struct {
	PlayerID   string         `json:"playerId"`
	Location   geo.Coordinate `json:"location"`
	RecordedAt time.Time      `json:"recordedAt"`
}

type creditArsenalRequest struct {
	PlayerID string        `json:"playerId"`
	Item     game.ItemKind `json:"item"`
	Quantity int           `json:"quantity"`
	GameIDs  []string      `json:"gameIds"`
}

// rosterEntry is what every player may see about the others.
type rosterEntry struct {
	PlayerID    string `json:"playerId"`
	DisplayName string `json:"displayName"`
	Strikes     int    `json:"strikes"`
	IsActive    bool   `json:"isActive"`
	Ready       bool   `json:"ready"`
}

// gameView hides home bases, zones and tripwires of everyone but the viewer.
type gameView struct {
	*game.Game
	Roster []rosterEntry      `json:"roster"`
	Me     *game.PlayerState `json:"me,omitempty"`
}

func newGameView(g *game.Game, viewerID string, homeBases int) *gameView {
	view := &gameView{Game: g, Roster: make([]rosterEntry, 0, len(g.PlayerIDs))}
	for _, id := range g.PlayerIDs {
		ps := g.Player(id)
		if ps == nil {
			continue
		}
		view.Roster = append(view.Roster, rosterEntry{
			PlayerID:    ps.PlayerID,
			DisplayName: ps.DisplayName,
			Strikes:     ps.Strikes,
			IsActive:    ps.IsActive,
			Ready:       ps.HomeBaseCount() >= homeBases,
		})
		if id == viewerID {
			view.Me = ps
		}
	}
	return view
}

func (h *TagEngine) CreateGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "CreateGame", in, func(scope *common.Scope, req *createGameRequest) (interface{}, error) {
		if err := required(map[string]string{"playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		g, err := h.deps.Lobby.CreateGame(scope.Ctx, req.PlayerID, req.DisplayName, req.Title, req.TimeZone)
		if err != nil {
			return nil, err
		}
		scope.Identify(g.ID, "")
		scope.Log.Infof("player %s created game %s with code %s", req.PlayerID, g.ID, g.JoinCode)
		return newGameView(g, req.PlayerID, h.deps.Tuning.HomeBases), nil
	})
}

func (h *TagEngine) JoinGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "JoinGame", in, func(scope *common.Scope, req *joinGameRequest) (interface{}, error) {
		if err := required(map[string]string{"joinCode": req.JoinCode, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		g, err := h.deps.Lobby.JoinGame(scope.Ctx, req.JoinCode, req.PlayerID, req.DisplayName)
		if err != nil {
			return nil, err
		}
		scope.Identify(g.ID, "")
		return newGameView(g, req.PlayerID, h.deps.Tuning.HomeBases), nil
	})
}

func (h *TagEngine) GetGame(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "GetGame", in, func(scope *common.Scope, req *gameRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID}); err != nil {
			return nil, err
		}
		g, err := h.deps.Lobby.GetGame(scope.Ctx, req.GameID)
		if err != nil {
			return nil, err
		}
		return newGameView(g, req.PlayerID, h.deps.Tuning.HomeBases), nil
	})
}

func (h *TagEngine) PlaceHomeBase(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "PlaceHomeBase", in, func(scope *common.Scope, req *placeHomeBaseRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		return h.deps.SafeZones.PlaceHomeBase(scope.Ctx, req.GameID, req.PlayerID, req.Location)
	})
}

func (h *TagEngine) SubmitTag(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "SubmitTag", in, func(scope *common.Scope, req *submitTagRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		if req.Kind == "" {
			req.Kind = game.TagBasic
		}
		scope.SetAttributes("tag.kind", string(req.Kind))

		result, err := h.deps.Validator.SubmitTag(scope.Ctx, req.GameID, req.PlayerID, req.Guess, req.Kind)
		if err != nil {
			return nil, err
		}
		scope.SetAttributes("tag.outcome", string(result.Outcome))
		return result, nil
	})
}

func (h *TagEngine) PlaceTripwire(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "PlaceTripwire", in, func(scope *common.Scope, req *placeTripwireRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		return h.deps.Tripwires.PlaceTripwire(scope.Ctx, req.GameID, req.PlayerID, req.Path)
	})
}

func (h *TagEngine) RegisterGeofences(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "RegisterGeofences", in, func(scope *common.Scope, req *gameRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		regions, err := h.deps.Tripwires.RegisterGeofences(scope.Ctx, req.GameID, req.PlayerID)
		if err != nil {
			return nil, err
		}
		return map[string]interface{}{"regions": regions}, nil
	})
}

// ReportGeofenceEntry is the synchronous alternative to the NATS entry subject.
func (h *TagEngine) ReportGeofenceEntry(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "ReportGeofenceEntry", in, func(scope *common.Scope, req *tripwire.TripwireTriggered) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "tripwireId": req.TripwireID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		return h.deps.Tripwires.OnGeofenceEntry(scope.Ctx, *req)
	})
}

func (h *TagEngine) RevealRadar(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "RevealRadar", in, func(scope *common.Scope, req *gameRequest) (interface{}, error) {
		if err := required(map[string]string{"gameId": req.GameID, "playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		return h.deps.Radar.Reveal(scope.Ctx, req.GameID, req.PlayerID)
	})
}

func (h *TagEngine) DismissRadar(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "DismissRadar", in, func(scope *common.Scope, req *dismissRadarRequest) (interface{}, error) {
		if err := required(map[string]string{"playerId": req.PlayerID, "revealId": req.RevealID}); err != nil {
			return nil, err
		}
		return nil, h.deps.Radar.Dismiss(req.PlayerID, req.RevealID)
	})
}

func (h *TagEngine) RecordLocation(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "RecordLocation", in, func(scope *common.Scope, req *recordLocationRequest) (interface{}, error) {
		if err := required(map[string]string{"playerId": req.PlayerID}); err != nil {
			return nil, err
		}
		return h.deps.Inactivity.RecordLocation(scope.Ctx, req.PlayerID, req.Location, req.RecordedAt)
	})
}

func (h *TagEngine) CreditArsenal(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "CreditArsenal", in, func(scope *common.Scope, req *creditArsenalRequest) (interface{}, error) {
		if err := required(map[string]string{"playerId": req.PlayerID, "item": string(req.Item)}); err != nil {
			return nil, err
		}
		credited, err := h.deps.Ledger.Credit(scope.Ctx, req.PlayerID, req.Item, req.Quantity, req.GameIDs)
		if err != nil && len(credited) == 0 {
			return nil, err
		}
		if err != nil {
			scope.Log.Warnf("partial arsenal credit for %s: %v", req.PlayerID, err)
		}
		if credited == nil {
			credited = []string{}
		}
		return map[string]interface{}{"creditedGameIds": credited}, nil
	})
}

func (h *TagEngine) GetPipelineStats(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	return handle(ctx, "GetPipelineStats", in, func(scope *common.Scope, _ *struct{}) (interface{}, error) {
		if h.deps.Pipeline == nil {
			return pipeline.Stats{}, nil
		}
		return h.deps.Pipeline.GetStats(), nil
	})
}

var _ TagEngineServer = (*TagEngine)(nil)
