// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/lobby"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var origin = geo.Coordinate{Lat: -33.8688, Lng: 151.2093}

func TestTagEngine_FullRound(t *testing.T) {
	conn := dialTestServer(t, setupTestEngine(t))

	created, err := invoke(t, conn, "CreateGame", map[string]interface{}{
		"playerId":    "alice",
		"displayName": "Alice",
		"title":       "Harbour hunt",
	})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	gameID := created.Fields["id"].GetStringValue()
	code := created.Fields["joinCode"].GetStringValue()
	if gameID == "" || len(code) != 6 {
		t.Fatalf("unexpected game %v", created.AsMap())
	}

	if _, err := invoke(t, conn, "JoinGame", map[string]interface{}{"joinCode": code, "playerId": "bob", "displayName": "Bob"}); err != nil {
		t.Fatalf("JoinGame() error = %v", err)
	}

	bases := map[string][]geo.Coordinate{
		"alice": {geo.Destination(origin, 0, 2000), geo.Destination(origin, 0, 2500)},
		"bob":   {geo.Destination(origin, 90, 2000), geo.Destination(origin, 90, 2500)},
	}
	var started bool
	for _, player := range []string{"alice", "bob"} {
		for _, base := range bases[player] {
			resp, err := invoke(t, conn, "PlaceHomeBase", map[string]interface{}{
				"gameId":   gameID,
				"playerId": player,
				"location": coord(base),
			})
			if err != nil {
				t.Fatalf("PlaceHomeBase(%s) error = %v", player, err)
			}
			started = started || resp.Fields["gameStarted"].GetBoolValue()
		}
	}
	if !started {
		t.Fatal("expected the last home base to start the game")
	}

	hideout := geo.Destination(origin, 180, 1000)
	if _, err := invoke(t, conn, "RecordLocation", map[string]interface{}{"playerId": "bob", "location": coord(hideout)}); err != nil {
		t.Fatalf("RecordLocation() error = %v", err)
	}

	result, err := invoke(t, conn, "SubmitTag", map[string]interface{}{
		"gameId":   gameID,
		"playerId": "alice",
		"guess":    coord(hideout),
	})
	if err != nil {
		t.Fatalf("SubmitTag() error = %v", err)
	}
	if result.Fields["outcome"].GetStringValue() != "hit" || result.Fields["targetId"].GetStringValue() != "bob" {
		t.Errorf("expected hit on bob, got %v", result.AsMap())
	}

	view, err := invoke(t, conn, "GetGame", map[string]interface{}{"gameId": gameID, "playerId": "bob"})
	if err != nil {
		t.Fatalf("GetGame() error = %v", err)
	}
	if view.Fields["status"].GetStringValue() != "active" {
		t.Errorf("expected active game, got %v", view.Fields["status"])
	}
	me := view.Fields["me"].GetStructValue()
	if me == nil || me.Fields["strikes"].GetNumberValue() != 2 {
		t.Errorf("expected bob to see their own state with 2 strikes, got %v", view.Fields["me"])
	}
	for _, entry := range view.Fields["roster"].GetListValue().GetValues() {
		if _, leaked := entry.GetStructValue().Fields["homeBase1"]; leaked {
			t.Error("roster must not expose home bases")
		}
	}

	credited, err := invoke(t, conn, "CreditArsenal", map[string]interface{}{"playerId": "alice", "item": "radar", "quantity": 1})
	if err != nil {
		t.Fatalf("CreditArsenal() error = %v", err)
	}
	if ids := credited.Fields["creditedGameIds"].GetListValue().GetValues(); len(ids) != 1 || ids[0].GetStringValue() != gameID {
		t.Errorf("expected credit on %s, got %v", gameID, credited.AsMap())
	}

	reveal, err := invoke(t, conn, "RevealRadar", map[string]interface{}{"gameId": gameID, "playerId": "alice"})
	if err != nil {
		t.Fatalf("RevealRadar() error = %v", err)
	}
	if n := len(reveal.Fields["locations"].GetListValue().GetValues()); n != 2 {
		t.Errorf("expected two circles, got %d", n)
	}
	revealID := reveal.Fields["id"].GetStringValue()
	if _, err := invoke(t, conn, "DismissRadar", map[string]interface{}{"playerId": "alice", "revealId": revealID}); err != nil {
		t.Errorf("DismissRadar() error = %v", err)
	}

	stats, err := invoke(t, conn, "GetPipelineStats", map[string]interface{}{})
	if err != nil {
		t.Fatalf("GetPipelineStats() error = %v", err)
	}
	if stats.Fields["events_processed"].GetNumberValue() != 4 {
		t.Errorf("unexpected stats %v", stats.AsMap())
	}
}

func TestTagEngine_Rejections(t *testing.T) {
	conn := dialTestServer(t, setupTestEngine(t))

	created, err := invoke(t, conn, "CreateGame", map[string]interface{}{"playerId": "alice", "title": "rejections"})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	gameID := created.Fields["id"].GetStringValue()

	tests := []struct {
		name     string
		method   string
		req      map[string]interface{}
		expected codes.Code
	}{
		{name: "missing game id", method: "SubmitTag", req: map[string]interface{}{"playerId": "alice"}, expected: codes.InvalidArgument},
		{name: "unknown game", method: "GetGame", req: map[string]interface{}{"gameId": "nope"}, expected: codes.NotFound},
		{name: "tag before start", method: "SubmitTag", req: map[string]interface{}{"gameId": gameID, "playerId": "alice", "guess": coord(origin)}, expected: codes.FailedPrecondition},
		{name: "bad tag kind", method: "SubmitTag", req: map[string]interface{}{"gameId": gameID, "playerId": "alice", "guess": coord(origin), "kind": "huge"}, expected: codes.InvalidArgument},
		{name: "bad coordinate", method: "PlaceHomeBase", req: map[string]interface{}{"gameId": gameID, "playerId": "alice", "location": map[string]interface{}{"lat": 120.0, "lng": 0.0}}, expected: codes.InvalidArgument},
		{name: "blank title", method: "CreateGame", req: map[string]interface{}{"playerId": "bob", "title": " "}, expected: codes.InvalidArgument},
		{name: "unknown reveal", method: "DismissRadar", req: map[string]interface{}{"playerId": "alice", "revealId": "r1"}, expected: codes.NotFound},
		{name: "malformed field", method: "GetGame", req: map[string]interface{}{"gameId": 12.0}, expected: codes.InvalidArgument},
		{name: "empty tripwire", method: "PlaceTripwire", req: map[string]interface{}{"gameId": gameID, "playerId": "alice"}, expected: codes.InvalidArgument},
		{name: "bad credit quantity", method: "CreditArsenal", req: map[string]interface{}{"playerId": "alice", "item": "radar", "quantity": -1.0}, expected: codes.InvalidArgument},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := invoke(t, conn, tt.method, tt.req)
			if got := status.Code(err); got != tt.expected {
				t.Errorf("expected %s, got %s (%v)", tt.expected, got, err)
			}
		})
	}
}

func TestTagEngine_JoinFullGame(t *testing.T) {
	engine := setupTestEngine(t)
	conn := dialTestServer(t, engine)

	created, err := invoke(t, conn, "CreateGame", map[string]interface{}{"playerId": "p0", "title": "crowded"})
	if err != nil {
		t.Fatalf("CreateGame() error = %v", err)
	}
	code := created.Fields["joinCode"].GetStringValue()

	for i := 1; i < 5; i++ {
		if _, err := invoke(t, conn, "JoinGame", map[string]interface{}{"joinCode": code, "playerId": fmt.Sprintf("p%d", i)}); err != nil {
			t.Fatalf("JoinGame() #%d error = %v", i, err)
		}
	}
	_, err = invoke(t, conn, "JoinGame", map[string]interface{}{"joinCode": code, "playerId": "p5"})
	if status.Code(err) != codes.ResourceExhausted {
		t.Errorf("expected ResourceExhausted, got %v", err)
	}
}

func TestToStatus(t *testing.T) {
	tests := []struct {
		err      error
		expected codes.Code
	}{
		{err: fmt.Errorf("load: %w", game.ErrGameNotFound), expected: codes.NotFound},
		{err: game.ErrRevealNotFound, expected: codes.NotFound},
		{err: lobby.ErrInvalidTimeZone, expected: codes.InvalidArgument},
		{err: game.ErrGameNotActive, expected: codes.FailedPrecondition},
		{err: game.ErrNoRadarTarget, expected: codes.FailedPrecondition},
		{err: game.ErrGameFull, expected: codes.ResourceExhausted},
		{err: game.ErrAlreadyJoined, expected: codes.AlreadyExists},
		{err: fmt.Errorf("%w: get: timeout", game.ErrStoreUnavailable), expected: codes.Unavailable},
		{err: context.DeadlineExceeded, expected: codes.DeadlineExceeded},
		{err: status.Error(codes.PermissionDenied, "nope"), expected: codes.PermissionDenied},
		{err: errors.New("boom"), expected: codes.Internal},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			if got := toStatus(tt.err).Code(); got != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestRequired(t *testing.T) {
	err := required(map[string]string{"gameId": "", "playerId": "", "kind": "basic"})
	if !errors.Is(err, errMissingField) {
		t.Fatalf("expected missing field error, got %v", err)
	}
	if err.Error() != "missing required field: gameId, playerId" {
		t.Errorf("unexpected message %q", err.Error())
	}
	if required(map[string]string{"gameId": "g1"}) != nil {
		t.Error("expected no error when all fields are set")
	}
}
