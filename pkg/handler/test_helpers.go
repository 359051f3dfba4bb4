// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package handler

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/inactivity"
	"github.com/AccelByte/extend-tag-engine/pkg/lobby"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	notifymock "github.com/AccelByte/extend-tag-engine/pkg/notify/mock"
	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/AccelByte/extend-tag-engine/pkg/radar"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/signal"
	"github.com/AccelByte/extend-tag-engine/pkg/store/storetest"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
	"github.com/AccelByte/extend-tag-engine/pkg/tag"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	tripwiremock "github.com/AccelByte/extend-tag-engine/pkg/tripwire/mock"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

var testNow = time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)

type fixedStats pipeline.Stats

func (s fixedStats) GetStats() pipeline.Stats {
	return pipeline.Stats(s)
}

// setupTestEngine wires every engine component against miniredis.
func setupTestEngine(t *testing.T) *TagEngine {
	t.Helper()

	s, _ := storetest.New(t)
	clk := clock.NewFake(testNow)
	tuning := game.DefaultTuning()
	d := notify.NewDispatcher(&notifymock.Notifier{}, time.Second)
	t.Cleanup(d.Wait)

	ledger := arsenal.NewLedger(s, clk, tuning)
	strikes := strike.NewApplier(s, d, signal.Discard{}, clk, tuning)

	return NewTagEngine(Dependencies{
		Lobby:      lobby.NewService(s, clk, tuning, nil),
		SafeZones:  safezone.NewService(s, d, clk, tuning),
		Validator:  tag.NewValidator(s, s, ledger, strikes, d, clk, tuning),
		Tripwires:  tripwire.NewCoordinator(s, s, ledger, strikes, &tripwiremock.Registrar{}, d, clk, tuning),
		Radar:      radar.NewService(s, s, ledger, clk, tuning),
		Inactivity: inactivity.NewMonitor(s, s, strikes, d, signal.Discard{}, clk, tuning),
		Ledger:     ledger,
		Pipeline:   fixedStats{EventsProcessed: 4, TriggersGenerated: 1},
		Tuning:     tuning,
	})
}

// dialTestServer serves engine over an in-memory listener.
func dialTestServer(t *testing.T, engine TagEngineServer) *grpc.ClientConn {
	t.Helper()

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterTagEngineServer(srv, engine)
	go func() {
		_ = srv.Serve(lis)
	}()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		t.Fatalf("failed to dial test server: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, req map[string]interface{}) (*structpb.Struct, error) {
	t.Helper()

	in, err := structpb.NewStruct(req)
	if err != nil {
		t.Fatalf("invalid request %v: %v", req, err)
	}
	out := new(structpb.Struct)
	err = conn.Invoke(context.Background(), "/"+ServiceName+"/"+method, in, out)
	return out, err
}

func coord(c geo.Coordinate) map[string]interface{} {
	return map[string]interface{}{"lat": c.Lat, "lng": c.Lng}
}
