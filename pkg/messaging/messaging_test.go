// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package messaging

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	"github.com/pixil98/go-testutil"
)

func startServer(t *testing.T) *Client {
	t.Helper()
	srv, err := NewNatsServer(WithPort(-1), WithStartTimeout(5*time.Second))
	if err != nil {
		t.Fatalf("NewNatsServer() error = %v", err)
	}
	if err := srv.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	t.Cleanup(srv.Shutdown)

	c, err := Connect(srv.ClientURL(), "messaging-test")
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

// collect subscribes to subject and returns a channel of raw payloads.
func collect(t *testing.T, c *Client, subject string) <-chan []byte {
	t.Helper()
	out := make(chan []byte, 8)
	if _, err := c.Subscribe(subject, func(data []byte) { out <- data }); err != nil {
		t.Fatalf("Subscribe() error = %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}
	return out
}

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for message")
		return nil
	}
}

func TestSubjects(t *testing.T) {
	testutil.AssertEqual(t, "notifications", NotificationSubject("p1"), "tag_engine.player.p1.notifications")
	testutil.AssertEqual(t, "geofences", GeofenceSubject("p1"), "tag_engine.player.p1.geofences")
}

func TestNatsNotifier_Send(t *testing.T) {
	c := startServer(t)
	alice := collect(t, c, NotificationSubject("alice"))
	bob := collect(t, c, NotificationSubject("bob"))

	n := NewNatsNotifier(c)
	msg := notify.Notification{Kind: notify.KindTagged, Title: "Tagged", Body: "You lost a strike."}
	if err := n.Send(context.Background(), []string{"alice", "bob"}, msg); err != nil {
		t.Fatalf("Send() error = %v", err)
	}

	for name, ch := range map[string]<-chan []byte{"alice": alice, "bob": bob} {
		var got notify.Notification
		if err := json.Unmarshal(receive(t, ch), &got); err != nil {
			t.Fatalf("%s: decode error = %v", name, err)
		}
		testutil.AssertEqual(t, name+" kind", got.Kind, notify.KindTagged)
		testutil.AssertEqual(t, name+" title", got.Title, "Tagged")
	}
}

func TestNatsNotifier_CancelledContext(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewNatsNotifier(c).Send(ctx, []string{"alice"}, notify.Notification{Kind: notify.KindTagged})
	if err == nil {
		t.Error("expected error for cancelled context")
	}
}

func TestNatsGeofenceRegistrar_Register(t *testing.T) {
	c := startServer(t)
	ch := collect(t, c, GeofenceSubject("bob"))
	r := NewNatsGeofenceRegistrar(c)

	region := tripwire.Region{TripwireID: "tw1", GameID: "g1", Center: geo.Coordinate{Lat: 1, Lng: 2}, Radius: 30}
	if err := r.Register(context.Background(), "bob", []tripwire.Region{region}); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	var got GeofenceUpdate
	if err := json.Unmarshal(receive(t, ch), &got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	testutil.AssertEqual(t, "player", got.PlayerID, "bob")
	testutil.AssertEqual(t, "regions", len(got.Regions), 1)
	testutil.AssertEqual(t, "region", got.Regions[0], region)

	if err := r.Register(context.Background(), "bob", nil); err != nil {
		t.Fatalf("Register() error = %v", err)
	}
	raw := receive(t, ch)
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatalf("decode error = %v", err)
	}
	testutil.AssertEqual(t, "cleared regions", len(got.Regions), 0)
	testutil.AssertEqual(t, "empty array sent", string(raw), `{"playerId":"bob","regions":[]}`)
}

func TestSubscribeGeofenceEntries(t *testing.T) {
	c := startServer(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	out := make(chan tripwire.TripwireTriggered, 4)
	if _, err := SubscribeGeofenceEntries(ctx, c, out); err != nil {
		t.Fatalf("SubscribeGeofenceEntries() error = %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := c.conn.Publish(SubjectGeofenceEntry, []byte("not json")); err != nil {
		t.Fatalf("Publish() error = %v", err)
	}
	entry := tripwire.TripwireTriggered{GameID: "g1", TripwireID: "tw1", PlayerID: "bob", At: at}
	if err := c.PublishJSON(SubjectGeofenceEntry, entry); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case got := <-out:
		testutil.AssertEqual(t, "tripwire", got.TripwireID, "tw1")
		testutil.AssertEqual(t, "player", got.PlayerID, "bob")
		testutil.AssertEqual(t, "at", got.At.Equal(at), true)
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for geofence entry")
	}
}

type recordedUpload struct {
	playerID string
	at       time.Time
}

type fakeRecorder struct {
	mu   sync.Mutex
	got  []recordedUpload
	done chan struct{}
}

func (f *fakeRecorder) RecordLocation(_ context.Context, playerID string, c geo.Coordinate, at time.Time) (*game.LocationRecord, error) {
	f.mu.Lock()
	f.got = append(f.got, recordedUpload{playerID: playerID, at: at})
	f.mu.Unlock()
	f.done <- struct{}{}
	return &game.LocationRecord{PlayerID: playerID, Location: c, RecordedAt: at}, nil
}

func TestSubscribeLocationUploads(t *testing.T) {
	c := startServer(t)
	rec := &fakeRecorder{done: make(chan struct{}, 4)}
	if _, err := SubscribeLocationUploads(context.Background(), c, rec); err != nil {
		t.Fatalf("SubscribeLocationUploads() error = %v", err)
	}
	if err := c.Flush(); err != nil {
		t.Fatalf("Flush() error = %v", err)
	}

	at := time.Date(2025, 5, 1, 12, 0, 0, 0, time.UTC)
	if err := c.PublishJSON(SubjectLocationUpload, LocationUpload{Location: geo.Coordinate{Lat: 1}}); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}
	if err := c.PublishJSON(SubjectLocationUpload, LocationUpload{PlayerID: "alice", Location: geo.Coordinate{Lat: 1}, RecordedAt: at}); err != nil {
		t.Fatalf("PublishJSON() error = %v", err)
	}

	select {
	case <-rec.done:
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for upload")
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	testutil.AssertEqual(t, "uploads", len(rec.got), 1)
	testutil.AssertEqual(t, "player", rec.got[0].playerID, "alice")
	testutil.AssertEqual(t, "at", rec.got[0].at.Equal(at), true)
}
