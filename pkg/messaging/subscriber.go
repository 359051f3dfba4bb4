// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package messaging

import (
	"context"
	"encoding/json"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
	"github.com/AccelByte/extend-tag-engine/pkg/geo"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// SubscribeGeofenceEntries decodes geofence entries reported by devices and
// forwards them to out. Malformed messages are dropped.
func SubscribeGeofenceEntries(ctx context.Context, c *Client, out chan<- tripwire.TripwireTriggered) (*nats.Subscription, error) {
	return c.Subscribe(SubjectGeofenceEntry, func(data []byte) {
		var ev tripwire.TripwireTriggered
		if err := json.Unmarshal(data, &ev); err != nil {
			logrus.Warnf("dropping malformed geofence entry: %v", err)
			return
		}
		select {
		case out <- ev:
		case <-ctx.Done():
		}
	})
}

// LocationUpload is a position report from a device.
type LocationUpload struct {
	PlayerID   string         `json:"playerId"`
	Location   geo.Coordinate `json:"location"`
	RecordedAt time.Time      `json:"recordedAt"`
}

// LocationRecorder stores an upload.
type LocationRecorder interface {
	RecordLocation(ctx context.Context, playerID string, c geo.Coordinate, at time.Time) (*game.LocationRecord, error)
}

// SubscribeLocationUploads records every location upload published by devices.
func SubscribeLocationUploads(ctx context.Context, c *Client, recorder LocationRecorder) (*nats.Subscription, error) {
	return c.Subscribe(SubjectLocationUpload, func(data []byte) {
		var up LocationUpload
		if err := json.Unmarshal(data, &up); err != nil || up.PlayerID == "" {
			logrus.Warnf("dropping malformed location upload: %v", err)
			return
		}
		if _, err := recorder.RecordLocation(ctx, up.PlayerID, up.Location, up.RecordedAt); err != nil {
			logrus.Warnf("failed to record location of %s: %v", up.PlayerID, err)
		}
	})
}
