// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package messaging

import (
	"context"
	"fmt"

	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"
	errlist "github.com/pixil98/go-errors"
)

// NatsNotifier publishes each notification on the recipients' player subjects.
type NatsNotifier struct {
	client *Client
}

func NewNatsNotifier(client *Client) *NatsNotifier {
	return &NatsNotifier{client: client}
}

func (n *NatsNotifier) Send(ctx context.Context, recipientIDs []string, msg notify.Notification) error {
	el := errlist.NewErrorList()
	for _, id := range recipientIDs {
		if err := ctx.Err(); err != nil {
			el.Add(err)
			break
		}
		if err := n.client.PublishJSON(NotificationSubject(id), msg); err != nil {
			el.Add(fmt.Errorf("recipient %s: %w", id, err))
		}
	}
	return el.Err()
}

// GeofenceUpdate is the message a device receives with its full region set.
type GeofenceUpdate struct {
	PlayerID string            `json:"playerId"`
	Regions  []tripwire.Region `json:"regions"`
}

// NatsGeofenceRegistrar sends region sets to player devices.
type NatsGeofenceRegistrar struct {
	client *Client
}

func NewNatsGeofenceRegistrar(client *Client) *NatsGeofenceRegistrar {
	return &NatsGeofenceRegistrar{client: client}
}

func (r *NatsGeofenceRegistrar) Register(ctx context.Context, playerID string, regions []tripwire.Region) error {
	if regions == nil {
		regions = []tripwire.Region{}
	}
	return r.client.PublishJSON(GeofenceSubject(playerID), GeofenceUpdate{PlayerID: playerID, Regions: regions})
}

var (
	_ notify.Notifier            = (*NatsNotifier)(nil)
	_ tripwire.GeofenceRegistrar = (*NatsGeofenceRegistrar)(nil)
)
