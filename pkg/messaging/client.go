// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package messaging

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"
)

// Subjects used between the engine and player devices.
const (
	SubjectGeofenceEntry  = "tag_engine.geofence.entry"
	SubjectLocationUpload = "tag_engine.location.upload"
	playerSubjectPrefix   = "tag_engine.player."
)

// NotificationSubject is where a player's device receives notifications.
func NotificationSubject(playerID string) string {
	return playerSubjectPrefix + playerID + ".notifications"
}

// GeofenceSubject is where a player's device receives its monitoring regions.
func GeofenceSubject(playerID string) string {
	return playerSubjectPrefix + playerID + ".geofences"
}

// Client is a NATS connection that speaks JSON.
type Client struct {
	conn *nats.Conn
}

// Connect dials url and keeps reconnecting for the life of the client.
func Connect(url, name string) (*Client, error) {
	conn, err := nats.Connect(url,
		nats.Name(name),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(time.Second),
		nats.DisconnectErrHandler(func(_ *nats.Conn, err error) {
			if err != nil {
				logrus.Warnf("nats disconnected: %v", err)
			}
		}),
		nats.ReconnectHandler(func(c *nats.Conn) {
			logrus.Infof("nats reconnected to %s", c.ConnectedUrl())
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to nats at %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// PublishJSON encodes v and publishes it on subject.
func (c *Client) PublishJSON(subject string, v interface{}) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("failed to encode message for %s: %w", subject, err)
	}
	if err := c.conn.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}
	return nil
}

// Subscribe calls handler for every message on subject.
func (c *Client) Subscribe(subject string, handler func(data []byte)) (*nats.Subscription, error) {
	sub, err := c.conn.Subscribe(subject, func(msg *nats.Msg) {
		handler(msg.Data)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to subscribe to %s: %w", subject, err)
	}
	return sub, nil
}

// Flush waits until the server has processed everything published so far.
func (c *Client) Flush() error {
	return c.conn.Flush()
}

// Close drains subscriptions and closes the connection.
func (c *Client) Close() {
	if err := c.conn.Drain(); err != nil {
		logrus.Warnf("failed to drain nats connection: %v", err)
		c.conn.Close()
	}
}
