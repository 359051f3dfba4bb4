// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/AccelByte/accelbyte-go-sdk/lobby-sdk/pkg/lobbyclient/notification"
	"github.com/AccelByte/accelbyte-go-sdk/lobby-sdk/pkg/lobbyclientmodels"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/lobby"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	errlist "github.com/pixil98/go-errors"
)

// LobbyNotifier pushes notifications through the AccelByte lobby as free-form
// messages. The topic is the notification kind and the message its JSON body.
type LobbyNotifier struct {
	notificationService *lobby.NotificationService
	cfg                 LobbyNotifierConfig
}

type LobbyNotifierConfig struct {
	Namespace string
}

func NewLobbyNotifier(notificationService *lobby.NotificationService, cfg LobbyNotifierConfig) *LobbyNotifier {
	return &LobbyNotifier{
		notificationService: notificationService,
		cfg:                 cfg,
	}
}

func (n *LobbyNotifier) Send(ctx context.Context, recipientIDs []string, msg notify.Notification) error {
	el := errlist.NewErrorList()
	for _, userID := range recipientIDs {
		if err := ctx.Err(); err != nil {
			el.Add(err)
			break
		}
		params, err := freeFormParams(n.cfg.Namespace, userID, msg)
		if err != nil {
			return err
		}
		if err := n.notificationService.FreeFormNotificationByUserIDShort(params); err != nil {
			el.Add(fmt.Errorf("failed to notify user %s: %w", userID, err))
		}
	}
	return el.Err()
}

func freeFormParams(namespace, userID string, msg notify.Notification) (*notification.FreeFormNotificationByUserIDParams, error) {
	body, err := json.Marshal(msg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s notification: %w", msg.Kind, err)
	}
	message := string(body)
	topic := string(msg.Kind)
	return &notification.FreeFormNotificationByUserIDParams{
		Namespace: namespace,
		UserID:    userID,
		Body: &lobbyclientmodels.ModelFreeFormNotificationRequest{
			Message: &message,
			Topic:   &topic,
		},
	}, nil
}

var _ notify.Notifier = (*LobbyNotifier)(nil)
