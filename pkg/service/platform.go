// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package service

import (
	"context"
	"fmt"

	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclient/fulfillment"
	"github.com/AccelByte/accelbyte-go-sdk/platform-sdk/pkg/platformclientmodels"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclient/user_statistic"
	"github.com/AccelByte/accelbyte-go-sdk/social-sdk/pkg/socialclientmodels"
	"github.com/sirupsen/logrus"
)

// EntitlementService grants platform items such as the winner reward.
type EntitlementService struct {
	fulfillmentClient *platform.FulfillmentService
	cfg               EntitlementServiceConfig
}

type EntitlementServiceConfig struct {
	Namespace string
}

func NewEntitlementService(
	fulfillmentClient *platform.FulfillmentService,
	cfg EntitlementServiceConfig,
) *EntitlementService {
	return &EntitlementService{
		fulfillmentClient: fulfillmentClient,
		cfg:               cfg,
	}
}

// GrantItem fulfills quantity units of itemID for userID. An empty namespace
// falls back to the configured one.
func (s *EntitlementService) GrantItem(
	ctx context.Context,
	namespace string,
	userID string,
	itemID string,
	quantity int32,
) error {
	if namespace == "" {
		namespace = s.cfg.Namespace
	}

	fulfillmentResponse, err := s.fulfillmentClient.FulfillItemShort(fulfillParams(namespace, userID, itemID, quantity))
	if err != nil {
		return fmt.Errorf("failed to fulfill item %s for user %s: %w", itemID, userID, err)
	}
	if fulfillmentResponse == nil {
		return fmt.Errorf("could not grant item %s to user %s: empty response", itemID, userID)
	}

	logrus.Infof("granted %d x %s to user %s", quantity, itemID, userID)
	return nil
}

func fulfillParams(namespace, userID, itemID string, quantity int32) *fulfillment.FulfillItemParams {
	qnty := quantity
	return &fulfillment.FulfillItemParams{
		Namespace: namespace,
		UserID:    userID,
		Body: &platformclientmodels.FulfillmentRequest{
			ItemID:   itemID,
			Quantity: &qnty,
			Source:   platformclientmodels.FulfillmentRequestSourceREWARD,
		},
	}
}

// StatisticService increments player statistics such as wins and eliminations.
type StatisticService struct {
	statisticsService *social.UserStatisticService
	cfg               StatisticServiceConfig
}

type StatisticServiceConfig struct {
	Namespace string
}

func NewStatisticService(
	statisticsService *social.UserStatisticService,
	cfg StatisticServiceConfig,
) *StatisticService {
	return &StatisticService{
		statisticsService: statisticsService,
		cfg:               cfg,
	}
}

func (s *StatisticService) IncrementStat(ctx context.Context, userID, statCode string, inc float64) error {
	_, err := s.statisticsService.IncUserStatItemValueShort(incStatParams(s.cfg.Namespace, userID, statCode, inc))
	if err != nil {
		return fmt.Errorf("failed to increment user %s statistic %s: %w", userID, statCode, err)
	}
	return nil
}

func incStatParams(namespace, userID, statCode string, inc float64) *user_statistic.IncUserStatItemValueParams {
	return &user_statistic.IncUserStatItemValueParams{
		Namespace: namespace,
		UserID:    userID,
		StatCode:  statCode,
		Body: &socialclientmodels.StatItemInc{
			Inc: inc,
		},
	}
}
