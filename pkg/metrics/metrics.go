// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "tag_engine"

var (
	// TagOutcomesTotal counts resolved tags by outcome and block reason.
	TagOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tag_outcomes_total",
			Help:      "Total number of resolved tag submissions",
		},
		[]string{"outcome", "reason"},
	)

	// TagResolutionSeconds measures SubmitTag latency including store round trips.
	TagResolutionSeconds = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "tag_resolution_seconds",
			Help:      "Time taken to resolve a tag submission",
			Buckets:   prometheus.DefBuckets,
		},
	)

	TripwireTriggersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "tripwire_triggers_total",
			Help:      "Total number of geofence entry events by result",
		},
		[]string{"result"},
	)

	GeofenceRegionsDroppedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "geofence_regions_dropped_total",
			Help:      "Tripwire regions not registered because of the device region limit",
		},
	)

	RadarRevealsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "radar_reveals_total",
			Help:      "Total number of radar reveal requests by result",
		},
		[]string{"result"},
	)

	InactivityActionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "inactivity_actions_total",
			Help:      "Warnings, penalties and return notices issued by the inactivity sweep",
		},
		[]string{"action"},
	)

	GamesCompletedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "games_completed_total",
			Help:      "Total number of games that reached the completed state",
		},
	)

	StoreRetriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "store_retries_total",
			Help:      "Transient store failures that triggered a retry",
		},
		[]string{"op"},
	)

	NotificationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notifications_total",
			Help:      "Notifications handed to the dispatcher by kind and result",
		},
		[]string{"kind", "result"},
	)

	ActionExecutionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "action_executions_total",
			Help:      "Reward actions executed by action id and result",
		},
		[]string{"action", "result"},
	)
)

// Collectors returns every engine collector for registration.
func Collectors() []prometheus.Collector {
	return []prometheus.Collector{
		TagOutcomesTotal,
		TagResolutionSeconds,
		TripwireTriggersTotal,
		GeofenceRegionsDroppedTotal,
		RadarRevealsTotal,
		InactivityActionsTotal,
		GamesCompletedTotal,
		StoreRetriesTotal,
		NotificationsTotal,
		ActionExecutionsTotal,
	}
}
