// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package game

import "time"

// Tuning collects every gameplay constant. Values come from configuration;
// DefaultTuning matches the shipped game balance.
type Tuning struct {
	StartingStrikes int
	MinPlayers      int
	MaxPlayers      int
	HomeBases       int
	DailyFreeTags   int

	BasicTagRadius   float64
	WideTagRadius    float64
	TagWarningRadius float64

	HomeBaseRadius float64
	HitZoneRadius  float64

	TripwireRadius   float64
	GeofenceLimit    int
	RadarRadius      float64
	RadarDecoyMin    float64
	RadarDecoyMax    float64
	RadarRevealTTL   time.Duration
	InactivityWarn   time.Duration
	InactivityStrike time.Duration
	SweepInterval    time.Duration

	DefaultTimeZone string
}

// DefaultTuning returns the standard game balance.
func DefaultTuning() Tuning {
	return Tuning{
		StartingStrikes:  3,
		MinPlayers:       2,
		MaxPlayers:       5,
		HomeBases:        2,
		DailyFreeTags:    3,
		BasicTagRadius:   80,
		WideTagRadius:    300,
		TagWarningRadius: 457,
		HomeBaseRadius:   100,
		HitZoneRadius:    80,
		TripwireRadius:   15,
		GeofenceLimit:    20,
		RadarRadius:      610,
		RadarDecoyMin:    1500,
		RadarDecoyMax:    3000,
		RadarRevealTTL:   10 * time.Second,
		InactivityWarn:   47 * time.Hour,
		InactivityStrike: 48 * time.Hour,
		SweepInterval:    30 * time.Minute,
		DefaultTimeZone:  "UTC",
	}
}

// TagRadius returns the hit radius for a tag kind.
func (t Tuning) TagRadius(kind TagKind) float64 {
	if kind == TagWide {
		return t.WideTagRadius
	}
	return t.BasicTagRadius
}
