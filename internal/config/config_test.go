// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"strings"
	"testing"
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
)

func TestParse_Defaults(t *testing.T) {
	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("defaults should validate, got %v", err)
	}
	if cfg.Tuning() != game.DefaultTuning() {
		t.Errorf("default tuning drifted from game.DefaultTuning():\n%+v\n%+v", cfg.Tuning(), game.DefaultTuning())
	}
	if cfg.Notifier != NotifierLog || cfg.GRPCPort != 6565 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
}

func TestParse_Overrides(t *testing.T) {
	t.Setenv("TAG_MAX_PLAYERS", "8")
	t.Setenv("TAG_RADAR_REVEAL_TTL", "15s")
	t.Setenv("TAG_DEFAULT_TIME_ZONE", "Asia/Jakarta")
	t.Setenv("NATS_ENABLED", "true")
	t.Setenv("NOTIFIER", "nats")

	cfg, err := Parse()
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	tuning := cfg.Tuning()
	if tuning.MaxPlayers != 8 || tuning.RadarRevealTTL != 15*time.Second || tuning.DefaultTimeZone != "Asia/Jakarta" {
		t.Errorf("overrides not applied: %+v", tuning)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		expErr []string
	}{
		{
			name:   "bad port",
			mutate: func(c *Config) { c.GRPCPort = 0 },
			expErr: []string{"GRPC_PORT"},
		},
		{
			name:   "unknown notifier",
			mutate: func(c *Config) { c.Notifier = "carrier-pigeon" },
			expErr: []string{"invalid NOTIFIER"},
		},
		{
			name:   "accelbyte notifier without sdk",
			mutate: func(c *Config) { c.Notifier = NotifierAccelByte },
			expErr: []string{"requires AB_ENABLED"},
		},
		{
			name: "accelbyte without credentials",
			mutate: func(c *Config) {
				c.ABEnabled = true
				c.ABBaseURL = ""
			},
			expErr: []string{"AB_CLIENT_SECRET"},
		},
		{
			name: "several tuning problems at once",
			mutate: func(c *Config) {
				c.MinPlayers = 6
				c.InactivityStrike = time.Hour
				c.DefaultTimeZone = "Mars/Olympus"
			},
			expErr: []string{"player limits", "inactivity thresholds", "TAG_DEFAULT_TIME_ZONE"},
		},
		{
			name:   "negative radius",
			mutate: func(c *Config) { c.HitZoneRadius = -1 },
			expErr: []string{"TAG_HIT_ZONE_RADIUS_M"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse()
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			tt.mutate(cfg)

			err = cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			for _, want := range tt.expErr {
				if !strings.Contains(err.Error(), want) {
					t.Errorf("expected %q in %v", want, err)
				}
			}
		})
	}
}
