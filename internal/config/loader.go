// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/joho/godotenv"
	errlist "github.com/pixil98/go-errors"
	"github.com/sirupsen/logrus"
)

// Load reads configuration from environment variables.
// It attempts to load from .env file first (for local development),
// then parses environment variables into the Config struct.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	// In production (Docker/K8s), environment variables are injected directly
	if err := godotenv.Load(); err != nil {
		logrus.Warnf("no .env file found or error loading it: %v (this is normal in production)", err)
	} else {
		logrus.Infof("loaded environment variables from .env file")
	}

	return Parse()
}

// Parse reads the configuration from the current environment only.
func Parse() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config from environment: %w", err)
	}
	return cfg, nil
}

// Validate reports every invalid setting at once.
//
// ============================================================
// DEVELOPER: Add custom validation logic here.
// ============================================================
// This function is called after environment variables are parsed.
// Add each problem to the error list instead of returning early
// so operators see all of them in one run.
// ============================================================
func (c *Config) Validate() error {
	el := errlist.NewErrorList()

	if c.GRPCPort < 1 || c.GRPCPort > 65535 {
		el.Add(fmt.Errorf("invalid GRPC_PORT: %d (must be 1-65535)", c.GRPCPort))
	}
	if c.MetricsPort < 1 || c.MetricsPort > 65535 {
		el.Add(fmt.Errorf("invalid METRICS_PORT: %d (must be 1-65535)", c.MetricsPort))
	}
	if _, err := logrus.ParseLevel(c.LogLevel); err != nil {
		el.Add(fmt.Errorf("invalid LOG_LEVEL: %w", err))
	}

	if c.ABEnabled {
		if c.ABNamespace == "" {
			el.Add(fmt.Errorf("AB_NAMESPACE is required when AB_ENABLED is set"))
		}
		if c.ABBaseURL == "" || c.ABClientID == "" || c.ABClientSecret == "" {
			el.Add(fmt.Errorf("AB_BASE_URL, AB_CLIENT_ID and AB_CLIENT_SECRET are required when AB_ENABLED is set"))
		}
	}

	switch c.Notifier {
	case NotifierLog:
	case NotifierAccelByte:
		if !c.ABEnabled {
			el.Add(fmt.Errorf("NOTIFIER=%s requires AB_ENABLED", c.Notifier))
		}
	case NotifierNats:
		if !c.NatsEnabled {
			el.Add(fmt.Errorf("NOTIFIER=%s requires NATS_ENABLED", c.Notifier))
		}
	default:
		el.Add(fmt.Errorf("invalid NOTIFIER: %q (must be %s, %s or %s)", c.Notifier, NotifierAccelByte, NotifierNats, NotifierLog))
	}

	if c.NatsEnabled && c.NatsEmbedded && (c.NatsPort < -1 || c.NatsPort > 65535) {
		el.Add(fmt.Errorf("invalid NATS_PORT: %d", c.NatsPort))
	}
	if c.OtelEnabled && (c.TraceSampleRatio < 0 || c.TraceSampleRatio > 1) {
		el.Add(fmt.Errorf("invalid OTEL_TRACE_SAMPLE_RATIO: %v (must be 0-1)", c.TraceSampleRatio))
	}
	if c.StoreTimeoutMs <= 0 || c.StoreMaxAttempts <= 0 {
		el.Add(fmt.Errorf("STORE_TIMEOUT_MS and STORE_MAX_ATTEMPTS must be positive"))
	}

	el.Add(c.validateTuning())
	return el.Err()
}

func (c *Config) validateTuning() error {
	el := errlist.NewErrorList()

	if c.StartingStrikes < 1 {
		el.Add(fmt.Errorf("TAG_STARTING_STRIKES must be at least 1"))
	}
	if c.MinPlayers < 2 || c.MaxPlayers < c.MinPlayers {
		el.Add(fmt.Errorf("player limits %d-%d are invalid (need 2 <= min <= max)", c.MinPlayers, c.MaxPlayers))
	}
	if c.HomeBases < 1 {
		el.Add(fmt.Errorf("TAG_HOME_BASES must be at least 1"))
	}
	if c.DailyFreeTags < 0 {
		el.Add(fmt.Errorf("TAG_DAILY_FREE_TAGS must not be negative"))
	}
	for name, r := range map[string]float64{
		"TAG_BASIC_RADIUS_M":     c.BasicTagRadius,
		"TAG_WIDE_RADIUS_M":      c.WideTagRadius,
		"TAG_HOME_BASE_RADIUS_M": c.HomeBaseRadius,
		"TAG_HIT_ZONE_RADIUS_M":  c.HitZoneRadius,
		"TAG_TRIPWIRE_RADIUS_M":  c.TripwireRadius,
		"TAG_RADAR_RADIUS_M":     c.RadarRadius,
	} {
		if r <= 0 {
			el.Add(fmt.Errorf("%s must be positive", name))
		}
	}
	if c.RadarDecoyMin <= 0 || c.RadarDecoyMax < c.RadarDecoyMin {
		el.Add(fmt.Errorf("radar decoy band %.0f-%.0f is invalid", c.RadarDecoyMin, c.RadarDecoyMax))
	}
	if c.GeofenceLimit < 1 {
		el.Add(fmt.Errorf("TAG_GEOFENCE_LIMIT must be at least 1"))
	}
	if c.InactivityWarn <= 0 || c.InactivityStrike <= c.InactivityWarn {
		el.Add(fmt.Errorf("inactivity thresholds %s/%s are invalid (need 0 < warn < strike)", c.InactivityWarn, c.InactivityStrike))
	}
	if c.SweepInterval <= 0 || c.RadarRevealTTL <= 0 {
		el.Add(fmt.Errorf("TAG_SWEEP_INTERVAL and TAG_RADAR_REVEAL_TTL must be positive"))
	}
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil {
		el.Add(fmt.Errorf("invalid TAG_DEFAULT_TIME_ZONE %q: %w", c.DefaultTimeZone, err))
	}

	return el.Err()
}
