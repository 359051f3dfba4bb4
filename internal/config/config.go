// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package config

import (
	"time"

	"github.com/AccelByte/extend-tag-engine/pkg/game"
)

// Notifier backends selectable with NOTIFIER.
const (
	NotifierAccelByte = "accelbyte"
	NotifierNats      = "nats"
	NotifierLog       = "log"
)

// Config holds all application configuration loaded from environment variables.
// This struct uses github.com/caarlos0/env for automatic environment variable parsing.
//
// ============================================================
// DEVELOPER: Add new configuration fields here.
// ============================================================
// Use struct tags to define:
// - `env:"VAR_NAME"` - the environment variable name
// - `env:",required"` - make it required
// - `envDefault:"value"` - set a default value
//
// After adding fields here, update loader.go Validate() if custom
// validation is needed.
// ============================================================
type Config struct {
	// ============================================================
	// Server configuration
	// ============================================================
	GRPCPort    int    `env:"GRPC_PORT" envDefault:"6565"`
	MetricsPort int    `env:"METRICS_PORT" envDefault:"8080"`
	Environment string `env:"ENVIRONMENT" envDefault:"dev"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"ExtendTagEngine"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info"`

	// ============================================================
	// AccelByte configuration
	// ============================================================
	// The SDK reads AB_BASE_URL, AB_CLIENT_ID and AB_CLIENT_SECRET itself;
	// they are parsed here so Validate can report them missing.
	ABEnabled      bool   `env:"AB_ENABLED" envDefault:"false"`
	ABNamespace    string `env:"AB_NAMESPACE" envDefault:"accelbyte"`
	ABBaseURL      string `env:"AB_BASE_URL"`
	ABClientID     string `env:"AB_CLIENT_ID"`
	ABClientSecret string `env:"AB_CLIENT_SECRET"`

	// ============================================================
	// Redis configuration
	// ============================================================
	RedisHost         string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort         string `env:"REDIS_PORT" envDefault:"6379"`
	RedisPassword     string `env:"REDIS_PASSWORD"`
	RedisMaxRetries   int    `env:"REDIS_MAX_RETRIES" envDefault:"5"`
	RedisRetryDelayMs int    `env:"REDIS_RETRY_DELAY_MS" envDefault:"1000"`

	StoreTimeoutMs   int `env:"STORE_TIMEOUT_MS" envDefault:"2000"`
	StoreMaxAttempts int `env:"STORE_MAX_ATTEMPTS" envDefault:"4"`

	// ============================================================
	// NATS configuration
	// ============================================================
	// With NATS_EMBEDDED the service runs its own broker on NATS_HOST:NATS_PORT
	// and connects to it; otherwise it connects to NATS_URL.
	NatsEnabled      bool          `env:"NATS_ENABLED" envDefault:"false"`
	NatsURL          string        `env:"NATS_URL" envDefault:"nats://127.0.0.1:4222"`
	NatsEmbedded     bool          `env:"NATS_EMBEDDED" envDefault:"false"`
	NatsHost         string        `env:"NATS_HOST" envDefault:"127.0.0.1"`
	NatsPort         int           `env:"NATS_PORT" envDefault:"4222"`
	NatsStartTimeout time.Duration `env:"NATS_START_TIMEOUT" envDefault:"10s"`

	// ============================================================
	// Notifications
	// ============================================================
	Notifier      string        `env:"NOTIFIER" envDefault:"log"`
	NotifyTimeout time.Duration `env:"NOTIFY_TIMEOUT" envDefault:"5s"`

	// ============================================================
	// Pipeline configuration
	// ============================================================
	ConfigPath string `env:"CONFIG_PATH" envDefault:"config/pipeline.yaml"`

	// ============================================================
	// Telemetry configuration
	// ============================================================
	OtelEnabled      bool    `env:"OTEL_ENABLED" envDefault:"true"`
	ZipkinEndpoint   string  `env:"OTEL_EXPORTER_ZIPKIN_ENDPOINT" envDefault:"http://localhost:9411/api/v2/spans"`
	TraceSampleRatio float64 `env:"OTEL_TRACE_SAMPLE_RATIO" envDefault:"1"`

	// ============================================================
	// Game balance
	// ============================================================
	StartingStrikes  int           `env:"TAG_STARTING_STRIKES" envDefault:"3"`
	MinPlayers       int           `env:"TAG_MIN_PLAYERS" envDefault:"2"`
	MaxPlayers       int           `env:"TAG_MAX_PLAYERS" envDefault:"5"`
	HomeBases        int           `env:"TAG_HOME_BASES" envDefault:"2"`
	DailyFreeTags    int           `env:"TAG_DAILY_FREE_TAGS" envDefault:"3"`
	BasicTagRadius   float64       `env:"TAG_BASIC_RADIUS_M" envDefault:"80"`
	WideTagRadius    float64       `env:"TAG_WIDE_RADIUS_M" envDefault:"300"`
	TagWarningRadius float64       `env:"TAG_WARNING_RADIUS_M" envDefault:"457"`
	HomeBaseRadius   float64       `env:"TAG_HOME_BASE_RADIUS_M" envDefault:"100"`
	HitZoneRadius    float64       `env:"TAG_HIT_ZONE_RADIUS_M" envDefault:"80"`
	TripwireRadius   float64       `env:"TAG_TRIPWIRE_RADIUS_M" envDefault:"15"`
	GeofenceLimit    int           `env:"TAG_GEOFENCE_LIMIT" envDefault:"20"`
	RadarRadius      float64       `env:"TAG_RADAR_RADIUS_M" envDefault:"610"`
	RadarDecoyMin    float64       `env:"TAG_RADAR_DECOY_MIN_M" envDefault:"1500"`
	RadarDecoyMax    float64       `env:"TAG_RADAR_DECOY_MAX_M" envDefault:"3000"`
	RadarRevealTTL   time.Duration `env:"TAG_RADAR_REVEAL_TTL" envDefault:"10s"`
	InactivityWarn   time.Duration `env:"TAG_INACTIVITY_WARN" envDefault:"47h"`
	InactivityStrike time.Duration `env:"TAG_INACTIVITY_STRIKE" envDefault:"48h"`
	SweepInterval    time.Duration `env:"TAG_SWEEP_INTERVAL" envDefault:"30m"`
	DefaultTimeZone  string        `env:"TAG_DEFAULT_TIME_ZONE" envDefault:"UTC"`
}

// Tuning returns the game balance described by the configuration.
func (c *Config) Tuning() game.Tuning {
	return game.Tuning{
		StartingStrikes:  c.StartingStrikes,
		MinPlayers:       c.MinPlayers,
		MaxPlayers:       c.MaxPlayers,
		HomeBases:        c.HomeBases,
		DailyFreeTags:    c.DailyFreeTags,
		BasicTagRadius:   c.BasicTagRadius,
		WideTagRadius:    c.WideTagRadius,
		TagWarningRadius: c.TagWarningRadius,
		HomeBaseRadius:   c.HomeBaseRadius,
		HitZoneRadius:    c.HitZoneRadius,
		TripwireRadius:   c.TripwireRadius,
		GeofenceLimit:    c.GeofenceLimit,
		RadarRadius:      c.RadarRadius,
		RadarDecoyMin:    c.RadarDecoyMin,
		RadarDecoyMax:    c.RadarDecoyMax,
		RadarRevealTTL:   c.RadarRevealTTL,
		InactivityWarn:   c.InactivityWarn,
		InactivityStrike: c.InactivityStrike,
		SweepInterval:    c.SweepInterval,
		DefaultTimeZone:  c.DefaultTimeZone,
	}
}
