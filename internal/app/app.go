// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/AccelByte/extend-tag-engine/internal/bootstrap"
	"github.com/AccelByte/extend-tag-engine/internal/config"
	"github.com/AccelByte/extend-tag-engine/internal/server"
	"github.com/AccelByte/extend-tag-engine/pkg/arsenal"
	"github.com/AccelByte/extend-tag-engine/pkg/clock"
	"github.com/AccelByte/extend-tag-engine/pkg/common"
	"github.com/AccelByte/extend-tag-engine/pkg/handler"
	"github.com/AccelByte/extend-tag-engine/pkg/inactivity"
	"github.com/AccelByte/extend-tag-engine/pkg/lobby"
	"github.com/AccelByte/extend-tag-engine/pkg/messaging"
	"github.com/AccelByte/extend-tag-engine/pkg/notify"
	"github.com/AccelByte/extend-tag-engine/pkg/pipeline"
	"github.com/AccelByte/extend-tag-engine/pkg/radar"
	"github.com/AccelByte/extend-tag-engine/pkg/safezone"
	"github.com/AccelByte/extend-tag-engine/pkg/service"
	"github.com/AccelByte/extend-tag-engine/pkg/store"
	"github.com/AccelByte/extend-tag-engine/pkg/strike"
	"github.com/AccelByte/extend-tag-engine/pkg/tag"
	"github.com/AccelByte/extend-tag-engine/pkg/tripwire"

	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/factory"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/iam"
	sdkLobby "github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/lobby"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/platform"
	"github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/service/social"
	sdkAuth "github.com/AccelByte/accelbyte-go-sdk/services-api/pkg/utils/auth"
	"github.com/go-redis/redis/v8"
	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	actionBuiltin "github.com/AccelByte/extend-tag-engine/pkg/action/builtin"
)

// geofenceEntryBuffer bounds how many device reports wait for the coordinator.
const geofenceEntryBuffer = 256

// App holds all application dependencies and manages the application lifecycle.
type App struct {
	cfg               *config.Config
	grpcServer        *server.GRPCServer
	metricsServer     *server.MetricsServer
	redisClient       *redis.Client
	shutdownTelemetry func(context.Context) error

	natsServer    *messaging.NatsServer
	natsClient    *messaging.Client
	subscriptions []*nats.Subscription

	pipelineManager *pipeline.Manager
	dispatcher      *notify.Dispatcher
	healthChecker   *store.HealthChecker
	tripwires       *tripwire.Coordinator
	inactivity      *inactivity.Monitor
	geofenceEntries chan tripwire.TripwireTriggered

	// AccelByte SDK repositories (shared across all services)
	configRepo *sdkAuth.ConfigRepositoryImpl
	tokenRepo  *sdkAuth.TokenRepositoryImpl
}

// New creates and initializes a new application instance.
//
// ============================================================
// DEVELOPER: Application initialization order
// ============================================================
// Components are initialized in dependency order:
// 1. AccelByte SDK (only when AB_ENABLED)
// 2. Redis (game and location storage)
// 3. NATS (device transport, only when NATS_ENABLED)
// 4. Pipeline config (YAML configuration)
// 5. External services (store, notifier, item granter, etc.)
// 6. Pipeline components (signal → rule → action)
// 7. Game components (lobby, validator, tripwires, radar, ...)
// 8. Servers (gRPC, metrics)
// 9. Telemetry (OpenTelemetry tracing)
// ============================================================
func New(ctx context.Context, cfg *config.Config) (*App, error) {
	logrus.Info("initializing application...")

	app := &App{cfg: cfg}
	tuning := cfg.Tuning()
	clk := clock.RealClock{}

	// ============================================================
	// Step 1: Initialize Client Auth using AccelByte SDK
	// ============================================================
	if cfg.ABEnabled {
		if err := app.initAccelByteSDKAuth(); err != nil {
			return nil, fmt.Errorf("failed to init AccelByte SDK: %w", err)
		}
	} else {
		logrus.Warn("AccelByte SDK disabled, grant_item and update_stat actions run in dry-run mode")
	}

	// ============================================================
	// Step 2: Initialize Redis
	// ============================================================
	redisClient, err := service.NewRedisClient(ctx, service.RedisServiceConfig{
		Host:       cfg.RedisHost,
		Port:       cfg.RedisPort,
		Password:   cfg.RedisPassword,
		MaxRetries: cfg.RedisMaxRetries,
		RetryDelay: time.Duration(cfg.RedisRetryDelayMs) * time.Millisecond,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to init Redis: %w", err)
	}
	app.redisClient = redisClient

	// ============================================================
	// Step 3: Initialize NATS
	// ============================================================
	if cfg.NatsEnabled {
		if err := app.initNats(); err != nil {
			app.closeConnections()
			return nil, fmt.Errorf("failed to init NATS: %w", err)
		}
	}

	// ============================================================
	// Step 4: Load pipeline configuration
	// ============================================================
	pipelineConfig, err := pipeline.LoadConfig(cfg.ConfigPath)
	if err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to load pipeline config from %s: %w", cfg.ConfigPath, err)
	}
	logrus.Infof("loaded pipeline configuration from %s", cfg.ConfigPath)

	// ============================================================
	// Step 5: Initialize external services
	// ============================================================
	gameStore := store.NewRedisStore(redisClient, store.RedisStoreConfig{
		CallTimeout: time.Duration(cfg.StoreTimeoutMs) * time.Millisecond,
		MaxAttempts: cfg.StoreMaxAttempts,
	})
	app.healthChecker = store.NewHealthChecker(redisClient, 0)
	app.dispatcher = notify.NewDispatcher(app.initNotifier(), cfg.NotifyTimeout)
	ledger := arsenal.NewLedger(gameStore, clk, tuning)

	// ============================================================
	// Step 6: Bootstrap pipeline components
	// ============================================================
	// Signal Processor → Rule Engine → Action Executor → Pipeline Manager
	// ============================================================
	processor := bootstrap.InitSignalProcessor(gameStore, cfg.ABNamespace)

	ruleEngine, ruleRegistry, err := bootstrap.InitRuleEngine(pipelineConfig)
	if err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to init rule engine: %w", err)
	}

	// ============================================================
	// DEVELOPER: Action dependencies setup
	// ============================================================
	// Interface fields are only set when the SDK is enabled so a
	// disabled SDK leaves them nil and the actions run dry.
	// ============================================================
	deps := &actionBuiltin.Dependencies{
		Arsenal:   ledger,
		Namespace: cfg.ABNamespace,
	}
	if cfg.ABEnabled {
		deps.ItemGranter = app.initItemGranter()
		deps.StatUpdater = app.initStatisticService()
	}

	actionExecutor, actionRegistry, err := bootstrap.InitActionExecutor(pipelineConfig, deps)
	if err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to init action executor: %w", err)
	}

	app.pipelineManager, err = bootstrap.InitPipeline(bootstrap.Engines{
		Processor: processor,
		Rules:     ruleEngine,
		RuleSet:   ruleRegistry,
		Actions:   actionExecutor,
		ActionSet: actionRegistry,
	}, pipelineConfig, slog.Default())
	if err != nil {
		app.closeConnections()
		return nil, err
	}

	// ============================================================
	// Step 7: Game components
	// ============================================================
	// The pipeline manager is the signal emitter of every component
	// that reports gameplay events.
	// ============================================================
	strikes := strike.NewApplier(gameStore, app.dispatcher, app.pipelineManager, clk, tuning)
	app.tripwires = tripwire.NewCoordinator(gameStore, gameStore, ledger, strikes, app.initRegistrar(), app.dispatcher, clk, tuning)
	app.inactivity = inactivity.NewMonitor(gameStore, gameStore, strikes, app.dispatcher, app.pipelineManager, clk, tuning)
	app.geofenceEntries = make(chan tripwire.TripwireTriggered, geofenceEntryBuffer)

	engine := handler.NewTagEngine(handler.Dependencies{
		Lobby:      lobby.NewService(gameStore, clk, tuning, nil),
		SafeZones:  safezone.NewService(gameStore, app.dispatcher, clk, tuning),
		Validator:  tag.NewValidator(gameStore, gameStore, ledger, strikes, app.dispatcher, clk, tuning),
		Tripwires:  app.tripwires,
		Radar:      radar.NewService(gameStore, gameStore, ledger, clk, tuning),
		Inactivity: app.inactivity,
		Ledger:     ledger,
		Pipeline:   app.pipelineManager,
		Tuning:     tuning,
	})

	// ============================================================
	// Step 8: Setup servers
	// ============================================================
	app.grpcServer = server.NewGRPCServer(cfg.GRPCPort, engine)
	if err := app.grpcServer.Setup(); err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to setup gRPC server: %w", err)
	}

	app.metricsServer = server.NewMetricsServer(cfg.MetricsPort, "/metrics")
	if err := app.metricsServer.Setup(); err != nil {
		app.closeConnections()
		return nil, fmt.Errorf("failed to setup metrics server: %w", err)
	}

	// ============================================================
	// Step 9: Setup telemetry
	// ============================================================
	if cfg.OtelEnabled {
		shutdownTelemetry, err := server.SetupTelemetry(ctx, common.TracerConfig{
			ServiceName:    cfg.ServiceName,
			Environment:    cfg.Environment,
			ZipkinEndpoint: cfg.ZipkinEndpoint,
			SampleRatio:    cfg.TraceSampleRatio,
		})
		if err != nil {
			app.closeConnections()
			return nil, fmt.Errorf("failed to setup telemetry: %w", err)
		}
		app.shutdownTelemetry = shutdownTelemetry
	}

	logrus.Info("application initialized successfully")

	return app, nil
}

// initAccelByteSDKAuth initializes the AccelByte SDK auth by performing client login.
//
// ============================================================
// DEVELOPER: AccelByte Client Auth configuration
// ============================================================
// The Client Auth is configured via environment variables:
// - AB_BASE_URL: AccelByte platform base URL
// - AB_CLIENT_ID: OAuth2 client ID
// - AB_CLIENT_SECRET: OAuth2 client secret
// - AB_NAMESPACE: Game namespace
//
// The SDK uses automatic token refresh (RefreshRate: 0.8 = 80% of TTL).
//
// IMPORTANT: The configRepo and tokenRepo are stored in the App struct
// and must be reused by all AccelByte services to share authentication.
// ============================================================
func (a *App) initAccelByteSDKAuth() error {
	a.configRepo = sdkAuth.DefaultConfigRepositoryImpl()
	a.tokenRepo = sdkAuth.DefaultTokenRepositoryImpl()
	refreshRepo := &sdkAuth.RefreshTokenImpl{AutoRefresh: true, RefreshRate: 0.8}

	oauthService := iam.OAuth20Service{
		Client:                 factory.NewIamClient(a.configRepo),
		ConfigRepository:       a.configRepo,
		TokenRepository:        a.tokenRepo,
		RefreshTokenRepository: refreshRepo,
	}

	clientID := a.configRepo.GetClientId()
	clientSecret := a.configRepo.GetClientSecret()

	if err := oauthService.LoginClient(&clientID, &clientSecret); err != nil {
		return fmt.Errorf("unable to login using clientId and clientSecret: %w", err)
	}

	logrus.Info("AccelByte SDK initialized and authenticated")
	return nil
}

// initNats starts the embedded broker when asked to and connects the client.
func (a *App) initNats() error {
	url := a.cfg.NatsURL
	if a.cfg.NatsEmbedded {
		ns, err := messaging.NewNatsServer(
			messaging.WithHost(a.cfg.NatsHost),
			messaging.WithPort(a.cfg.NatsPort),
			messaging.WithStartTimeout(a.cfg.NatsStartTimeout),
		)
		if err != nil {
			return err
		}
		if err := ns.Start(); err != nil {
			return err
		}
		a.natsServer = ns
		url = ns.ClientURL()
		logrus.Infof("embedded NATS server listening at %s", url)
	}

	client, err := messaging.Connect(url, a.cfg.ServiceName)
	if err != nil {
		return err
	}
	a.natsClient = client
	logrus.Infof("connected to NATS at %s", url)
	return nil
}

// initNotifier picks the notification transport. Every choice also logs
// notifications so operators can follow the game.
func (a *App) initNotifier() notify.Notifier {
	switch a.cfg.Notifier {
	case config.NotifierAccelByte:
		lobbyService := &sdkLobby.NotificationService{
			Client:           factory.NewLobbyClient(a.configRepo),
			ConfigRepository: a.configRepo,
			TokenRepository:  a.tokenRepo,
		}
		return notify.Multi{
			service.NewLobbyNotifier(lobbyService, service.LobbyNotifierConfig{Namespace: a.cfg.ABNamespace}),
			notify.LogNotifier{},
		}
	case config.NotifierNats:
		return notify.Multi{messaging.NewNatsNotifier(a.natsClient), notify.LogNotifier{}}
	default:
		return notify.LogNotifier{}
	}
}

// initRegistrar delivers geofence sets over NATS when available.
func (a *App) initRegistrar() tripwire.GeofenceRegistrar {
	if a.natsClient == nil {
		return tripwire.LogRegistrar{}
	}
	return messaging.NewNatsGeofenceRegistrar(a.natsClient)
}

// ============================================================
// DEVELOPER: Add custom service initializers here
// ============================================================
// IMPORTANT: Always reuse a.configRepo and a.tokenRepo to share the
// authenticated session. Do NOT call DefaultConfigRepositoryImpl() or
// DefaultTokenRepositoryImpl() again - this creates new empty instances!
// ============================================================

// initItemGranter creates an entitlement service for granting items.
func (a *App) initItemGranter() *service.EntitlementService {
	fulfillmentService := &platform.FulfillmentService{
		Client:           factory.NewPlatformClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}

	return service.NewEntitlementService(fulfillmentService, service.EntitlementServiceConfig{
		Namespace: a.cfg.ABNamespace,
	})
}

// initStatisticService initializes the statistic service client.
func (a *App) initStatisticService() *service.StatisticService {
	statisticService := &social.UserStatisticService{
		Client:           factory.NewSocialClient(a.configRepo),
		ConfigRepository: a.configRepo,
		TokenRepository:  a.tokenRepo,
	}

	return service.NewStatisticService(statisticService,
		service.StatisticServiceConfig{
			Namespace: a.cfg.ABNamespace,
		})
}

// closeConnections releases what New opened before it failed.
func (a *App) closeConnections() {
	if a.natsClient != nil {
		a.natsClient.Close()
	}
	if a.natsServer != nil {
		a.natsServer.Shutdown()
	}
	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			logrus.Errorf("Redis close error: %v", err)
		}
	}
}
