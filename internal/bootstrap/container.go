package bootstrap

import (
	"context"
	"log"
	"time"

	"ai-playground-be/internal/config"
	"ai-playground-be/internal/connectivity"
	"ai-playground-be/internal/controller"
	"ai-playground-be/internal/pkg/logger"
	"ai-playground-be/internal/pkg/serverutils"
	"ai-playground-be/internal/repository/unitofwork"
	"ai-playground-be/internal/service"
	"ai-playground-be/internal/websocket"
	"ai-playground-be/pkg/cache"
	"ai-playground-be/pkg/llm/openrouter"

	pktNats "ai-playground-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	AuthController    controller.IAuthController
	OAuthController   controller.IOAuthController
	SessionController controller.ISessionController
	AiController      controller.IAiController
	HealthController  controller.IHealthController

	// Middleware shared with the server for the websocket upgrade path
	JwtMiddleware fiber.Handler

	// Connectivity supervisors (exposed for main.go lifecycle control)
	DatabaseSupervisor *connectivity.Supervisor
	CacheSupervisor    *connectivity.Supervisor

	// Background services
	NotifierService service.INotifierService

	// WebSockets
	WebSocketHub *websocket.Hub

	Logger logger.ILogger
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core facades
	uowFactory := unitofwork.NewRepositoryFactory(db)
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	// 2. Event bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 2.5 Infrastructure
	// NATS (optional; absence only disables the external event relay)
	var natsPub *pktNats.Publisher
	if cfg.App.NatsURL != "" {
		var err error
		natsPub, err = pktNats.NewPublisher(cfg.App.NatsURL)
		if err != nil {
			log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
		}
	}

	// Redis, falling back to an in-process cache when not configured
	var (
		cacheStore  cache.Store
		cachePinger connectivity.Pinger
	)
	if cfg.App.RedisURL != "" {
		opt, err := redis.ParseURL(cfg.App.RedisURL)
		if err != nil {
			log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
			opt = &redis.Options{
				Addr: cfg.App.RedisURL,
			}
		}
		rdb := redis.NewClient(opt)
		cacheStore = cache.NewRedisStore(rdb)
		cachePinger = connectivity.NewRedisPinger(rdb)
	} else {
		log.Println("[INFO] REDIS_URL not set, using in-memory cache")
		cacheStore = cache.NewMemoryStore(5 * time.Minute)
		cachePinger = connectivity.StaticPinger{}
	}

	// Connectivity supervisors own the connect/retry lifecycle
	supOpts := connectivity.Options{MaxAttempts: cfg.Retry.MaxAttempts}
	dbSupervisor := connectivity.NewSupervisor("database", connectivity.NewGormPinger(db), sysLogger, supOpts)
	cacheSupervisor := connectivity.NewSupervisor("cache", cachePinger, sysLogger, supOpts)

	// WebSocket hub
	wsLogger := logger.NewIsolatedLogger("logs/notifications.log")
	wsHub := websocket.NewHub(wsLogger)
	go wsHub.Run()

	// 3. Services
	llmProvider := openrouter.NewOpenRouterProvider(cfg.Llm.ApiURL, cfg.Llm.ApiKey, cfg.Llm.Model)

	publisherService := service.NewPublisherService(pubSub)
	notifierService := service.NewNotifierService(pubSub, wsHub, natsPub, wsLogger)

	authService := service.NewAuthService(uowFactory, cfg, natsPub)
	oauthService := service.NewOAuthService(uowFactory, cfg, cacheStore)
	sessionService := service.NewSessionService(uowFactory, cacheStore, publisherService)
	generationService := service.NewGenerationService(llmProvider)

	// 4. Middleware
	jwtMiddleware := serverutils.NewJwtMiddleware(cfg.Auth.JwtSecret)
	dbGate := connectivity.GateMiddleware(dbSupervisor, cfg.Retry.RetryAfter)

	// 5. Controllers
	return &Container{
		AuthController:    controller.NewAuthController(authService, dbGate),
		OAuthController:   controller.NewOAuthController(oauthService, cfg, dbGate),
		SessionController: controller.NewSessionController(sessionService, jwtMiddleware, dbGate),
		AiController:      controller.NewAiController(generationService, jwtMiddleware),
		HealthController:  controller.NewHealthController(dbSupervisor, cacheSupervisor),

		JwtMiddleware: jwtMiddleware,

		DatabaseSupervisor: dbSupervisor,
		CacheSupervisor:    cacheSupervisor,

		NotifierService: notifierService,
		WebSocketHub:    wsHub,
		Logger:          sysLogger,
	}
}

// Start launches the background workers owned by the container.
func (c *Container) Start(ctx context.Context) {
	c.DatabaseSupervisor.Start()
	c.CacheSupervisor.Start()

	go func() {
		if err := c.NotifierService.Start(ctx); err != nil {
			log.Printf("Background notifier error: %v", err)
		}
	}()
}
