package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	mongoadapter "github.com/awaishyderbrohi/rentify-discovery/internal/adapter/mongo"
	natsadapter "github.com/awaishyderbrohi/rentify-discovery/internal/adapter/nats"
	redisadapter "github.com/awaishyderbrohi/rentify-discovery/internal/adapter/redis"
	"github.com/awaishyderbrohi/rentify-discovery/internal/app/config"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/logger"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/metrics"
	"github.com/awaishyderbrohi/rentify-discovery/internal/platform/tracer"
	httpport "github.com/awaishyderbrohi/rentify-discovery/internal/port/http"
	"github.com/awaishyderbrohi/rentify-discovery/internal/service"
)

const serviceName = "discovery-service"

type App struct {
	cfg            *config.Config
	log            logger.Logger
	server         *httpport.Server
	metrics        *metrics.Manager
	tracerProvider *sdktrace.TracerProvider
	mongoClient    *mongo.Client
	redisClient    *redis.Client
	natsConn       *nats.Conn
}

func New(cfg *config.Config) (*App, error) {
	ctx := context.Background()

	logCfg := logger.Config{
		Level:      cfg.Logger.Level,
		Encoding:   cfg.Logger.Encoding,
		TimeFormat: cfg.Logger.TimeFormat,
	}
	appLogger, err := logger.NewZapLogger(logCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	appLogger.Info("Logger initialized")
	appLogger.Infof("Configuration loaded: Env=%s, HTTP Port: %s", cfg.Env, cfg.HTTPServer.Port)

	appLogger.Info("Initializing MongoDB client...")
	mongoClient, err := mongoadapter.NewClient(ctx, cfg.MongoDB)
	if err != nil {
		appLogger.Errorf("Failed to initialize MongoDB client: %v", err)
		return nil, fmt.Errorf("failed to initialize MongoDB client: %w", err)
	}
	appLogger.Info("MongoDB client initialized successfully")

	appLogger.Info("Initializing Redis client...")
	redisClient, err := redisadapter.NewClient(ctx, cfg.Redis)
	if err != nil {
		appLogger.Errorf("Failed to initialize Redis client: %v", err)
		return nil, fmt.Errorf("failed to initialize Redis client: %w", err)
	}
	appLogger.Info("Redis client initialized successfully")

	appLogger.Info("Connecting to NATS...")
	natsConn, err := natsadapter.NewConnection(cfg.NATS)
	if err != nil {
		appLogger.Errorf("Failed to connect to NATS: %v", err)
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	publisher, err := natsadapter.NewPublisher(natsConn)
	if err != nil {
		return nil, fmt.Errorf("failed to create NATS publisher: %w", err)
	}
	appLogger.Info("NATS connection established")

	mm := metrics.NewManager(serviceName)
	tracerProvider := tracer.Init(serviceName, cfg.Tracing.OTLPEndpoint, appLogger)

	db := mongoClient.Database(cfg.MongoDB.Database)
	listingRepo := mongoadapter.NewListingRepository(db)
	favoriteRepo := mongoadapter.NewFavoriteRepository(db)
	sessionRepo := redisadapter.NewSessionRepository(redisClient)
	catalogCache := redisadapter.NewCatalogCache(redisClient)
	appLogger.Info("Repositories initialized")

	discoverySvc := service.NewDiscoveryService(
		listingRepo,
		sessionRepo,
		catalogCache,
		publisher,
		mm,
		appLogger,
		service.DiscoveryServiceConfig{
			PageSize:        cfg.Discovery.PageSize,
			SessionTTL:      cfg.Discovery.SessionTTL,
			CatalogCacheTTL: cfg.Discovery.CatalogCacheTTL,
		},
	)
	favoriteSvc := service.NewFavoriteService(favoriteRepo, listingRepo, appLogger)
	appLogger.Info("Services initialized")

	discoveryHandler := httpport.NewDiscoveryHandler(discoverySvc, appLogger)
	favoriteHandler := httpport.NewFavoriteHandler(favoriteSvc, appLogger)
	router := httpport.NewRouter(discoveryHandler, favoriteHandler, cfg.JWTSecret, mm, appLogger)
	server := httpport.NewServer(cfg.HTTPServer, router, appLogger)
	appLogger.Info("HTTP server instance created")

	return &App{
		cfg:            cfg,
		log:            appLogger,
		server:         server,
		metrics:        mm,
		tracerProvider: tracerProvider,
		mongoClient:    mongoClient,
		redisClient:    redisClient,
		natsConn:       natsConn,
	}, nil
}

func (a *App) Run() {
	a.log.Info("Starting application components...")

	go func() {
		if err := metrics.StartServer(a.cfg.Metrics.Port, a.log, a.metrics.Registry); err != nil {
			a.log.Errorf("Metrics server stopped: %v", err)
		}
	}()

	go func() {
		if err := a.server.Start(); err != nil {
			a.log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()
	a.log.Info("HTTP server started in a goroutine")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	receivedSignal := <-quit
	a.log.Infof("Received shutdown signal: %v. Shutting down application...", receivedSignal)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.HTTPServer.TimeoutGraceful+5*time.Second)
	defer cancel()

	if err := a.server.Stop(shutdownCtx); err != nil {
		a.log.Errorf("Error during HTTP server graceful shutdown: %v", err)
	} else {
		a.log.Info("HTTP server stopped successfully")
	}

	if a.tracerProvider != nil {
		if err := a.tracerProvider.Shutdown(shutdownCtx); err != nil {
			a.log.Errorf("Error shutting down tracer provider: %v", err)
		}
	}

	a.log.Info("Closing external connections...")

	if a.natsConn != nil {
		a.natsConn.Close()
		a.log.Info("NATS connection closed")
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.log.Errorf("Error closing Redis client: %v", err)
		} else {
			a.log.Info("Redis client closed")
		}
	}

	if a.mongoClient != nil {
		if err := a.mongoClient.Disconnect(shutdownCtx); err != nil {
			a.log.Errorf("Error disconnecting from MongoDB: %v", err)
		} else {
			a.log.Info("Disconnected from MongoDB")
		}
	}

	a.log.Info("Application shut down gracefully")
}
