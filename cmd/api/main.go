package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"smart-dispatch/internal/core/cache"
	"smart-dispatch/internal/core/config"
	"smart-dispatch/internal/core/database"
	"smart-dispatch/internal/core/httpclient"
	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/core/proxy"
	"smart-dispatch/internal/core/server"
	"smart-dispatch/internal/features/delivery/adapters"
	"smart-dispatch/internal/features/delivery/domain"
	"smart-dispatch/internal/features/delivery/handler"
	"smart-dispatch/internal/features/delivery/ports"
	"smart-dispatch/internal/features/delivery/service"

	"github.com/spf13/pflag"
	"go.uber.org/zap"
)

// providerHTTPTimeout bounds any single provider API call, including delivery creation.
const providerHTTPTimeout = 30 * time.Second

// @title Smart Dispatch API
// @version 1.0
// @description This API compares delivery quotes across Uber Direct, DoorDash Drive and restaurant drivers, and dispatches orders with a single fallback.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	configDir := pflag.String("config-dir", ".", "directory containing the .env file")
	pflag.Parse()

	cfg, err := config.Load(*configDir)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.InitWithFile(cfg.Environment, cfg.LogLevel, logger.FileConfig{
		Path:       cfg.LogFile.Path,
		MaxSizeMB:  cfg.LogFile.MaxSizeMB,
		MaxBackups: cfg.LogFile.MaxBackups,
		MaxAgeDays: cfg.LogFile.MaxAgeDays,
	}); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Initialize Database
	db, err := database.Open(cfg.Database)
	if err != nil {
		l.Fatal("Failed to open database", zap.Error(err))
	}
	defer database.Close(db)

	if cfg.Database.AutoMigrate {
		if err := adapters.Migrate(db); err != nil {
			l.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	// Initialize Redis
	redisCache, err := cache.NewRedisAdapter(cfg.Redis.URL)
	if err != nil {
		l.Fatal("Failed to create Redis client", zap.Error(err))
	}
	defer redisCache.Close()

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := redisCache.Ping(pingCtx); err != nil {
		l.Warn("Redis is not reachable yet", zap.Error(err))
	}
	cancel()

	// Initialize Provider HTTP Client
	proxySettings := proxy.Settings{
		Enabled:  cfg.Proxy.Enabled,
		Hostname: cfg.Proxy.Hostname,
		Port:     cfg.Proxy.Port,
		Username: cfg.Proxy.Username,
		Password: cfg.Proxy.Password,
	}
	httpClient, err := httpclient.NewProxiedClient(providerHTTPTimeout, proxySettings)
	if err != nil {
		l.Fatal("Failed to create provider HTTP client", zap.Error(err))
	}
	if proxySettings.HasProxy() {
		l.Info("Provider calls go through proxy", zap.String("proxy", proxySettings.HostPort()))
	}

	// Initialize Delivery Providers
	distance := adapters.NewFixedDistanceEstimator(cfg.Dispatch.AssumedDistanceMiles)
	uberTokens := adapters.NewUberTokenSource(cfg.Uber.AuthURL, httpClient, redisCache)

	providers := []ports.DeliveryProvider{
		adapters.NewUberAdapter(cfg.Uber.APIURL, httpClient, uberTokens, distance,
			cfg.Dispatch.AssumedDistanceMiles, cfg.Dispatch.MockUnconfiguredProviders),
		adapters.NewDoorDashAdapter(cfg.DoorDash.APIURL, httpClient, distance,
			cfg.Dispatch.AssumedDistanceMiles, cfg.Dispatch.MockUnconfiguredProviders),
		adapters.NewSelfDeliveryAdapter(adapters.NewGormSelfDeliveryStore(db)),
	}

	// Initialize Smart Dispatch Service & Handler
	quoteStore := adapters.NewRedisQuoteStore(redisCache)
	aggregator := service.NewAggregator(providers, quoteStore, cfg.Dispatch.ProviderTimeout())

	tenants := adapters.NewGormTenantRepository(db, adapters.GlobalCredentials{
		Uber: domain.UberCredentials{
			ClientID:     cfg.Uber.ClientID,
			ClientSecret: cfg.Uber.ClientSecret,
			CustomerID:   cfg.Uber.CustomerID,
			Sandbox:      cfg.Uber.Sandbox,
		},
		DoorDash: domain.DoorDashCredentials{
			DeveloperID:   cfg.DoorDash.DeveloperID,
			KeyID:         cfg.DoorDash.KeyID,
			SigningSecret: cfg.DoorDash.SigningSecret,
			Sandbox:       cfg.DoorDash.Sandbox,
		},
	})

	dispatchSvc := service.NewDispatchService(service.DispatchDeps{
		Aggregator: aggregator,
		Providers:  providers,
		Tenants:    tenants,
		Orders:     adapters.NewGormOrderRepository(db),
		Audit:      adapters.NewGormAuditLog(db),
		Quotes:     quoteStore,
		Locker:     adapters.NewRedisDispatchLocker(redisCache),
		LockTTL:    cfg.Dispatch.LockTTL(),
	})
	deliveryHdl := handler.NewDeliveryHandler(dispatchSvc)

	srv := server.New(cfg)

	// Register Routes
	srv.App.Post("/api/delivery/smart/create", deliveryHdl.CreateSmartDelivery)
	srv.App.Post("/api/delivery/smart/quotes", deliveryHdl.GetSmartQuotes)
	srv.RegisterHealth(
		server.HealthCheck{Name: "database", Check: func(ctx context.Context) error { return database.Ping(ctx, db) }},
		server.HealthCheck{Name: "redis", Check: redisCache.Ping},
	)

	go func() {
		if err := srv.Run(); err != nil {
			l.Fatal("Server failed to start", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		l.Error("Server shutdown failed", zap.Error(err))
	}
}
