package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"shopez/api"
	"shopez/internal/apiclient"
	"shopez/internal/config"
	"shopez/internal/services"
	"shopez/internal/session"
	"shopez/internal/storefront"
)

func main() {
	_ = godotenv.Load(".env")

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	logger := newLogger(cfg)
	defer logger.Sync()

	logger.Info("Starting ShopEZ storefront",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("api_base_url", cfg.API.BaseURL),
		zap.String("session_store", cfg.Session.Store),
	)

	// Initialize services
	productService := services.NewProductService()
	productService.InitSampleData()
	orderService := services.NewOrderService(nil)

	stores := session.MemoryFactory()
	if cfg.Session.Store == config.StoreRedis {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		rdb, err := session.NewRedisClient(ctx, cfg.Redis.URL)
		cancel()
		if err != nil {
			logger.Fatal("Failed to connect to redis", zap.Error(err))
		}
		defer rdb.Close()
		stores = session.RedisFactory(rdb, cfg.Session.StoreTTL)
	}

	client := apiclient.NewClient(cfg.API.BaseURL, cfg.API.Timeout, logger.Named("apiclient"))
	registry := storefront.NewRegistry(client, stores, productService, orderService, storefront.Config{
		SessionTimeout: cfg.Session.Timeout,
		DefaultUserID:  cfg.Session.DefaultUserID,
	}, logger.Named("storefront"))

	// Setup router
	router := api.NewRouter(cfg, registry, productService, logger)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.WithCORS(router, cfg.HTTP.AllowedOrigins),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.API.Timeout + 10*time.Second,
		IdleTimeout:  60 * time.Second,
	}
	server.RegisterOnShutdown(registry.CloseAll)

	// Drop idle browser sessions that never got past OTP
	pruneCtx, stopPrune := context.WithCancel(context.Background())
	defer stopPrune()
	go func() {
		ticker := time.NewTicker(10 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-pruneCtx.Done():
				return
			case <-ticker.C:
				registry.Prune(cfg.Session.StoreTTL)
			}
		}
	}()

	// Run server in goroutine
	go func() {
		logger.Info("Server listening", zap.String("address", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}

func newLogger(cfg *config.Config) *zap.Logger {
	var (
		logger *zap.Logger
		err    error
	)
	if cfg.IsProduction() {
		zc := zap.NewProductionConfig()
		if lvl, perr := zap.ParseAtomicLevel(cfg.LogLevel); perr == nil {
			zc.Level = lvl
		}
		logger, err = zc.Build()
	} else {
		logger, err = zap.NewDevelopment()
	}
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	return logger
}
