package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lnurl-offlineshop/config"
	httpHandler "lnurl-offlineshop/internal/adapter/http/handler"
	"lnurl-offlineshop/internal/adapter/rates"
	pgStorage "lnurl-offlineshop/internal/adapter/storage/postgres"
	redisStorage "lnurl-offlineshop/internal/adapter/storage/redis"
	"lnurl-offlineshop/internal/adapter/wallet"
	"lnurl-offlineshop/internal/core/ports"
	"lnurl-offlineshop/internal/service"
	"lnurl-offlineshop/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.New(cfg.Log.Level, cfg.Log.Pretty)

	log.Info().
		Str("mode", cfg.Server.Mode).
		Int("port", cfg.Server.Port).
		Str("public_url", cfg.Server.PublicURL).
		Msg("Starting LNURL offlineshop")

	ctx := context.Background()

	// Initialize PostgreSQL pool
	pool, err := pgStorage.NewPool(ctx, cfg.Database, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()
	log.Info().Msg("PostgreSQL connected")

	// Initialize Redis client
	rdb, err := redisStorage.NewClient(ctx, cfg.Redis, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Redis")
	}
	defer rdb.Close()
	log.Info().Msg("Redis connected")

	// Initialize repositories
	shopRepo := pgStorage.NewShopRepo(pool)
	itemRepo := pgStorage.NewItemRepo(pool)

	// Initialize external collaborators
	walletSvc := wallet.NewClient(
		cfg.Wallet.BaseURL,
		cfg.Wallet.APIKey,
		&http.Client{Timeout: cfg.Wallet.Timeout},
		log,
	)
	rateCache := redisStorage.NewRateCache(rdb)
	rateSvc := rates.NewClient(
		cfg.Rates.BaseURL,
		&http.Client{Timeout: cfg.Rates.Timeout},
		rateCache,
		cfg.Rates.CacheTTL,
		log,
	)

	// Initialize business services
	codeSvc := service.NewCodeIssuer(log)
	shopSvc := service.NewShopService(shopRepo, itemRepo, codeSvc, log)
	lnurlSvc := service.NewLnurlService(shopRepo, itemRepo, walletSvc, rateSvc, cfg.Server.PublicURL, log)
	confirmationSvc := service.NewConfirmationService(shopRepo, itemRepo, walletSvc, codeSvc, log)

	// Initialize health checkers
	pgHealth := pgStorage.NewHealthCheck(pool)
	redisHealth := redisStorage.NewHealthCheck(rdb)

	// Setup Gin router with all routes
	router := httpHandler.SetupRouter(httpHandler.RouterDeps{
		ShopSvc:         shopSvc,
		LnurlSvc:        lnurlSvc,
		ConfirmationSvc: confirmationSvc,
		WalletSvc:       walletSvc,
		HealthCheckers:  []ports.HealthChecker{pgHealth, redisHealth},
		Logger:          log,
	})

	// HTTP Server with graceful shutdown
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	// Start server in goroutine
	go func() {
		log.Info().Str("addr", addr).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited")
}
