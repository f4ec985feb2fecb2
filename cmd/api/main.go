package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/aurevia/walletsync/internal/infra/chain"
	"github.com/aurevia/walletsync/internal/infra/postgres"
	infraRedis "github.com/aurevia/walletsync/internal/infra/redis"
	"github.com/aurevia/walletsync/internal/platform/balance"
	"github.com/aurevia/walletsync/internal/platform/history"
	"github.com/aurevia/walletsync/internal/platform/provider"
	"github.com/aurevia/walletsync/internal/platform/refresh"
	"github.com/aurevia/walletsync/internal/transport/httpapi"
	"github.com/aurevia/walletsync/internal/transport/httpapi/handler"
	"github.com/aurevia/walletsync/internal/transport/httpapi/middleware"
	"github.com/aurevia/walletsync/pkg/config"
	"github.com/aurevia/walletsync/pkg/logger"
)

func main() {
	// Create context that listens for termination signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log := logger.NewDefault(cfg.Env)
	log.Info("Starting WalletSync API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"target_chain_id", cfg.TargetChainID,
	)

	// Load network descriptors
	networks, err := config.LoadNetworksConfig(cfg.NetworksConfigPath)
	if err != nil {
		log.Error("Failed to load networks config", "error", err)
		os.Exit(1)
	}
	targetNetwork, ok := networks.GetNetwork(cfg.TargetChainID)
	if !ok {
		log.Error("Target chain is not present in networks config", "chain_id", cfg.TargetChainID)
		os.Exit(1)
	}

	// Initialize database connection pool
	db, err := postgres.NewPool(ctx, postgres.Config{URL: cfg.DatabaseURL})
	if err != nil {
		log.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()
	log.Info("Database connection established")

	// Initialize Redis client for balance snapshots
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisURL,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Error("Failed to connect to Redis", "error", err)
		os.Exit(1)
	}
	log.Info("Redis connection established")

	// Initialize the watch-only node provider
	var watchAccounts []string
	if cfg.WatchAddress != "" {
		watchAccounts = []string{cfg.WatchAddress}
	}
	nodeProvider, err := chain.NewNodeProvider(ctx, networks, cfg.TargetChainID, watchAccounts, log)
	if err != nil {
		log.Error("Failed to initialize node provider", "error", err)
		os.Exit(1)
	}
	defer nodeProvider.Close()
	log.Info("Node provider initialized", "chain_id", cfg.TargetChainID)

	// Wire the refresh coordinator through session hooks. The coordinator
	// variable is bound before Start runs, so the closures always see it.
	var coordinator *refresh.Coordinator
	hooks := provider.Hooks{
		OnCorrectNetwork: func() {
			go coordinator.Refresh(ctx, true)
		},
		OnWrongNetwork: func() {
			coordinator.ZeroTokenBalance()
		},
		OnAccountChanged: func(address string) {
			go coordinator.Refresh(ctx, true)
		},
		OnDisconnect: func() {
			coordinator.Reset()
		},
	}

	sessionManager := provider.NewSessionManager(nodeProvider, cfg.TargetChainID, *targetNetwork, hooks, log)

	// Balance fetcher reads through the provider's active network connection
	fetcher := balance.NewFetcher(nodeProvider, log)

	// History loader reads the investor transaction store
	transactionRepo := postgres.NewTransactionRepository(db.Pool)
	loader := history.NewLoaderWithLimit(transactionRepo, cfg.HistoryLimit, log)

	balanceCache := infraRedis.NewBalanceCache(redisClient, log)

	coordinator = refresh.NewCoordinator(sessionManager, fetcher, loader, balanceCache, nil, refresh.Config{
		TokenContract:  cfg.TokenContract,
		SilentInterval: cfg.SilentRefreshInterval,
	}, log)

	sessionManager.Start(ctx)
	defer sessionManager.Stop()

	coordinator.Start(ctx)
	defer coordinator.Stop()

	// Establish the watch session and run the first full refresh
	if _, err := sessionManager.Connect(ctx); err != nil {
		log.Warn("Initial wallet connect failed", "error", err)
	} else {
		coordinator.Refresh(ctx, true)
	}

	// Initialize HTTP handlers
	jwtSvc := middleware.NewJWTService(cfg.JWTSecret)
	healthHandler := handler.NewHealthHandler(db)
	sessionHandler := handler.NewSessionHandler(sessionManager)
	balanceHandler := handler.NewBalanceHandler(coordinator)
	transactionHandler := handler.NewTransactionHandler(coordinator)

	// Determine allowed origins for CORS
	allowedOrigins := []string{"http://localhost:5173", "http://localhost:5174"} // Vite ports
	if cfg.IsProduction() {
		if origins := os.Getenv("ALLOWED_ORIGINS"); origins != "" {
			allowedOrigins = []string{origins}
		}
	}

	// Create HTTP router
	r := httpapi.NewRouter(httpapi.Config{
		Logger:             log,
		AllowedOrigins:     allowedOrigins,
		HealthHandler:      healthHandler,
		SessionHandler:     sessionHandler,
		BalanceHandler:     balanceHandler,
		TransactionHandler: transactionHandler,
		JWTMiddleware:      middleware.JWTMiddleware(jwtSvc),
	})

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("Server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for termination signal
	<-ctx.Done()
	log.Info("Shutdown signal received")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server shutdown failed", "error", err)
		os.Exit(1)
	}

	log.Info("Server stopped gracefully")
}
