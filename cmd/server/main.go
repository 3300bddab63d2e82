package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"axom-backend/internal/config"
	"axom-backend/internal/database"
	"axom-backend/internal/handlers"
	"axom-backend/internal/logger"
	"axom-backend/internal/repository"
	"axom-backend/internal/router"
	"axom-backend/internal/services"
	"axom-backend/internal/websocket"
	"axom-backend/internal/worker"
)

func main() {
	// ──── Step 1: Load Configuration ────
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ Configuration failed: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		fmt.Fprintf(os.Stderr, "✗ Logger initialization failed: %v\n", err)
		os.Exit(1)
	}

	err = run(cfg)
	if err != nil {
		logger.Error("✗ Server exited with error", err)
	}
	logger.Sync()
	if err != nil {
		os.Exit(1)
	}
}

// run owns every resource it opens; its deferred cleanups always execute before main exits.
func run(cfg *config.Config) error {
	logger.Infow("🚀 Starting AXOM-GPT backend", "env", cfg.Env, "port", cfg.Port)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ──── Step 2: Initialize Gemini Client ────
	var provider services.Provider
	gemini, err := services.NewGeminiProvider(ctx, cfg.GeminiAPIKey, cfg.GeminiModel, cfg.GeminiTemperature)
	if err != nil {
		logger.Warnw("✗ Gemini client unavailable, chat requests will fail", "error", err)
		provider = services.UnavailableProvider{Err: err}
	} else {
		defer gemini.Close()
		provider = gemini
		logger.Infow("✓ Gemini client initialized", "model", cfg.GeminiModel)
	}

	// ──── Step 3: Initialize Redis Clients (optional) ────
	var redisClients *database.RedisClients
	if cfg.RedisURL != "" {
		redisClients, err = database.NewRedisClients(cfg.RedisURL)
		if err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		defer redisClients.Close()
		logger.Info("✓ Redis connected")
	}

	// ──── Step 4: Initialize PostgreSQL Archive (optional) ────
	var (
		workerPool *worker.Pool
		reporter   *services.ArchiveReporter
	)
	if cfg.ArchiveEnabled() {
		pool, err := database.NewPostgresPool(cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("postgres connection failed: %w", err)
		}
		defer pool.Close()
		logger.Info("✓ PostgreSQL connected")

		if err := database.RunMigrations(pool, cfg.MigrationsDir); err != nil {
			return fmt.Errorf("database migration failed: %w", err)
		}
		logger.Info("✓ Database migrations applied")

		exchangeRepo := repository.NewExchangeRepo(pool)
		workerPool = worker.NewPool(redisClients.Queue, exchangeRepo, cfg.ArchiveWorkers)
		workerPool.Start()

		reporter = services.NewArchiveReporter(exchangeRepo)
		reporter.Start()
	} else if cfg.DatabaseURL != "" {
		logger.Warnw("DATABASE_URL is set but REDIS_URL is not; exchange archive disabled")
	}

	// ──── Step 5: Wire Chat Session and WebSocket Hub ────
	var (
		wsHub    *websocket.Hub
		observer services.SessionObserver
	)
	if redisClients != nil {
		wsHub = websocket.NewHub(redisClients.PubSub)
		observer = services.NewRedisNotifier(redisClients.PubSub, redisClients.Queue, cfg.ArchiveEnabled())
	} else {
		wsHub = websocket.NewHub(nil)
		observer = wsHub
	}

	session := services.NewChatSession(provider, observer, cfg.GeminiTimeout)
	wsHub.SetHistorySource(session)
	wsHub.Start(ctx)
	logger.Info("✓ Chat session and WebSocket hub ready")

	// ──── Step 6: Start HTTP Server ────
	chatHandler := handlers.NewChatHandler(session)
	r := router.New(chatHandler, wsHub.HandleWebSocket, cfg.AllowedOrigin)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Port),
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.GeminiTimeout + 15*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof("✓ AXOM-GPT backend ready on http://localhost:%s", cfg.Port)
		logger.Infof("  WS: ws://localhost:%s/ws", cfg.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	// Graceful shutdown
	var runErr error
	select {
	case <-ctx.Done():
		logger.Info("Shutting down...")
	case runErr = <-serverErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server shutdown failed", err)
	}

	if workerPool != nil {
		workerPool.Stop()
	}
	if reporter != nil {
		reporter.Stop()
	}
	logger.Info("Server stopped")
	return runErr
}
