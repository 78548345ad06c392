package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/backend"
	"sistemaweb/portal/internal/cache"
	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/handlers"
	"sistemaweb/portal/internal/log"
	"sistemaweb/portal/internal/server"
	"sistemaweb/portal/internal/session"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := log.New("portal", cfg.Environment)

	ctx := context.Background()

	// Sessions live in redis when it is reachable; the in-process store is
	// the single-instance fallback.
	var store session.Store
	redisClient, err := cache.NewRedisClient(ctx, cfg.Redis)
	if err != nil {
		logger.Warn().Err(err).Msg("redis unavailable, using in-memory session store")
		store = session.NewMemoryStore()
	} else {
		store = session.NewRedisStore(redisClient)
	}

	apiClient := backend.NewHTTPClient(cfg.Backend, cfg.Production(), logger)
	sessions := session.NewManager(apiClient, store, cfg.Session, logger)

	handlerSet := handlers.NewHandlerSet(logger, cfg, sessions, apiClient)
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, redisClient)
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, redisClient *redis.Client) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("redis close error")
		}
	}

	logger.Info().Msg("server exited cleanly")
}
