// mockapi is the development backend for the portal. It implements the
// administrative REST contract against postgres-backed users and opaque
// bearer tokens, and seeds a department admin so the portal is usable out of
// the box.
package main

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"sistemaweb/portal/internal/config"
	"sistemaweb/portal/internal/database"
	"sistemaweb/portal/internal/jobs"
	"sistemaweb/portal/internal/log"
	"sistemaweb/portal/internal/mockapi"
	"sistemaweb/portal/internal/models"
	"sistemaweb/portal/internal/repository"
	"sistemaweb/portal/internal/security"
	"sistemaweb/portal/internal/server"
	"sistemaweb/portal/internal/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	// The mock API listens where the portal's first backend candidate
	// expects it.
	cfg.HTTP.Port = 8000

	logger := log.New("mockapi", cfg.Environment)

	ctx := context.Background()

	dbPool, err := database.NewPostgresPool(ctx, cfg.Postgres)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect postgres")
	}

	users := repository.NewUserRepository(dbPool)
	tokens := repository.NewTokenRepository(dbPool)
	auth := service.NewAuthService(users, tokens, cfg.Token.TTL, logger)

	if err := seedAdmin(ctx, users, logger); err != nil {
		logger.Warn().Err(err).Msg("admin seed failed")
	}

	handlerSet := mockapi.NewHandlerSet(logger, auth, mockapi.NewFixtures())
	httpServer := server.NewHTTPServer(cfg, logger, handlerSet)

	sweeper := jobs.NewSweeper(tokens, cfg.Token.SweepSchedule, logger)
	if err := sweeper.Start(); err != nil {
		logger.Error().Err(err).Msg("sweeper start failed")
	}

	go func() {
		if err := httpServer.Start(); err != nil {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	waitForShutdown(logger, httpServer, sweeper, dbPool)
}

// seedAdmin makes sure the default OAC admin exists for local development.
func seedAdmin(ctx context.Context, users *repository.UserRepository, logger zerolog.Logger) error {
	const cedula = "12345678"

	if _, err := users.FindByCedula(ctx, cedula); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrUserNotFound) {
		return err
	}

	passwordHash, err := security.HashPassword("password123")
	if err != nil {
		return err
	}

	_, err = users.Create(ctx, models.User{
		Cedula:       cedula,
		Username:     "jfernando",
		Email:        "admin@oac.local",
		PasswordHash: passwordHash,
		FirstName:    "Jose",
		LastName:     "Fernando",
		Status:       models.StatusAdmin,
		Department:   models.DepartmentOAC,
	})
	if err != nil {
		return err
	}

	logger.Info().Str("cedula", cedula).Msg("seeded default admin")
	return nil
}

func waitForShutdown(logger zerolog.Logger, srv *server.HTTPServer, sweeper *jobs.Sweeper, db *pgxpool.Pool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	logger.Info().Msg("shutdown signal received")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown failed")
	}

	sweeper.Stop()
	db.Close()

	logger.Info().Msg("server exited cleanly")
}
