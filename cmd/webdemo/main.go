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

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/robbertvdzon/webdemo/internal/config"
	"github.com/robbertvdzon/webdemo/internal/handler"
	"github.com/robbertvdzon/webdemo/internal/logger"
	"github.com/robbertvdzon/webdemo/internal/router"
	"github.com/robbertvdzon/webdemo/internal/server"
	"github.com/robbertvdzon/webdemo/internal/service"
)

const shutdownTimeout = 30 * time.Second

func main() {
	// Used until the configured logger exists.
	bootLog := zerolog.New(os.Stderr).With().Timestamp().Logger()

	cfg, err := config.LoadConfig()
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to load config")
	}

	srv, _, err := buildServer(cfg)
	if err != nil {
		bootLog.Fatal().Err(err).Msg("failed to initialize server")
	}
	log := srv.Logger

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}

// buildServer wires logging, services, handlers and routes around cfg.
// The returned server is ready to Start.
func buildServer(cfg *config.Config) (*server.Server, *echo.Echo, error) {
	loggerService, err := logger.NewLoggerService(cfg.Observability)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start New Relic: %w", err)
	}

	log := logger.NewLogger(cfg.Observability, loggerService)

	srv, err := server.New(cfg, &log, loggerService)
	if err != nil {
		return nil, nil, err
	}

	services, err := service.NewServices(srv)
	if err != nil {
		return nil, nil, fmt.Errorf("could not create services: %w", err)
	}

	handlers := handler.NewHandlers(srv, services)
	r := router.NewRouter(srv, handlers)

	srv.SetupHTTPServer(r)

	return srv, r, nil
}
