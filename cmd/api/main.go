package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dvloznov/budget-tracker/internal/api"
	"github.com/dvloznov/budget-tracker/internal/api/handlers"
	"github.com/dvloznov/budget-tracker/internal/config"
	"github.com/dvloznov/budget-tracker/internal/infra/backend"
	"github.com/dvloznov/budget-tracker/internal/logger"
	"github.com/dvloznov/budget-tracker/internal/service"
)

func main() {
	// Initialize logger
	log := logger.New()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	// Command-line flags override the environment
	var (
		port        = flag.String("port", cfg.Port, "HTTP server port (or set PORT env)")
		backendName = flag.String("store", cfg.StoreBackend, "Storage backend: memory, mongo or bigquery (or set STORE_BACKEND env)")
	)
	flag.Parse()

	cfg.Port = *port
	cfg.StoreBackend = *backendName
	if err := cfg.Validate(); err != nil {
		log.Fatal().Err(err).Msg("Invalid configuration")
	}

	log = logger.WithLevel(log, cfg.LogLevel)

	ctx := context.Background()

	// Initialize repository
	backendStore, err := backend.Open(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Str("backend", cfg.StoreBackend).Msg("Failed to open transaction store")
	}

	svc := service.New(backendStore.Repo, log)
	transactionsHandler := handlers.NewTransactionsHandler(svc, log)

	// Create HTTP server
	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      api.NewRouter(transactionsHandler, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info().
			Str("port", cfg.Port).
			Str("backend", cfg.StoreBackend).
			Msg("Starting API server")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	if err := backendStore.Close(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Failed to close transaction store")
	}

	log.Info().Msg("Server exited")
}
