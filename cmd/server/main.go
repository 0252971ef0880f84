/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the shift scheduling and payroll server.
  Handles configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Load .env (if present) and environment configuration
  2. Initialize structured logging
  3. Initialize SQLite store
  4. Load the shift-type catalog (built-in grid or CATALOG_PATH)
  5. Bootstrap the head admin on an empty directory
  6. Configure HTTP router and start with graceful shutdown

ENVIRONMENT:
  PORT             HTTP server port (default: 8080)
  DB_PATH          SQLite database path (default: ./data/shifts.db)
                   Use ":memory:" for an in-memory database
  CATALOG_PATH     JSON shift-type catalog; empty uses the built-in grid
  LOG_LEVEL        trace|debug|info|warn|error (default: info)
  LOG_PRETTY       Console output instead of JSON (default: false)
  BOOTSTRAP_ADMIN  Username of the initial head admin (default: admin)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Close database connection
  4. Exit

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - store/sqlite/sqlite.go: Database implementation
*/
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/warp/shift-engine/api"
	"github.com/warp/shift-engine/config"
	"github.com/warp/shift-engine/factory"
	"github.com/warp/shift-engine/pkg/logger"
	"github.com/warp/shift-engine/schedule"
	"github.com/warp/shift-engine/store/sqlite"
)

func main() {
	// .env is optional; real environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.Init(logger.Options{Level: cfg.LogLevel, Pretty: cfg.LogPretty})

	// Store
	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		log.Fatal().Err(err).Str("db_path", cfg.DBPath).Msg("failed to initialize database")
	}
	defer store.Close()

	// Catalog
	catalog, err := factory.NewCatalogFactory().LoadCatalog(cfg.CatalogPath)
	if err != nil {
		log.Fatal().Err(err).Str("catalog_path", cfg.CatalogPath).Msg("failed to load shift catalog")
	}

	// Engine services
	scheduler := schedule.NewScheduler(store, catalog, log)
	directory := schedule.NewDirectory(store, catalog, log)
	payroll := schedule.NewPayrollEngine(store, log)

	// First boot: an empty directory gets its head admin.
	if _, err := directory.Bootstrap(context.Background(), schedule.Username(cfg.BootstrapAdmin), cfg.BootstrapName, cfg.BootstrapEmail); err != nil {
		if !errors.Is(err, schedule.ErrNotPermitted) {
			log.Fatal().Err(err).Msg("failed to bootstrap head admin")
		}
	} else {
		log.Info().Str("username", cfg.BootstrapAdmin).Msg("head admin bootstrapped")
	}

	// HTTP
	handler := api.NewHandler(scheduler, directory, payroll, catalog, log)
	if cfg.Env == "development" {
		handler.Resetter = store
	}
	router := api.NewRouter(handler)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server stopped")
}
