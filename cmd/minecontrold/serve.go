package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"minecontrol-backend/config"
	"minecontrol-backend/internal/api"
	"minecontrol-backend/internal/audit"
	"minecontrol-backend/internal/db"
	"minecontrol-backend/internal/store"
)

func configPath() string {
	if p := os.Getenv("CONFIG_PATH"); p != "" {
		return p
	}
	return "./config/config.yaml" // Default path for local development
}

func loadConfig(logger *log.Logger) (*config.Config, error) {
	path := configPath()
	cfg, err := config.Load(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration from %s: %w", path, err)
	}
	logger.Printf("configuration loaded successfully from %s", path)
	return cfg, nil
}

func serveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve(log.New(os.Stdout, "minecontrol ", log.LstdFlags))
		},
	}
}

func serve(logger *log.Logger) error {
	cfg, err := loadConfig(logger)
	if err != nil {
		return err
	}

	// Initialize database
	gormDB, err := db.Init(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	logger.Println("database initialized successfully")

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	appStore := store.NewGormStore(gormDB)

	auditPool := audit.NewWorkerPool(cfg.Audit.WorkerPoolSize, cfg.Audit.QueueSize, audit.NewGormWriter(gormDB))
	auditPool.Start(ctx)
	logger.Printf("audit pool started with %d workers", cfg.Audit.WorkerPoolSize)

	handler := api.NewHandler(appStore, cfg, auditPool)
	router := api.NewRouter(handler, cfg)
	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Printf("HTTP server starting on port %d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Println("Shutdown signal received, stopping services...")
	case err := <-serveErr:
		return fmt.Errorf("HTTP server ListenAndServe: %w", err)
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server Shutdown: %w", err)
	}

	logger.Println("Server gracefully stopped")
	return nil
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update tables and the open-session indexes",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := log.New(os.Stdout, "minecontrol ", log.LstdFlags)
			cfg, err := loadConfig(logger)
			if err != nil {
				return err
			}
			// Init migrates before returning.
			gormDB, err := db.Init(&cfg.Database)
			if err != nil {
				return err
			}
			if sqlDB, err := gormDB.DB(); err == nil {
				sqlDB.Close()
			}
			logger.Println("migrations applied")
			return nil
		},
	}
}
