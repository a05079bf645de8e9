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

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"designer-dashboard-backend/config"
	"designer-dashboard-backend/internal/api"
	"designer-dashboard-backend/internal/commit"
	"designer-dashboard-backend/internal/dal"
	"designer-dashboard-backend/internal/editor"
	"designer-dashboard-backend/internal/live"
	"designer-dashboard-backend/internal/logging"
	"designer-dashboard-backend/internal/reactive"
	"designer-dashboard-backend/internal/refresh"
	"designer-dashboard-backend/internal/store"
)

func main() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Printf("failed to read .env: %v", err)
	}

	// Load configuration
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./config/config.yaml" // Default path for local development
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %s: %v", configPath, err)
	}

	logger, err := logging.New(cfg.Log)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()
	logger.Info("configuration loaded", zap.String("path", configPath))

	// Create a context that can be cancelled
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	st, err := store.Open(ctx, &cfg.Storage, logger)
	if err != nil {
		logger.Fatal("failed to open store", zap.String("driver", cfg.Storage.Driver), zap.Error(err))
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Warn("failed to close store", zap.Error(err))
		}
	}()
	logger.Info("data store initialized", zap.String("driver", cfg.Storage.Driver))

	svc := dal.New(ctx, st, dal.WithLatency(cfg.API.Latency), dal.WithLogger(logger.Named("dal")))
	if cfg.Storage.ReconcileOnStart {
		fixed, err := svc.Reconcile(ctx)
		if err != nil {
			logger.Fatal("failed to reconcile attached object counts", zap.Error(err))
		}
		logger.Info("attached object counts reconciled", zap.Int("fixed", fixed))
	}

	designers := reactive.NewDesignerStore(svc)
	objects := reactive.NewObjectStore(svc)
	if err := designers.Load(ctx); err != nil {
		logger.Fatal("failed to load designers", zap.Error(err))
	}
	if err := objects.Load(ctx); err != nil {
		logger.Fatal("failed to load objects", zap.Error(err))
	}

	// Drag commits are applied in the background, in order per object.
	workerCtx, stopWorkers := context.WithCancel(context.Background())
	pool := commit.NewWorkerPool(cfg.WorkerPool.Size, editor.StoreCommitter{Objects: objects}, logger.Named("commit"))
	pool.Start(workerCtx)

	refresher := refresh.NewService(cfg.Refresh, objects, designers, logger.Named("refresh"))
	go refresher.Run(ctx)

	hub := live.NewHub(cfg.WebSocket, designers, objects, pool, logger)

	// Initialize router
	router := api.NewRouter(cfg.Server, api.NewHandler(designers, objects, logger.Named("api")), hub, logger.Named("http"))
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	// Start the server in a goroutine
	go func() {
		logger.Info("HTTP server starting", zap.Int("port", cfg.Server.Port))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("HTTP server ListenAndServe", zap.Error(err))
		}
	}()

	// Setup signal handling for graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	// Block until a signal is received.
	<-stop
	logger.Info("shutdown signal received, stopping services")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(),
		time.Duration(cfg.Server.ShutdownTimeoutSeconds)*time.Second)
	defer shutdownCancel()

	// Hijacked websocket connections are not tracked by Shutdown. Close
	// returns once their disconnect commits are queued, so it must run
	// before the workers stop.
	hub.Close()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("HTTP server Shutdown", zap.Error(err))
	}
	cancel()

	// Let queued drag commits land before the store is closed.
	stopWorkers()
	pool.Wait()

	logger.Info("server gracefully stopped")
}
