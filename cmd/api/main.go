// cmd/api/main.go
package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/your-org/storefront-backend/internal/config"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/remote"
	"github.com/your-org/storefront-backend/internal/infrastructure/store/snapshot"
	"github.com/your-org/storefront-backend/internal/interfaces/http"
	"github.com/your-org/storefront-backend/internal/pkg/logger"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	appLogger := logger.New(cfg)
	appLogger.Infof("Starting %s v%s in %s mode", cfg.App.Name, cfg.App.Version, cfg.App.Environment)

	// Open the device-local snapshot store
	snap, err := snapshot.Open(cfg.Snapshot.Path, appLogger)
	if err != nil {
		log.Fatalf("Failed to open snapshot store: %v", err)
	}
	defer snap.Close()

	// Connect to the remote store
	redisClient, err := remote.NewConnection(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to remote store: %v", err)
	}
	defer redisClient.Close()

	remoteStore := remote.NewStore(redisClient)

	// Health checks
	if err := snap.Health(); err != nil {
		log.Fatalf("Snapshot store health check failed: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	if err := remoteStore.Health(ctx); err != nil {
		cancel()
		log.Fatalf("Remote store health check failed: %v", err)
	}
	cancel()

	appLogger.Info("All systems operational")

	// Create and start HTTP server
	server := http.NewServer(cfg, snap, remoteStore, appLogger)

	go func() {
		if err := server.Start(); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	appLogger.Info("Shutting down gracefully")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Stop(shutdownCtx); err != nil {
		appLogger.WithError(err).Error("Failed to shutdown HTTP server gracefully")
	}

	appLogger.Info("Server shutdown completed")
}
