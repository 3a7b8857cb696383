package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storesync/internal/api"
	"storesync/internal/config"
	"storesync/internal/events"
	"storesync/internal/feed"
	"storesync/internal/logger"
	"storesync/internal/shopify"
	"storesync/internal/sync"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration: ", err)
	}

	// Initialize logger
	logger := logger.New(cfg.LogLevel)

	// One client per store, injected into every engine.
	sourceClient := shopify.NewClient(cfg.SourceShopDomain, cfg.SourceAccessToken, cfg.SourceAPIVersion, logger)
	destClient := shopify.NewClient(cfg.DestShopDomain, cfg.DestAccessToken, cfg.DestAPIVersion, logger)

	loader := feed.NewLoader(sourceClient, cfg.PageSize, logger)
	engines := api.Engines{
		Products:  sync.NewProductEngine(loader, destClient, cfg.PageSize, logger),
		Inventory: sync.NewInventoryEngine(loader, destClient, cfg.DestLocationName, cfg.PageSize, logger),
		Orders:    sync.NewOrderEngine(sourceClient, cfg.MirrorCustomerEmail, cfg.MirrorOrderTag, logger),
	}

	publisher := events.NewPublisher(cfg.KafkaBrokers, logger)
	defer publisher.Close()

	// Initialize API server
	server := api.New(cfg, logger, engines, publisher)

	go func() {
		if err := server.Start(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Stop(ctx); err != nil {
		logger.Error("Server shutdown failed: %v", err)
	}
}
