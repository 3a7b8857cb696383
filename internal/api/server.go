package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"storesync/internal/api/handlers"
	"storesync/internal/api/middleware"
	"storesync/internal/config"
	"storesync/internal/events"
	"storesync/internal/logger"
	"storesync/internal/sync"
	"storesync/internal/webhook"

	"github.com/gin-gonic/gin"
)

type Server struct {
	config *config.Config
	logger *logger.Logger
	router *gin.Engine
	server *http.Server
}

// Engines bundles the sync engines the HTTP surface exposes.
type Engines struct {
	Products  *sync.ProductEngine
	Inventory *sync.InventoryEngine
	Orders    *sync.OrderEngine
}

func New(cfg *config.Config, logger *logger.Logger, engines Engines, publisher *events.Publisher) *Server {
	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(middleware.Logger(logger))
	router.Use(middleware.Recovery(logger))

	sourceVerifier := webhook.NewVerifier(cfg.SourceWebhookSecret, cfg.SourceShopDomain)
	destVerifier := webhook.NewVerifier(cfg.DestWebhookSecret, cfg.DestShopDomain)

	webhookHandler := handlers.NewWebhookHandler(
		sourceVerifier, destVerifier,
		engines.Products, engines.Inventory, engines.Orders,
		publisher, logger,
	)
	adminHandler := handlers.NewAdminHandler(engines.Products, engines.Inventory, publisher, logger)

	// Routes
	router.GET("/health", adminHandler.Health)
	router.POST("/webhooks/shopify", webhookHandler.Handle)

	v1 := router.Group("/api/v1")
	{
		syncGroup := v1.Group("/sync")
		{
			syncGroup.POST("/products", adminHandler.SyncProducts)
			syncGroup.POST("/inventory", adminHandler.SyncInventory)
		}
	}

	return &Server{
		config: cfg,
		logger: logger,
		router: router,
	}
}

func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.config.APIHost, s.config.APIPort)

	s.server = &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	s.logger.Info("Starting server on " + addr)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("Shutting down server...")
	return s.server.Shutdown(ctx)
}

// Router exposes the gin router for handler tests.
func (s *Server) Router() *gin.Engine {
	return s.router
}
