// File: main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tmurray-at-tygershark/solushipX-sub005/config"
	"github.com/tmurray-at-tygershark/solushipX-sub005/cron"
	"github.com/tmurray-at-tygershark/solushipX-sub005/database"
	draftRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/draft"
	rateRepo "github.com/tmurray-at-tygershark/solushipX-sub005/database/repository/rate"
	"github.com/tmurray-at-tygershark/solushipX-sub005/handlers"
	"github.com/tmurray-at-tygershark/solushipX-sub005/middleware"
	"github.com/tmurray-at-tygershark/solushipX-sub005/routes"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/carrierapi"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/notification"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/shipment"
	"github.com/tmurray-at-tygershark/solushipX-sub005/services/tasks"
	"github.com/tmurray-at-tygershark/solushipX-sub005/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hibiken/asynq"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()
	utils.InitSessionCache()
	utils.FirebaseInit()

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(cors.Default())
	router.Use(middleware.RateLimitMiddleware())

	// repositories.
	drafts := draftRepo.NewMongoDraftRepo(config.AppConfig.DatabaseName)
	rates := rateRepo.NewMongoRateRepo(config.AppConfig.DatabaseName)

	// services.
	sessionCache := utils.GetSessionCacheClient()
	gateway := carrierapi.NewHTTPClient(
		config.AppConfig.CarrierAPIBaseURL,
		config.AppConfig.CarrierAPIKey,
		logger,
	)
	notifier := notification.NewDefaultNotificationService(sessionCache, logger)
	enqueuer := tasks.NewAsynqEnqueuer(asynq.RedisClientOpt{
		Addr:     config.AppConfig.RedisAddr,
		Password: config.AppConfig.RedisPassword,
		DB:       config.AppConfig.RedisQueueDB,
	})

	orchestrator := &shipment.BookingOrchestrator{
		Drafts:      drafts,
		Rates:       rates,
		Gateway:     gateway,
		Guard:       sessionCache,
		Tasks:       enqueuer,
		Notifier:    notifier,
		LabelDelay:  config.LabelSettleDelay(),
		ConfirmWait: 3 * time.Second,
		Logger:      logger,
	}

	shipmentService := &shipment.DefaultShipmentSessionService{
		Drafts:       drafts,
		IDs:          &shipment.DraftIDGenerator{Drafts: drafts, Logger: logger},
		Sessions:     shipment.NewRedisSessionStore(sessionCache, config.SessionTTL()),
		Orchestrator: orchestrator,
		Logger:       logger,
	}

	// Background worker for deferred document regeneration.
	cron.InitDocumentWorker(gateway, drafts)

	// Periodic dependency health checks.
	utils.StartHealthMonitor(sessionCache, database.MongoClient)

	// Assemble the handler bundle and register routes.
	bundle := &routes.HandlerBundle{
		Shipment: handlers.NewShipmentHandler(shipmentService, logger),
		Device:   handlers.NewDeviceHandler(notifier, logger),
	}
	routes.RegisterRoutes(router, bundle)

	// Start the HTTP server.
	port := config.AppConfig.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:    "0.0.0.0:" + port,
		Handler: router,
	}

	logger.Sugar().Infof("Starting server on %s...", srv.Addr)
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Sugar().Fatalf("main: server failed to start: %v", err)
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Sugar().Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Sugar().Fatalf("main: server forced to shutdown: %v", err)
	}

	logger.Sugar().Info("main: server stopped gracefully")
}
