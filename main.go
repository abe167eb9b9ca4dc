// File: bookpilot/main.go
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"bookpilot/config"
	"bookpilot/cron"
	"bookpilot/database"
	recordsRepo "bookpilot/database/repository/records"
	"bookpilot/handlers"
	"bookpilot/middleware"
	"bookpilot/routes"
	"bookpilot/services/availability"
	"bookpilot/services/booking"
	"bookpilot/services/catalog"
	"bookpilot/services/scoring"
	"bookpilot/services/tasks"
	"bookpilot/utils"

	"github.com/gin-gonic/gin"
)

func main() {
	config.LoadConfig()
	logger := utils.GetLogger()

	database.InitDB()

	// Provider catalog: live Places search when a key is configured,
	// static fallback either way.
	composite := &catalog.CompositeCatalog{
		Fallback: catalog.NewFallbackCatalog(),
		Logger:   logger,
	}
	if config.LiveSearchConfigured() {
		live, err := catalog.NewPlacesCatalog(config.AppConfig.GoogleAPIKey, logger)
		if err != nil {
			logger.Sugar().Warnf("main: live search unavailable, running catalog in fallback mode: %v", err)
		} else {
			composite.Live = live
		}
	}

	// Availability oracle and booking executor: live Calendar when
	// credentials are configured, deterministic stubs otherwise.
	var oracle availability.AvailabilityOracle = availability.StubOracle{}
	var executor booking.BookingExecutor = booking.StubExecutor{}
	if config.LiveCalendarConfigured() {
		srv, err := availability.NewCalendarService(context.Background(), config.AppConfig.GoogleCredentialsFile)
		if err != nil {
			logger.Sugar().Warnf("main: live calendar unavailable, running in stub mode: %v", err)
		} else {
			oracle = &availability.CalendarOracle{
				Service:    srv,
				CalendarID: config.AppConfig.GoogleCalendarID,
				Logger:     logger,
			}
			executor = &booking.CalendarExecutor{
				Service:    srv,
				CalendarID: config.AppConfig.GoogleCalendarID,
				Logger:     logger,
			}
		}
	}
	utils.SetCapabilityModes(composite.Live != nil, config.LiveCalendarConfigured())

	orchestrator := booking.NewOrchestrator(composite, oracle, scoring.NewEngine(), executor, logger)
	orchestrator.MaxRetries = config.AppConfig.MaxBookingRetries
	orchestrator.CapabilityTimeout = time.Duration(config.AppConfig.CapabilityTimeoutS) * time.Second
	if repo := recordsRepo.NewMongoRecordRepo(); repo != nil {
		orchestrator.Recorder = repo
	}

	var proposalStore booking.ProposalStore = booking.NewMemoryProposalStore()
	sessionCache := utils.GetSessionCacheClient()
	if sessionCache != nil {
		proposalStore = &booking.RedisProposalStore{Client: sessionCache}
	}
	sessionService := &booking.SessionService{
		Orchestrator: orchestrator,
		Store:        proposalStore,
	}

	reminders := tasks.NewReminderScheduler(logger)
	cron.InitReminderWorker()
	utils.StartHealthMonitor(sessionCache, database.MongoClient)

	bookingHandler := handlers.NewBookingHandler(sessionService, reminders, logger)

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(gin.Logger())
	router.Use(middleware.RateLimitMiddleware())

	routes.RegisterRoutes(router, bookingHandler)

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
