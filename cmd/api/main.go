package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"lifecycle-tracker/internal/core/cache"
	"lifecycle-tracker/internal/core/config"
	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/logger"
	"lifecycle-tracker/internal/core/server"
	"lifecycle-tracker/internal/core/session"
	assignmentadapter "lifecycle-tracker/internal/features/assignments/adapters"
	assignmenthandler "lifecycle-tracker/internal/features/assignments/handler"
	assignmentservice "lifecycle-tracker/internal/features/assignments/service"
	trackingadapter "lifecycle-tracker/internal/features/tracking/adapters"
	trackinghandler "lifecycle-tracker/internal/features/tracking/handler"
	"lifecycle-tracker/internal/features/tracking/ports"
	trackingservice "lifecycle-tracker/internal/features/tracking/service"
	vendoradapter "lifecycle-tracker/internal/features/vendors/adapters"
	vendorhandler "lifecycle-tracker/internal/features/vendors/handler"
	vendorservice "lifecycle-tracker/internal/features/vendors/service"

	"go.uber.org/zap"
)

// @title Lifecycle Tracker API
// @version 1.0
// @description Order, delivery and vendor lifecycle tracking on top of the ShopSphere commerce API.
// @contact.name API Support
// @license.name MIT
// @host localhost:8080
// @BasePath /
func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.Environment, cfg.LogLevel); err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer logger.Sync()

	l := logger.Get()
	l.Info("Application starting",
		zap.String("environment", cfg.Environment),
		zap.String("log_level", cfg.LogLevel),
	)

	// Session tokens come from config; the transport refreshes the access
	// token on 401 and clears the session when the refresh token dies.
	store := session.NewStore(cfg.Upstream.AccessToken, cfg.Upstream.RefreshToken)
	client := httpclient.NewClient(
		time.Duration(cfg.Upstream.TimeoutSeconds)*time.Second,
		store,
		cfg.Upstream.BaseURL+"/token/refresh/",
	)

	// The snapshot cache is optional; without Redis the tracker still works,
	// it just cannot fall back to last-known-good data on upstream outages.
	var snapshotRepo ports.SnapshotRepository
	if cfg.Redis.URL != "" {
		redisAdapter, err := cache.NewRedisAdapter(cfg.Redis.URL)
		if err != nil {
			l.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer redisAdapter.Close()

		snapshotRepo = trackingadapter.NewRedisSnapshotRepository(
			redisAdapter,
			time.Duration(cfg.Redis.SnapshotTTLSeconds)*time.Second,
		)
		l.Info("Snapshot cache enabled")
	}

	trackingProvider := trackingadapter.NewShopSphereAdapter(cfg.Upstream.BaseURL, client)
	trackingSvc := trackingservice.NewTrackingService(
		trackingProvider,
		snapshotRepo,
		time.Duration(cfg.Polling.IntervalSeconds)*time.Second,
	)
	defer trackingSvc.Close()
	trackingHdl := trackinghandler.NewTrackingHandler(trackingSvc)

	assignmentGateway := assignmentadapter.NewShopSphereGateway(cfg.Upstream.BaseURL, client)
	assignmentSvc := assignmentservice.NewAssignmentService(assignmentGateway)
	assignmentHdl := assignmenthandler.NewAssignmentHandler(assignmentSvc)

	vendorGateway := vendoradapter.NewShopSphereGateway(cfg.Upstream.BaseURL, client)
	vendorSvc := vendorservice.NewVendorService(vendorGateway)
	vendorHdl := vendorhandler.NewVendorHandler(vendorSvc)

	srv := server.New(cfg)

	// Customer tracking
	srv.App.Get("/tracking/:orderNumber", trackingHdl.GetTracking)
	srv.App.Get("/tracking/:orderNumber/progress", trackingHdl.GetProgress)
	srv.App.Post("/tracking/:orderNumber/watch", trackingHdl.StartWatch)
	srv.App.Delete("/tracking/:orderNumber/watch", trackingHdl.StopWatch)
	srv.App.Post("/tracking/:orderNumber/refresh", trackingHdl.TriggerRefresh)

	// Delivery agent console
	srv.App.Get("/assignments", assignmentHdl.ListAssignments)
	srv.App.Get("/assignments/:id", assignmentHdl.GetAssignment)
	srv.App.Post("/assignments/:id/accept", assignmentHdl.AcceptAssignment)
	srv.App.Post("/assignments/:id/pickup", assignmentHdl.MarkPickedUp)
	srv.App.Post("/assignments/:id/transit", assignmentHdl.MarkInTransit)
	srv.App.Post("/assignments/:id/nearby", assignmentHdl.SignalNearby)
	srv.App.Post("/assignments/:id/verify-otp", assignmentHdl.VerifyOTP)
	srv.App.Post("/assignments/:id/fail", assignmentHdl.ReportFailed)

	// Vendor dashboard
	srv.App.Get("/vendor/orders", vendorHdl.ListOrders)
	srv.App.Post("/vendor/orders/:id/action", vendorHdl.SubmitAction)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		l.Info("Shutting down")
		if err := srv.Shutdown(); err != nil {
			l.Error("Shutdown failed", zap.Error(err))
		}
	}()

	if err := srv.Run(); err != nil {
		l.Fatal("Server failed to start", zap.Error(err))
	}
}
