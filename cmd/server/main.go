package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	httpapi "rentloop-backend/internal/api/http"
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/pricing"
	"rentloop-backend/internal/repository/postgres"
	"rentloop-backend/internal/security"
	"rentloop-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentloop backend...", "log_level", cfg.Log.Level, "log_format", cfg.Log.Format)
	logger.Info("Server configuration", "address", cfg.GetServerAddress())
	logger.Info("Database configuration", "host", cfg.Database.Host, "port", cfg.Database.Port, "database", cfg.Database.Database, "user", cfg.Database.User)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		logger.Error("Failed to ping database", "error", err)
		log.Fatalf("Failed to ping database: %v", err)
	}
	logger.Info("Database connection established")

	store := postgres.NewStore(db)

	tokenManager := security.NewTokenManager(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry, cfg.JWT.RefreshTokenExpiry)

	emailSender := service.NewSendGridSender(cfg.Email.APIKey, cfg.Email.From, cfg.Email.FromName)

	var pushSender service.PushSender
	if cfg.Push.CredentialsFile != "" {
		pushSender, err = service.NewFCMSender(context.Background(), cfg.Push.CredentialsFile, store.NotificationRepository)
		if err != nil {
			logger.Error("Failed to initialize push sender", "error", err)
			log.Fatalf("Failed to initialize push sender: %v", err)
		}
	}

	dispatcher := service.NewNotificationDispatcher(store.UserRepository, store.NotificationRepository, emailSender, pushSender)

	gateway := service.NewStripeGateway(cfg.Payments.StripeKey, cfg.Payments.Currency)

	pricingPolicy := pricing.Policy{
		ServiceFeeBps:       cfg.Payments.ServiceFeeBps,
		InsuranceFeeBps:     cfg.Payments.InsuranceFeeBps,
		CommissionBps:       cfg.Payments.CommissionBps,
		PointValueCents:     cfg.Payments.PointValueCents,
		FreeCancelDays:      cfg.Booking.FreeCancelDays,
		LateCancelRentalBps: cfg.Booking.LateCancelRentalBps,
	}
	bookingPolicy := service.BookingPolicy{
		ApprovalDeadline: time.Duration(cfg.Booking.ApprovalDeadlineHours) * time.Hour,
		HoldExpiry:       time.Duration(cfg.Booking.HoldExpiryHours) * time.Hour,
		MinPickupPhotos:  cfg.Booking.MinPickupPhotos,
	}

	authSvc := service.NewAuthService(store.UserRepository, tokenManager)
	userSvc := service.NewUserService(store.UserRepository)
	listingSvc := service.NewListingService(store.ListingRepository, store.AvailabilityRepository)
	bookingSvc := service.NewBookingService(
		store.BookingRepository,
		store.AvailabilityRepository,
		store.ListingRepository,
		store.UserRepository,
		gateway,
		dispatcher,
		pricingPolicy,
		bookingPolicy,
	)
	reviewSvc := service.NewReviewService(store.ReviewRepository, store.BookingRepository)
	messageSvc := service.NewMessageService(store.MessageRepository, store.BookingRepository, dispatcher)
	noteSvc := service.NewNotificationService(store.NotificationRepository)

	handlers := httpapi.NewHandlers(authSvc, userSvc, listingSvc, bookingSvc, reviewSvc, messageSvc, noteSvc, tokenManager)
	router := httpapi.NewRouter(handlers)

	srv := &http.Server{
		Addr:         cfg.GetServerAddress(),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("HTTP server listening", "address", cfg.GetServerAddress())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server error", "error", err)
			log.Fatalf("Failed to serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown failed", "error", err)
	}
	logger.Info("Server stopped")
}
