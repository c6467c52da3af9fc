package main

import (
	"context"
	"database/sql"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/lib/pq"

	"rentloop-backend/internal/config"
	"rentloop-backend/internal/jobs"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/pricing"
	"rentloop-backend/internal/repository/postgres"
	"rentloop-backend/internal/scheduler"
	"rentloop-backend/internal/service"
)

func main() {
	configPath := flag.String("config", "config/config.dev.yaml", "Path to configuration file")
	runOnce := flag.String("run-once", "", "Run a specific job once and exit (e.g., 'expire-approval-deadlines', 'release-expired-holds', 'send-review-reminders', 'all')")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Initialize(cfg.Log.Level, cfg.Log.Format)
	logger.Info("Starting Rentloop cronjob runner...", "log_level", cfg.Log.Level)

	logger.Info("Connecting to database...", "host", cfg.Database.Host, "port", cfg.Database.Port)
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

	jobRunner := jobs.NewJobRunner(bookingSvc, store.BookingRepository, store.AvailabilityRepository, dispatcher, cfg)

	if *runOnce != "" {
		logger.Info("Running job once", "job", *runOnce)
		runJobOnce(jobRunner, *runOnce)
		logger.Info("Job execution completed", "job", *runOnce)
		return
	}

	cronScheduler := scheduler.NewScheduler(jobRunner)
	cronScheduler.Start()
	logger.Info("Cronjob scheduler is running. Press Ctrl+C to stop.")

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	logger.Info("Shutdown signal received")
	cronScheduler.Stop()
}

func runJobOnce(jr *jobs.JobRunner, name string) {
	switch name {
	case "expire-approval-deadlines":
		jr.ExpireApprovalDeadlines()
	case "release-expired-holds":
		jr.ReleaseExpiredHolds()
	case "send-review-reminders":
		jr.SendReviewReminders()
	case "all":
		jr.RunAllJobs()
	default:
		logger.Error("Unknown job name", "job", name)
		os.Exit(1)
	}
}
