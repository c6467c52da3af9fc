package jobs

import (
	"rentloop-backend/internal/config"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/service"
)

// JobRunner coordinates all scheduled jobs
type JobRunner struct {
	bookings    service.BookingService
	bookingRepo repository.BookingRepository
	availRepo   repository.AvailabilityRepository
	dispatcher  service.NotificationDispatcher
	config      *config.Config
}

// NewJobRunner creates a new job runner with all dependencies
func NewJobRunner(
	bookings service.BookingService,
	bookingRepo repository.BookingRepository,
	availRepo repository.AvailabilityRepository,
	dispatcher service.NotificationDispatcher,
	cfg *config.Config,
) *JobRunner {
	return &JobRunner{
		bookings:    bookings,
		bookingRepo: bookingRepo,
		availRepo:   availRepo,
		dispatcher:  dispatcher,
		config:      cfg,
	}
}

// Config exposes the loaded configuration for schedule registration
func (jr *JobRunner) Config() *config.Config {
	return jr.config
}

// runWithRecovery wraps job execution with panic recovery
func (jr *JobRunner) runWithRecovery(jobName string, jobFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("Job panicked", "job", jobName, "panic", r)
		}
	}()

	logger.Info("Starting job", "job", jobName)
	jobFunc()
	logger.Info("Job completed", "job", jobName)
}

// RunAllJobs runs every job once (for manual execution)
func (jr *JobRunner) RunAllJobs() {
	jr.ExpireApprovalDeadlines()
	jr.ReleaseExpiredHolds()
	jr.SendReviewReminders()
}
