package postgres

import (
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"rentloop-backend/internal/repository"
)

type Store struct {
	db *sql.DB
	repository.UserRepository
	repository.ListingRepository
	repository.BookingRepository
	repository.AvailabilityRepository
	repository.ReviewRepository
	repository.MessageRepository
	repository.NotificationRepository
}

func NewStore(db *sql.DB) *Store {
	return &Store{
		db:                     db,
		UserRepository:         NewUserRepository(db),
		ListingRepository:      NewListingRepository(db),
		BookingRepository:      NewBookingRepository(db),
		AvailabilityRepository: NewAvailabilityRepository(db),
		ReviewRepository:       NewReviewRepository(db),
		MessageRepository:      NewMessageRepository(db),
		NotificationRepository: NewNotificationRepository(db),
	}
}

// isUniqueViolation reports whether err is a Postgres unique-index violation
// (SQLSTATE 23505).
func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
