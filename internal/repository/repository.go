package repository

import (
	"context"

	"rentloop-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int64) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error

	// AdjustPoints atomically changes the loyalty-points balance by delta
	// (negative to deduct). Deductions below zero fail.
	AdjustPoints(ctx context.Context, userID int64, delta int64) error
	SetPaymentCustomerRef(ctx context.Context, userID int64, ref string) error
}

type ListingRepository interface {
	Create(ctx context.Context, listing *domain.Listing) error
	GetByID(ctx context.Context, id int64) (*domain.Listing, error)
	Update(ctx context.Context, listing *domain.Listing) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, filter ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error)
}

// ListingFilter narrows listing searches. Zero values mean "no constraint".
type ListingFilter struct {
	OwnerID      int64
	Category     string
	Query        string
	MaxRateCents int64
	MinRateCents int64
	ActiveOnly   bool
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Update(ctx context.Context, booking *domain.Booking) error

	// Delete removes a booking row. Only used as the compensating action when
	// payment authorization fails right after creation.
	Delete(ctx context.Context, id int64) error

	ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ListExpiredApprovals returns pending_payment bookings whose approval
	// deadline has passed, for the background sweep.
	ListExpiredApprovals(ctx context.Context, limit int32) ([]domain.Booking, error)

	// ListCompletedWithoutReview returns completed bookings missing a review of
	// the given type, for review reminders.
	ListCompletedWithoutReview(ctx context.Context, reviewType domain.ReviewType, limit int32) ([]domain.Booking, error)

	ReplacePhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase, partyID int64, photos []domain.VerificationPhoto) error
	GetPhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase) ([]domain.VerificationPhoto, error)
}

type AvailabilityRepository interface {
	ListRange(ctx context.Context, listingID int64, fromDate, toDate string) ([]domain.AvailabilityEntry, error)

	// HoldTentative inserts one tentative entry per date. A unique-index
	// violation on any date surfaces as domain.ErrConflict; the insert is the
	// arbiter between racing requests.
	HoldTentative(ctx context.Context, listingID int64, dates []string, bookingID int64) error

	PromoteToBooked(ctx context.Context, bookingID int64) error
	Release(ctx context.Context, bookingID int64) error

	// ReleaseExpired frees tentative entries whose booking is no longer
	// pending/pending_payment or whose hold expired. Returns rows freed.
	ReleaseExpired(ctx context.Context) (int64, error)
}

type ReviewRepository interface {
	// Create fails with domain.ErrConflict when a review of the same type
	// already exists for the booking.
	Create(ctx context.Context, review *domain.Review) error
	GetByBookingAndType(ctx context.Context, bookingID int64, reviewType domain.ReviewType) (*domain.Review, error)
	ListByListing(ctx context.Context, listingID int64, page, pageSize int32) ([]domain.Review, int32, error)
	ListBySubject(ctx context.Context, subjectID int64, page, pageSize int32) ([]domain.Review, int32, error)
}

type MessageRepository interface {
	Create(ctx context.Context, msg *domain.Message) error
	ListByBooking(ctx context.Context, bookingID int64, page, pageSize int32) ([]domain.Message, int32, error)
	MarkRead(ctx context.Context, bookingID, readerID int64) error
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int64) error

	GetPreference(ctx context.Context, userID int64, kind domain.NotificationKind) (*domain.NotificationPreference, error)
	UpsertPreference(ctx context.Context, pref *domain.NotificationPreference) error

	AddDeviceToken(ctx context.Context, token *domain.DeviceToken) error
	ListDeviceTokens(ctx context.Context, userID int64) ([]domain.DeviceToken, error)
	DeleteDeviceToken(ctx context.Context, token string) error
}
