package service

import (
	"context"

	"rentloop-backend/internal/domain"
)

type AuthService interface {
	Signup(ctx context.Context, name, email, phone, password string) (*domain.User, string, string, error) // user, access, refresh
	Login(ctx context.Context, email, password string) (string, string, error)
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (*domain.User, error)
	UpdateProfile(ctx context.Context, userID int64, name, phone, avatarURL string) error
}

type ListingService interface {
	CreateListing(ctx context.Context, listing *domain.Listing) error
	GetListing(ctx context.Context, id int64) (*domain.Listing, error)
	UpdateListing(ctx context.Context, ownerID int64, listing *domain.Listing) error
	DeactivateListing(ctx context.Context, ownerID, listingID int64) error
	SearchListings(ctx context.Context, query, category string, maxRateCents int64, page, pageSize int32) ([]domain.Listing, int32, error)
	ListMyListings(ctx context.Context, ownerID int64, page, pageSize int32) ([]domain.Listing, int32, error)
	GetAvailability(ctx context.Context, listingID int64, fromDate, toDate string) ([]domain.AvailabilityEntry, error)
}

// AuthorizeBookingInput is the validated request for creating a booking.
type AuthorizeBookingInput struct {
	ListingID        int64
	StartDate        string
	EndDate          string
	WithInsurance    bool
	RequestedPoints  int64
	PaymentMethodRef string
	Notes            string
}

// AuthorizeBookingResult carries everything the client needs to finish the
// payment flow.
type AuthorizeBookingResult struct {
	Booking      *domain.Booking
	ClientSecret string
}

// PhotoInput is one evidence photo submitted with a verification.
type PhotoInput struct {
	URL       string
	Latitude  *float64
	Longitude *float64
}

type BookingService interface {
	Authorize(ctx context.Context, renterID int64, in AuthorizeBookingInput) (*AuthorizeBookingResult, error)
	Approve(ctx context.Context, ownerID, bookingID int64) (*domain.Booking, error)
	Reject(ctx context.Context, ownerID, bookingID int64, reason string) (*domain.Booking, error)
	ConfirmPickup(ctx context.Context, userID, bookingID int64, photos []PhotoInput) (*domain.Booking, error)
	ConfirmReturn(ctx context.Context, userID, bookingID int64, photos []PhotoInput) (*domain.Booking, error)
	Cancel(ctx context.Context, renterID, bookingID int64, reason string) (*domain.Booking, error)
	GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, []domain.VerificationPhoto, []domain.VerificationPhoto, error)
	ListBookings(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)
	ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error)

	// ExpireOverdueApprovals is the background sweep for pending_payment
	// bookings whose approval deadline passed. Returns bookings expired.
	ExpireOverdueApprovals(ctx context.Context, limit int32) (int, error)
}

type ReviewService interface {
	SubmitReview(ctx context.Context, authorID, bookingID int64, rating int32, comment string) (*domain.Review, error)
	ListListingReviews(ctx context.Context, listingID int64, page, pageSize int32) ([]domain.Review, int32, error)
	ListUserReviews(ctx context.Context, subjectID int64, page, pageSize int32) ([]domain.Review, int32, error)
}

type MessageService interface {
	SendMessage(ctx context.Context, senderID, bookingID int64, body string) (*domain.Message, error)
	ListMessages(ctx context.Context, userID, bookingID int64, page, pageSize int32) ([]domain.Message, int32, error)
}

type NotificationService interface {
	GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int64) error
	SetPreference(ctx context.Context, pref *domain.NotificationPreference) error
	RegisterDevice(ctx context.Context, userID int64, token, platform string) error
	UnregisterDevice(ctx context.Context, token string) error
}

// AuthorizationResult is what the payments processor returns for a successful
// authorize-only charge.
type AuthorizationResult struct {
	PaymentIntentRef string
	ClientSecret     string
}

// PaymentGateway wraps every call to the external payments processor. All
// amounts are in minor currency units. Nothing else in the codebase talks to
// the processor.
type PaymentGateway interface {
	EnsureCustomer(ctx context.Context, email, name string) (string, error)
	Authorize(ctx context.Context, customerRef string, amountCents int64, paymentMethodRef, idempotencyKey string) (*AuthorizationResult, error)
	Capture(ctx context.Context, paymentIntentRef string) error
	Void(ctx context.Context, paymentIntentRef string) error
	Refund(ctx context.Context, paymentIntentRef string, amountCents int64) error
	ReleaseToOwner(ctx context.Context, payoutAccountRef string, amountCents int64, bookingRef string) error
}

// EmailSender delivers one transactional email. Fire-and-forget from the
// caller's perspective.
type EmailSender interface {
	Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error
}

// PushSender delivers a push message to every registered device of a user.
type PushSender interface {
	SendToUser(ctx context.Context, userID int64, title, body string, data map[string]string) error
}

// NotificationDispatcher fans a templated notification out to the in-app
// feed, email and push channels per the user's preferences. Dispatch never
// returns an error: delivery failures are logged and swallowed so a state
// transition that already committed can never be rolled back by a
// notification problem.
type NotificationDispatcher interface {
	Dispatch(ctx context.Context, userID int64, kind domain.NotificationKind, data map[string]string)
}
