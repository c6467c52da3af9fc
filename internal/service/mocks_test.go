package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
	"rentloop-backend/internal/service"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	return m.Called(ctx, user).Error(0)
}
func (m *MockUserRepo) AdjustPoints(ctx context.Context, userID, delta int64) error {
	return m.Called(ctx, userID, delta).Error(0)
}
func (m *MockUserRepo) SetPaymentCustomerRef(ctx context.Context, userID int64, ref string) error {
	return m.Called(ctx, userID, ref).Error(0)
}

type MockListingRepo struct{ mock.Mock }

func (m *MockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}
func (m *MockListingRepo) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *MockListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	return m.Called(ctx, listing).Error(0)
}
func (m *MockListingRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockListingRepo) List(ctx context.Context, filter repository.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error) {
	args := m.Called(ctx, filter, page, pageSize)
	var listings []domain.Listing
	if args.Get(0) != nil {
		listings = args.Get(0).([]domain.Listing)
	}
	return listings, args.Get(1).(int32), args.Error(2)
}

type MockBookingRepo struct{ mock.Mock }

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	if args.Error(0) == nil && booking.ID == 0 {
		booking.ID = 1
	}
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) Update(ctx context.Context, booking *domain.Booking) error {
	return m.Called(ctx, booking).Error(0)
}
func (m *MockBookingRepo) Delete(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}
func (m *MockBookingRepo) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, renterID, status, page, pageSize)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	args := m.Called(ctx, ownerID, status, page, pageSize)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Get(1).(int32), args.Error(2)
}
func (m *MockBookingRepo) ListExpiredApprovals(ctx context.Context, limit int32) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}
func (m *MockBookingRepo) ListCompletedWithoutReview(ctx context.Context, reviewType domain.ReviewType, limit int32) ([]domain.Booking, error) {
	args := m.Called(ctx, reviewType, limit)
	var bookings []domain.Booking
	if args.Get(0) != nil {
		bookings = args.Get(0).([]domain.Booking)
	}
	return bookings, args.Error(1)
}
func (m *MockBookingRepo) ReplacePhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase, partyID int64, photos []domain.VerificationPhoto) error {
	return m.Called(ctx, bookingID, phase, partyID, photos).Error(0)
}
func (m *MockBookingRepo) GetPhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase) ([]domain.VerificationPhoto, error) {
	args := m.Called(ctx, bookingID, phase)
	var photos []domain.VerificationPhoto
	if args.Get(0) != nil {
		photos = args.Get(0).([]domain.VerificationPhoto)
	}
	return photos, args.Error(1)
}

type MockAvailabilityRepo struct{ mock.Mock }

func (m *MockAvailabilityRepo) ListRange(ctx context.Context, listingID int64, fromDate, toDate string) ([]domain.AvailabilityEntry, error) {
	args := m.Called(ctx, listingID, fromDate, toDate)
	var entries []domain.AvailabilityEntry
	if args.Get(0) != nil {
		entries = args.Get(0).([]domain.AvailabilityEntry)
	}
	return entries, args.Error(1)
}
func (m *MockAvailabilityRepo) HoldTentative(ctx context.Context, listingID int64, dates []string, bookingID int64) error {
	return m.Called(ctx, listingID, dates, bookingID).Error(0)
}
func (m *MockAvailabilityRepo) PromoteToBooked(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}
func (m *MockAvailabilityRepo) Release(ctx context.Context, bookingID int64) error {
	return m.Called(ctx, bookingID).Error(0)
}
func (m *MockAvailabilityRepo) ReleaseExpired(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type MockPaymentGateway struct{ mock.Mock }

func (m *MockPaymentGateway) EnsureCustomer(ctx context.Context, email, name string) (string, error) {
	args := m.Called(ctx, email, name)
	return args.String(0), args.Error(1)
}
func (m *MockPaymentGateway) Authorize(ctx context.Context, customerRef string, amountCents int64, paymentMethodRef, idempotencyKey string) (*service.AuthorizationResult, error) {
	args := m.Called(ctx, customerRef, amountCents, paymentMethodRef, idempotencyKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.AuthorizationResult), args.Error(1)
}
func (m *MockPaymentGateway) Capture(ctx context.Context, paymentIntentRef string) error {
	return m.Called(ctx, paymentIntentRef).Error(0)
}
func (m *MockPaymentGateway) Void(ctx context.Context, paymentIntentRef string) error {
	return m.Called(ctx, paymentIntentRef).Error(0)
}
func (m *MockPaymentGateway) Refund(ctx context.Context, paymentIntentRef string, amountCents int64) error {
	return m.Called(ctx, paymentIntentRef, amountCents).Error(0)
}
func (m *MockPaymentGateway) ReleaseToOwner(ctx context.Context, payoutAccountRef string, amountCents int64, bookingRef string) error {
	return m.Called(ctx, payoutAccountRef, amountCents, bookingRef).Error(0)
}

type MockDispatcher struct{ mock.Mock }

func (m *MockDispatcher) Dispatch(ctx context.Context, userID int64, kind domain.NotificationKind, data map[string]string) {
	m.Called(ctx, userID, kind, data)
}

type MockNotificationRepo struct{ mock.Mock }

func (m *MockNotificationRepo) Create(ctx context.Context, note *domain.Notification) error {
	return m.Called(ctx, note).Error(0)
}

func (m *MockNotificationRepo) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	args := m.Called(ctx, userID, limit, offset)
	var notes []domain.Notification
	if args.Get(0) != nil {
		notes = args.Get(0).([]domain.Notification)
	}
	return notes, args.Get(1).(int32), args.Error(2)
}

func (m *MockNotificationRepo) MarkAsRead(ctx context.Context, id, userID int64) error {
	return m.Called(ctx, id, userID).Error(0)
}

func (m *MockNotificationRepo) GetPreference(ctx context.Context, userID int64, kind domain.NotificationKind) (*domain.NotificationPreference, error) {
	args := m.Called(ctx, userID, kind)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.NotificationPreference), args.Error(1)
}

func (m *MockNotificationRepo) UpsertPreference(ctx context.Context, pref *domain.NotificationPreference) error {
	return m.Called(ctx, pref).Error(0)
}

func (m *MockNotificationRepo) AddDeviceToken(ctx context.Context, token *domain.DeviceToken) error {
	return m.Called(ctx, token).Error(0)
}

func (m *MockNotificationRepo) ListDeviceTokens(ctx context.Context, userID int64) ([]domain.DeviceToken, error) {
	args := m.Called(ctx, userID)
	var tokens []domain.DeviceToken
	if args.Get(0) != nil {
		tokens = args.Get(0).([]domain.DeviceToken)
	}
	return tokens, args.Error(1)
}

func (m *MockNotificationRepo) DeleteDeviceToken(ctx context.Context, token string) error {
	return m.Called(ctx, token).Error(0)
}

type MockReviewRepo struct{ mock.Mock }

func (m *MockReviewRepo) Create(ctx context.Context, review *domain.Review) error {
	return m.Called(ctx, review).Error(0)
}

func (m *MockReviewRepo) GetByBookingAndType(ctx context.Context, bookingID int64, reviewType domain.ReviewType) (*domain.Review, error) {
	args := m.Called(ctx, bookingID, reviewType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Review), args.Error(1)
}

func (m *MockReviewRepo) ListByListing(ctx context.Context, listingID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	args := m.Called(ctx, listingID, page, pageSize)
	var reviews []domain.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]domain.Review)
	}
	return reviews, args.Get(1).(int32), args.Error(2)
}

func (m *MockReviewRepo) ListBySubject(ctx context.Context, subjectID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	args := m.Called(ctx, subjectID, page, pageSize)
	var reviews []domain.Review
	if args.Get(0) != nil {
		reviews = args.Get(0).([]domain.Review)
	}
	return reviews, args.Get(1).(int32), args.Error(2)
}

type MockEmailSender struct{ mock.Mock }

func (m *MockEmailSender) Send(ctx context.Context, toEmail, toName, subject, plainText, htmlContent string) error {
	return m.Called(ctx, toEmail, toName, subject, plainText, htmlContent).Error(0)
}

type MockPushSender struct{ mock.Mock }

func (m *MockPushSender) SendToUser(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	return m.Called(ctx, userID, title, body, data).Error(0)
}
