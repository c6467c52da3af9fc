package service_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

func completedBooking() *domain.Booking {
	b := confirmedBooking()
	b.Status = domain.BookingStatusCompleted
	return b
}

func TestReviewService_SubmitReview(t *testing.T) {
	ctx := context.Background()

	newSvc := func() (*MockReviewRepo, *MockBookingRepo, service.ReviewService) {
		reviewRepo := new(MockReviewRepo)
		bookingRepo := new(MockBookingRepo)
		return reviewRepo, bookingRepo, service.NewReviewService(reviewRepo, bookingRepo)
	}

	t.Run("RenterReviewsOwner", func(t *testing.T) {
		reviewRepo, bookingRepo, svc := newSvc()
		bookingRepo.On("GetByID", ctx, int64(7)).Return(completedBooking(), nil)
		reviewRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Review) bool {
			return r.Type == domain.ReviewTypeRenterToOwner && r.SubjectID == ownerID && r.ListingID == listingID
		})).Return(nil)

		review, err := svc.SubmitReview(ctx, renterID, 7, 5, "great tool")

		require.NoError(t, err)
		assert.Equal(t, int32(5), review.Rating)
		reviewRepo.AssertExpectations(t)
	})

	t.Run("OwnerReviewsRenter", func(t *testing.T) {
		reviewRepo, bookingRepo, svc := newSvc()
		bookingRepo.On("GetByID", ctx, int64(7)).Return(completedBooking(), nil)
		reviewRepo.On("Create", ctx, mock.MatchedBy(func(r *domain.Review) bool {
			return r.Type == domain.ReviewTypeOwnerToRenter && r.SubjectID == renterID
		})).Return(nil)

		_, err := svc.SubmitReview(ctx, ownerID, 7, 4, "")

		require.NoError(t, err)
	})

	t.Run("RejectsRatingOutOfRange", func(t *testing.T) {
		_, bookingRepo, svc := newSvc()

		_, err := svc.SubmitReview(ctx, renterID, 7, 6, "")

		assert.ErrorIs(t, err, domain.ErrValidation)
		bookingRepo.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
	})

	t.Run("StrangerForbidden", func(t *testing.T) {
		_, bookingRepo, svc := newSvc()
		bookingRepo.On("GetByID", ctx, int64(7)).Return(completedBooking(), nil)

		_, err := svc.SubmitReview(ctx, 999, 7, 3, "")

		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("RequiresCompletedBooking", func(t *testing.T) {
		reviewRepo, bookingRepo, svc := newSvc()
		bookingRepo.On("GetByID", ctx, int64(7)).Return(inProgressBooking(), nil)

		_, err := svc.SubmitReview(ctx, renterID, 7, 5, "")

		assert.ErrorIs(t, err, domain.ErrConflict)
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("SecondReviewSameDirectionConflicts", func(t *testing.T) {
		reviewRepo, bookingRepo, svc := newSvc()
		bookingRepo.On("GetByID", ctx, int64(7)).Return(completedBooking(), nil)
		reviewRepo.On("Create", ctx, mock.Anything).
			Return(fmt.Errorf("%w: review already submitted", domain.ErrConflict))

		_, err := svc.SubmitReview(ctx, renterID, 7, 5, "second attempt")

		assert.ErrorIs(t, err, domain.ErrConflict)
	})
}
