package service

import (
	"context"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type reviewService struct {
	reviewRepo  repository.ReviewRepository
	bookingRepo repository.BookingRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, bookingRepo repository.BookingRepository) ReviewService {
	return &reviewService{reviewRepo: reviewRepo, bookingRepo: bookingRepo}
}

// SubmitReview records the author's review of the other party. Only parties of
// a completed booking may review, once per direction.
func (s *reviewService) SubmitReview(ctx context.Context, authorID, bookingID int64, rating int32, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, fmt.Errorf("%w: rating must be between 1 and 5", domain.ErrValidation)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(authorID) {
		return nil, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, fmt.Errorf("%w: booking is %s, reviews require a completed booking", domain.ErrConflict, booking.Status)
	}

	review := &domain.Review{
		BookingID: bookingID,
		ListingID: booking.ListingID,
		AuthorID:  authorID,
		Rating:    rating,
		Comment:   comment,
	}
	if authorID == booking.RenterID {
		review.Type = domain.ReviewTypeRenterToOwner
		review.SubjectID = booking.OwnerID
	} else {
		review.Type = domain.ReviewTypeOwnerToRenter
		review.SubjectID = booking.RenterID
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		return nil, err
	}
	return review, nil
}

func (s *reviewService) ListListingReviews(ctx context.Context, listingID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	return s.reviewRepo.ListByListing(ctx, listingID, page, pageSize)
}

func (s *reviewService) ListUserReviews(ctx context.Context, subjectID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	return s.reviewRepo.ListBySubject(ctx, subjectID, page, pageSize)
}
