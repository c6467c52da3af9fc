package service

import (
	"context"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type listingService struct {
	listingRepo repository.ListingRepository
	availRepo   repository.AvailabilityRepository
}

func NewListingService(listingRepo repository.ListingRepository, availRepo repository.AvailabilityRepository) ListingService {
	return &listingService{listingRepo: listingRepo, availRepo: availRepo}
}

func (s *listingService) CreateListing(ctx context.Context, listing *domain.Listing) error {
	if listing.Title == "" {
		return fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	if listing.DailyRateCents <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", domain.ErrValidation)
	}
	if listing.DepositCents < 0 {
		return fmt.Errorf("%w: deposit cannot be negative", domain.ErrValidation)
	}
	listing.Active = true
	return s.listingRepo.Create(ctx, listing)
}

func (s *listingService) GetListing(ctx context.Context, id int64) (*domain.Listing, error) {
	return s.listingRepo.GetByID(ctx, id)
}

func (s *listingService) UpdateListing(ctx context.Context, ownerID int64, listing *domain.Listing) error {
	existing, err := s.listingRepo.GetByID(ctx, listing.ID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("%w: not the owner of this listing", domain.ErrForbidden)
	}
	if listing.DailyRateCents <= 0 {
		return fmt.Errorf("%w: daily rate must be positive", domain.ErrValidation)
	}
	listing.OwnerID = existing.OwnerID
	return s.listingRepo.Update(ctx, listing)
}

func (s *listingService) DeactivateListing(ctx context.Context, ownerID, listingID int64) error {
	existing, err := s.listingRepo.GetByID(ctx, listingID)
	if err != nil {
		return err
	}
	if existing.OwnerID != ownerID {
		return fmt.Errorf("%w: not the owner of this listing", domain.ErrForbidden)
	}
	existing.Active = false
	return s.listingRepo.Update(ctx, existing)
}

func (s *listingService) SearchListings(ctx context.Context, query, category string, maxRateCents int64, page, pageSize int32) ([]domain.Listing, int32, error) {
	filter := repository.ListingFilter{
		Query:        query,
		Category:     category,
		MaxRateCents: maxRateCents,
		ActiveOnly:   true,
	}
	return s.listingRepo.List(ctx, filter, page, pageSize)
}

func (s *listingService) ListMyListings(ctx context.Context, ownerID int64, page, pageSize int32) ([]domain.Listing, int32, error) {
	return s.listingRepo.List(ctx, repository.ListingFilter{OwnerID: ownerID}, page, pageSize)
}

// GetAvailability exposes the occupied dates in a range so clients can render
// a calendar. Dates without an entry are free.
func (s *listingService) GetAvailability(ctx context.Context, listingID int64, fromDate, toDate string) ([]domain.AvailabilityEntry, error) {
	if _, err := s.listingRepo.GetByID(ctx, listingID); err != nil {
		return nil, err
	}
	return s.availRepo.ListRange(ctx, listingID, fromDate, toDate)
}
