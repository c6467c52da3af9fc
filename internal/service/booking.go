package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/pricing"
	"rentloop-backend/internal/repository"
)

// BookingPolicy carries the lifecycle knobs the orchestrator needs beyond
// pricing: deadlines, hold lifetimes and evidence requirements.
type BookingPolicy struct {
	ApprovalDeadline time.Duration
	HoldExpiry       time.Duration
	MinPickupPhotos  int
}

type bookingService struct {
	bookingRepo repository.BookingRepository
	availRepo   repository.AvailabilityRepository
	listingRepo repository.ListingRepository
	userRepo    repository.UserRepository
	gateway     PaymentGateway
	dispatcher  NotificationDispatcher
	pricing     pricing.Policy
	policy      BookingPolicy
	now         func() time.Time
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	availRepo repository.AvailabilityRepository,
	listingRepo repository.ListingRepository,
	userRepo repository.UserRepository,
	gateway PaymentGateway,
	dispatcher NotificationDispatcher,
	pricingPolicy pricing.Policy,
	policy BookingPolicy,
) BookingService {
	return &bookingService{
		bookingRepo: bookingRepo,
		availRepo:   availRepo,
		listingRepo: listingRepo,
		userRepo:    userRepo,
		gateway:     gateway,
		dispatcher:  dispatcher,
		pricing:     pricingPolicy,
		policy:      policy,
		now:         time.Now,
	}
}

// Authorize creates a booking request and places an authorization-only hold
// on the renter's payment method. The write order is fixed: booking row,
// availability holds, points, notifications. A payment failure right after
// creation deletes the booking row again; this is the only path on which a
// booking is ever removed instead of transitioned.
func (s *bookingService) Authorize(ctx context.Context, renterID int64, in AuthorizeBookingInput) (*AuthorizeBookingResult, error) {
	listing, err := s.listingRepo.GetByID(ctx, in.ListingID)
	if err != nil {
		return nil, err
	}
	if !listing.Active {
		return nil, fmt.Errorf("%w: listing is not active", domain.ErrNotFound)
	}
	if listing.OwnerID == renterID {
		return nil, fmt.Errorf("%w: cannot book your own listing", domain.ErrForbidden)
	}

	start, end, _, err := pricing.ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return nil, err
	}

	// Pre-check for conflicts. This read and the later hold insert are not
	// atomic across concurrent requests; the unique index behind HoldTentative
	// is the real arbiter. The early check just fails the common case cheaply.
	entries, err := s.availRepo.ListRange(ctx, listing.ID, in.StartDate, in.EndDate)
	if err != nil {
		return nil, fmt.Errorf("%w: availability check: %v", domain.ErrDependencyUnavailable, err)
	}
	if len(entries) > 0 {
		return nil, fmt.Errorf("%w: requested dates are not available", domain.ErrConflict)
	}

	renter, err := s.userRepo.GetByID(ctx, renterID)
	if err != nil {
		return nil, err
	}

	price, err := s.pricing.Quote(pricing.QuoteInput{
		DailyRateCents:  listing.DailyRateCents,
		StartDate:       in.StartDate,
		EndDate:         in.EndDate,
		WithInsurance:   in.WithInsurance,
		DepositCents:    listing.DepositCents,
		RequestedPoints: in.RequestedPoints,
		PointsBalance:   renter.PointsBalance,
	})
	if err != nil {
		return nil, err
	}

	customerRef := renter.PaymentCustomerRef
	if customerRef == "" {
		customerRef, err = s.gateway.EnsureCustomer(ctx, renter.Email, renter.Name)
		if err != nil {
			return nil, err
		}
		if err := s.userRepo.SetPaymentCustomerRef(ctx, renterID, customerRef); err != nil {
			return nil, err
		}
	}

	booking := &domain.Booking{
		ListingID: listing.ID,
		RenterID:  renterID,
		OwnerID:   listing.OwnerID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		Price:     price,
		Status:    domain.BookingStatusPending,
		Notes:     in.Notes,
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: create booking: %v", domain.ErrDependencyUnavailable, err)
	}

	auth, err := s.gateway.Authorize(ctx, customerRef, price.TotalCents, in.PaymentMethodRef, uuid.NewString())
	if err != nil {
		// Compensating rollback: no dangling unpaid booking.
		if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
			logger.Error("Failed to roll back booking after authorization failure", "booking_id", booking.ID, "error", delErr)
		}
		return nil, err
	}

	now := s.now()
	holdExpiry := now.Add(s.policy.HoldExpiry)
	deadline := now.Add(s.policy.ApprovalDeadline)
	booking.Status = domain.BookingStatusPendingPayment
	booking.PaymentIntentRef = auth.PaymentIntentRef
	booking.TentativeHold = true
	booking.HoldExpiresAt = &holdExpiry
	booking.ApprovalDeadline = &deadline
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	dates := pricing.DatesInRange(start, end)
	if err := s.availRepo.HoldTentative(ctx, listing.ID, dates, booking.ID); err != nil {
		// Another request won the race between our pre-check and here. Undo
		// the authorization and the booking row, then surface the conflict.
		if voidErr := s.gateway.Void(ctx, auth.PaymentIntentRef); voidErr != nil {
			logger.Error("Failed to void authorization after hold conflict", "booking_id", booking.ID, "error", voidErr)
		}
		if relErr := s.availRepo.Release(ctx, booking.ID); relErr != nil {
			logger.Error("Failed to release partial holds after conflict", "booking_id", booking.ID, "error", relErr)
		}
		if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
			logger.Error("Failed to roll back booking after hold conflict", "booking_id", booking.ID, "error", delErr)
		}
		return nil, err
	}

	if price.PointsApplied > 0 {
		if err := s.userRepo.AdjustPoints(ctx, renterID, -price.PointsApplied); err != nil {
			// The total was already discounted by this credit. A concurrent
			// spend may have drained the balance since the quote; letting the
			// booking stand would grant the credit for free, so undo the
			// whole request.
			if voidErr := s.gateway.Void(ctx, auth.PaymentIntentRef); voidErr != nil {
				logger.Error("Failed to void authorization after points deduction failure", "booking_id", booking.ID, "error", voidErr)
			}
			if relErr := s.availRepo.Release(ctx, booking.ID); relErr != nil {
				logger.Error("Failed to release holds after points deduction failure", "booking_id", booking.ID, "error", relErr)
			}
			if delErr := s.bookingRepo.Delete(ctx, booking.ID); delErr != nil {
				logger.Error("Failed to roll back booking after points deduction failure", "booking_id", booking.ID, "error", delErr)
			}
			return nil, err
		}
	}

	s.dispatcher.Dispatch(ctx, listing.OwnerID, domain.NotificationBookingRequested, map[string]string{
		"booking_id":    fmt.Sprintf("%d", booking.ID),
		"listing_title": listing.Title,
		"renter_name":   renter.Name,
		"start_date":    in.StartDate,
		"end_date":      in.EndDate,
	})

	return &AuthorizeBookingResult{Booking: booking, ClientSecret: auth.ClientSecret}, nil
}

// Approve captures the authorized funds and promotes the tentative holds.
// Only valid from pending_payment; a second approve is a conflict, never a
// second capture.
func (s *bookingService) Approve(ctx context.Context, ownerID, bookingID int64) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can approve", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, fmt.Errorf("%w: booking is %s, not pending approval", domain.ErrConflict, booking.Status)
	}

	if err := s.gateway.Capture(ctx, booking.PaymentIntentRef); err != nil {
		return nil, err
	}

	if err := s.availRepo.PromoteToBooked(ctx, bookingID); err != nil {
		return nil, fmt.Errorf("%w: promote holds: %v", domain.ErrDependencyUnavailable, err)
	}

	booking.Status = domain.BookingStatusConfirmed
	booking.TentativeHold = false
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	s.notifyBookingParty(ctx, booking, booking.RenterID, domain.NotificationBookingApproved, nil)
	return booking, nil
}

// Reject voids the authorization, frees the holds and restores redeemed
// points. Deadline expiry reuses this path with an "expired" reason.
func (s *bookingService) Reject(ctx context.Context, ownerID, bookingID int64, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.OwnerID != ownerID {
		return nil, fmt.Errorf("%w: only the owner can reject", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusPendingPayment {
		return nil, fmt.Errorf("%w: booking is %s, not pending approval", domain.ErrConflict, booking.Status)
	}
	return s.cancelPending(ctx, booking, reason, domain.NotificationBookingRejected)
}

func (s *bookingService) cancelPending(ctx context.Context, booking *domain.Booking, reason string, kind domain.NotificationKind) (*domain.Booking, error) {
	if err := s.gateway.Void(ctx, booking.PaymentIntentRef); err != nil {
		return nil, err
	}
	if err := s.availRepo.Release(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("%w: release holds: %v", domain.ErrDependencyUnavailable, err)
	}

	if booking.Price.PointsApplied > 0 {
		if err := s.userRepo.AdjustPoints(ctx, booking.RenterID, booking.Price.PointsApplied); err != nil {
			logger.Error("Failed to restore points", "booking_id", booking.ID, "points", booking.Price.PointsApplied, "error", err)
		}
	}

	booking.Status = domain.BookingStatusCancelled
	booking.TentativeHold = false
	booking.CancelReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	s.notifyBookingParty(ctx, booking, booking.RenterID, kind, map[string]string{"reason": reason})
	return booking, nil
}

// ConfirmPickup records one party's pickup verification. The renter must
// attach at least the configured minimum of photos; the owner confirms
// without photos but only after the renter's photos exist. When both parties
// have confirmed, the booking moves to in_progress.
func (s *bookingService) ConfirmPickup(ctx context.Context, userID, bookingID int64, photos []PhotoInput) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusConfirmed {
		return nil, fmt.Errorf("%w: booking is %s, pickup verification requires a confirmed booking", domain.ErrConflict, booking.Status)
	}
	if booking.PickupConfirmed() {
		// Evidence is frozen once both sides confirmed.
		return nil, fmt.Errorf("%w: pickup already verified by both parties", domain.ErrConflict)
	}

	now := s.now()
	isRenter := userID == booking.RenterID
	if isRenter {
		if len(photos) < s.policy.MinPickupPhotos {
			return nil, fmt.Errorf("%w: at least %d pickup photo(s) required", domain.ErrValidation, s.policy.MinPickupPhotos)
		}
		if err := s.replacePhotos(ctx, booking.ID, domain.VerificationPhasePickup, userID, photos, now); err != nil {
			return nil, err
		}
		booking.PickupRenterConfirmedAt = &now
	} else {
		// Owner confirmation is gated on having the renter's evidence to review.
		existing, err := s.bookingRepo.GetPhotos(ctx, booking.ID, domain.VerificationPhasePickup)
		if err != nil {
			return nil, fmt.Errorf("%w: load photos: %v", domain.ErrDependencyUnavailable, err)
		}
		if len(existing) == 0 {
			return nil, fmt.Errorf("%w: renter has not submitted pickup photos yet", domain.ErrConflict)
		}
		if len(photos) > 0 {
			if err := s.replacePhotos(ctx, booking.ID, domain.VerificationPhasePickup, userID, photos, now); err != nil {
				return nil, err
			}
		}
		booking.PickupOwnerConfirmedAt = &now
	}

	if booking.PickupConfirmed() {
		booking.Status = domain.BookingStatusInProgress
	}
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	if booking.Status == domain.BookingStatusInProgress {
		s.notifyBookingParty(ctx, booking, booking.RenterID, domain.NotificationRentalStarted, nil)
		s.notifyBookingParty(ctx, booking, booking.OwnerID, domain.NotificationRentalStarted, nil)
	} else {
		s.notifyVerifyPending(ctx, booking, userID, domain.NotificationPickupVerify)
	}
	return booking, nil
}

// ConfirmReturn is the symmetric counterpart for the return phase. On dual
// confirmation the booking completes: the owner is paid out and the deposit
// refunded.
func (s *bookingService) ConfirmReturn(ctx context.Context, userID, bookingID int64, photos []PhotoInput) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(userID) {
		return nil, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusInProgress {
		return nil, fmt.Errorf("%w: booking is %s, return verification requires a rental in progress", domain.ErrConflict, booking.Status)
	}
	if booking.ReturnConfirmed() {
		return nil, fmt.Errorf("%w: return already verified by both parties", domain.ErrConflict)
	}

	now := s.now()
	if len(photos) > 0 {
		if err := s.replacePhotos(ctx, booking.ID, domain.VerificationPhaseReturn, userID, photos, now); err != nil {
			return nil, err
		}
	}
	if userID == booking.RenterID {
		booking.ReturnRenterConfirmedAt = &now
	} else {
		booking.ReturnOwnerConfirmedAt = &now
	}

	if !booking.ReturnConfirmed() {
		if err := s.bookingRepo.Update(ctx, booking); err != nil {
			return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
		}
		s.notifyVerifyPending(ctx, booking, userID, domain.NotificationReturnVerify)
		return booking, nil
	}

	// Both parties confirmed: settle. Funds were captured at approval; now
	// the owner gets the rental fee minus commission and the renter gets the
	// deposit back.
	owner, err := s.userRepo.GetByID(ctx, booking.OwnerID)
	if err != nil {
		return nil, err
	}
	if payout := s.pricing.OwnerPayout(booking.Price); payout > 0 && owner.PayoutAccountRef != "" {
		if err := s.gateway.ReleaseToOwner(ctx, owner.PayoutAccountRef, payout, fmt.Sprintf("booking-%d", booking.ID)); err != nil {
			return nil, err
		}
	}
	if booking.Price.DepositCents > 0 {
		if err := s.gateway.Refund(ctx, booking.PaymentIntentRef, booking.Price.DepositCents); err != nil {
			return nil, err
		}
	}

	booking.Status = domain.BookingStatusCompleted
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	s.notifyBookingParty(ctx, booking, booking.RenterID, domain.NotificationRentalCompleted, nil)
	s.notifyBookingParty(ctx, booking, booking.OwnerID, domain.NotificationRentalCompleted, nil)
	return booking, nil
}

// Cancel handles post-confirmation cancellation by the renter. The refund is
// computed by the tiered cancellation policy; holds are freed and both
// parties notified with the amounts.
func (s *bookingService) Cancel(ctx context.Context, renterID, bookingID int64, reason string) (*domain.Booking, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.RenterID != renterID {
		return nil, fmt.Errorf("%w: only the renter can cancel", domain.ErrForbidden)
	}

	switch booking.Status {
	case domain.BookingStatusPendingPayment:
		// Before approval nothing was captured; a renter cancellation is a
		// plain void, same as an owner rejection.
		return s.cancelPending(ctx, booking, reason, domain.NotificationBookingCancelled)
	case domain.BookingStatusConfirmed, domain.BookingStatusInProgress:
		// proceed to the fee computation below
	default:
		return nil, fmt.Errorf("%w: booking is %s and cannot be cancelled", domain.ErrConflict, booking.Status)
	}

	quote, err := s.pricing.CancellationRefund(booking, s.now())
	if err != nil {
		return nil, err
	}

	if quote.RefundCents > 0 {
		if err := s.gateway.Refund(ctx, booking.PaymentIntentRef, quote.RefundCents); err != nil {
			return nil, err
		}
	}
	if err := s.availRepo.Release(ctx, booking.ID); err != nil {
		return nil, fmt.Errorf("%w: release holds: %v", domain.ErrDependencyUnavailable, err)
	}
	if booking.Price.PointsApplied > 0 {
		if err := s.userRepo.AdjustPoints(ctx, booking.RenterID, booking.Price.PointsApplied); err != nil {
			logger.Error("Failed to restore points", "booking_id", booking.ID, "points", booking.Price.PointsApplied, "error", err)
		}
	}

	booking.Status = domain.BookingStatusCancelled
	booking.CancelReason = reason
	if err := s.bookingRepo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("%w: update booking: %v", domain.ErrDependencyUnavailable, err)
	}

	amounts := map[string]string{
		"reason": reason,
		"refund": fmt.Sprintf("%d", quote.RefundCents),
		"fee":    fmt.Sprintf("%d", quote.FeeCents),
	}
	s.notifyBookingParty(ctx, booking, booking.RenterID, domain.NotificationBookingCancelled, amounts)
	s.notifyBookingParty(ctx, booking, booking.OwnerID, domain.NotificationBookingCancelled, amounts)
	return booking, nil
}

func (s *bookingService) GetBooking(ctx context.Context, userID, bookingID int64) (*domain.Booking, []domain.VerificationPhoto, []domain.VerificationPhoto, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, nil, nil, err
	}
	if !booking.IsParty(userID) {
		return nil, nil, nil, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}
	pickup, err := s.bookingRepo.GetPhotos(ctx, bookingID, domain.VerificationPhasePickup)
	if err != nil {
		return nil, nil, nil, err
	}
	ret, err := s.bookingRepo.GetPhotos(ctx, bookingID, domain.VerificationPhaseReturn)
	if err != nil {
		return nil, nil, nil, err
	}
	return booking, pickup, ret, nil
}

func (s *bookingService) ListBookings(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByRenter(ctx, renterID, status, page, pageSize)
}

func (s *bookingService) ListLendings(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return s.bookingRepo.ListByOwner(ctx, ownerID, status, page, pageSize)
}

// ExpireOverdueApprovals sweeps pending_payment bookings whose approval
// deadline has passed and cancels them through the same path as an owner
// rejection.
func (s *bookingService) ExpireOverdueApprovals(ctx context.Context, limit int32) (int, error) {
	expired, err := s.bookingRepo.ListExpiredApprovals(ctx, limit)
	if err != nil {
		return 0, err
	}
	count := 0
	for i := range expired {
		booking := &expired[i]
		if _, err := s.cancelPending(ctx, booking, "approval deadline expired", domain.NotificationBookingExpired); err != nil {
			logger.Error("Failed to expire booking", "booking_id", booking.ID, "error", err)
			continue
		}
		count++
	}
	return count, nil
}

func (s *bookingService) replacePhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase, partyID int64, photos []PhotoInput, capturedAt time.Time) error {
	records := make([]domain.VerificationPhoto, 0, len(photos))
	for _, p := range photos {
		records = append(records, domain.VerificationPhoto{
			ID:         uuid.NewString(),
			BookingID:  bookingID,
			Phase:      phase,
			PartyID:    partyID,
			URL:        p.URL,
			CapturedAt: capturedAt,
			Latitude:   p.Latitude,
			Longitude:  p.Longitude,
		})
	}
	if err := s.bookingRepo.ReplacePhotos(ctx, bookingID, phase, partyID, records); err != nil {
		return fmt.Errorf("%w: store photos: %v", domain.ErrDependencyUnavailable, err)
	}
	return nil
}

// notifyBookingParty dispatches a templated notification enriched with the
// booking's listing title. Listing lookup failures degrade to an untitled
// notification rather than failing the caller.
func (s *bookingService) notifyBookingParty(ctx context.Context, booking *domain.Booking, userID int64, kind domain.NotificationKind, extra map[string]string) {
	data := map[string]string{
		"booking_id": fmt.Sprintf("%d", booking.ID),
	}
	if listing, err := s.listingRepo.GetByID(ctx, booking.ListingID); err == nil {
		data["listing_title"] = listing.Title
	}
	if owner, err := s.userRepo.GetByID(ctx, booking.OwnerID); err == nil {
		data["owner_name"] = owner.Name
	}
	for k, v := range extra {
		data[k] = v
	}
	s.dispatcher.Dispatch(ctx, userID, kind, data)
}

// notifyVerifyPending tells the party that has not confirmed yet to verify.
func (s *bookingService) notifyVerifyPending(ctx context.Context, booking *domain.Booking, confirmedBy int64, kind domain.NotificationKind) {
	other := booking.OwnerID
	confirming := "The renter"
	if confirmedBy == booking.OwnerID {
		other = booking.RenterID
		confirming = "The owner"
	}
	s.notifyBookingParty(ctx, booking, other, kind, map[string]string{"confirming_party": confirming})
}
