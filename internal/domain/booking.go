package domain

import "time"

type BookingStatus string

const (
	BookingStatusPending        BookingStatus = "pending"
	BookingStatusPendingPayment BookingStatus = "pending_payment"
	BookingStatusConfirmed      BookingStatus = "confirmed"
	BookingStatusInProgress     BookingStatus = "in_progress"
	BookingStatusCompleted      BookingStatus = "completed"
	BookingStatusCancelled      BookingStatus = "cancelled"
)

// IsTerminal reports whether no further transition is allowed from the status.
func (s BookingStatus) IsTerminal() bool {
	return s == BookingStatusCompleted || s == BookingStatusCancelled
}

type VerificationPhase string

const (
	VerificationPhasePickup VerificationPhase = "pickup"
	VerificationPhaseReturn VerificationPhase = "return"
)

// PriceBreakdown is the pricing snapshot captured once at authorization time.
// All amounts are in minor currency units. A booking modification requires an
// explicit re-price; nothing recomputes these silently.
type PriceBreakdown struct {
	DailyRateCents    int64 `json:"daily_rate_cents"`
	DurationDays      int32 `json:"duration_days"`
	RentalFeeCents    int64 `json:"rental_fee_cents"`
	ServiceFeeCents   int64 `json:"service_fee_cents"`
	InsuranceFeeCents int64 `json:"insurance_fee_cents"`
	DepositCents      int64 `json:"deposit_cents"`
	PointsApplied     int64 `json:"points_applied"`
	CreditCents       int64 `json:"credit_cents"`
	TotalCents        int64 `json:"total_cents"`
}

type Booking struct {
	ID        int64         `json:"id"`
	ListingID int64         `json:"listing_id"`
	RenterID  int64         `json:"renter_id"`
	OwnerID   int64         `json:"owner_id"` // derived from the listing, immutable
	StartDate string        `json:"start_date"`
	EndDate   string        `json:"end_date"`
	Price     PriceBreakdown `json:"price"`
	Status    BookingStatus `json:"status"`

	PaymentIntentRef string     `json:"payment_intent_ref,omitempty"`
	TentativeHold    bool       `json:"tentative_hold"`
	HoldExpiresAt    *time.Time `json:"hold_expires_at,omitempty"`
	ApprovalDeadline *time.Time `json:"approval_deadline,omitempty"`

	PickupRenterConfirmedAt *time.Time `json:"pickup_renter_confirmed_at,omitempty"`
	PickupOwnerConfirmedAt  *time.Time `json:"pickup_owner_confirmed_at,omitempty"`
	ReturnRenterConfirmedAt *time.Time `json:"return_renter_confirmed_at,omitempty"`
	ReturnOwnerConfirmedAt  *time.Time `json:"return_owner_confirmed_at,omitempty"`

	CancelReason string `json:"cancel_reason,omitempty"`
	Notes        string `json:"notes,omitempty"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// PickupConfirmed reports whether both parties have confirmed the pickup.
func (b *Booking) PickupConfirmed() bool {
	return b.PickupRenterConfirmedAt != nil && b.PickupOwnerConfirmedAt != nil
}

// ReturnConfirmed reports whether both parties have confirmed the return.
func (b *Booking) ReturnConfirmed() bool {
	return b.ReturnRenterConfirmedAt != nil && b.ReturnOwnerConfirmedAt != nil
}

// IsParty reports whether userID is the renter or the owner of the booking.
func (b *Booking) IsParty(userID int64) bool {
	return b.RenterID == userID || b.OwnerID == userID
}

// VerificationPhoto is evidence attached to a booking's pickup or return phase.
// Photos are owned by their booking and become immutable once both parties have
// confirmed the phase.
type VerificationPhoto struct {
	ID         string            `json:"id"`
	BookingID  int64             `json:"booking_id"`
	Phase      VerificationPhase `json:"phase"`
	PartyID    int64             `json:"party_id"`
	URL        string            `json:"url"`
	CapturedAt time.Time         `json:"captured_at"`
	Latitude   *float64          `json:"latitude,omitempty"`
	Longitude  *float64          `json:"longitude,omitempty"`
}
