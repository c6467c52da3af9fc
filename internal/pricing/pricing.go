package pricing

import (
	"fmt"
	"time"

	"rentloop-backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Policy carries the fee configuration used to build quotes. Percentages are
// basis points (100 bps = 1%).
type Policy struct {
	ServiceFeeBps       int64
	InsuranceFeeBps     int64
	CommissionBps       int64
	PointValueCents     int64
	FreeCancelDays      int
	LateCancelRentalBps int64
}

// QuoteInput are the raw inputs to a price quote.
type QuoteInput struct {
	DailyRateCents  int64
	StartDate       string // yyyy-mm-dd
	EndDate         string // yyyy-mm-dd
	WithInsurance   bool
	DepositCents    int64
	RequestedPoints int64
	PointsBalance   int64
}

// ParseDateRange validates a yyyy-mm-dd range and returns the parsed dates and
// the duration in days. The end date must be strictly after the start date;
// duration = end − start (the end date is the return day, not a rented night).
func ParseDateRange(startDate, endDate string) (time.Time, time.Time, int32, error) {
	start, err := time.Parse(dateLayout, startDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: invalid start date %q", domain.ErrValidation, startDate)
	}
	end, err := time.Parse(dateLayout, endDate)
	if err != nil {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: invalid end date %q", domain.ErrValidation, endDate)
	}
	days := int32(end.Sub(start).Hours() / 24)
	if days < 1 {
		return time.Time{}, time.Time{}, 0, fmt.Errorf("%w: end date must be after start date", domain.ErrValidation)
	}
	return start, end, days, nil
}

// DatesInRange returns every rented date in [start, end), one per night.
func DatesInRange(start, end time.Time) []string {
	var dates []string
	for d := start; d.Before(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(dateLayout))
	}
	return dates
}

// Quote computes the full price breakdown for a booking request. The breakdown
// is a snapshot: it is computed once at authorization time and stored on the
// booking.
//
//	rental    = rate × days
//	service   = rental × serviceFeeBps
//	insurance = rental × insuranceFeeBps (when requested)
//	credit    = min(requestedPoints, balance) × pointValue
//	total     = max(0, rental + service + insurance + deposit − credit)
func (p Policy) Quote(in QuoteInput) (domain.PriceBreakdown, error) {
	_, _, days, err := ParseDateRange(in.StartDate, in.EndDate)
	if err != nil {
		return domain.PriceBreakdown{}, err
	}
	if in.DailyRateCents <= 0 {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: daily rate must be positive", domain.ErrValidation)
	}
	if in.RequestedPoints < 0 || in.DepositCents < 0 {
		return domain.PriceBreakdown{}, fmt.Errorf("%w: negative amounts not allowed", domain.ErrValidation)
	}

	rental := in.DailyRateCents * int64(days)
	service := applyBps(rental, p.ServiceFeeBps)

	var insurance int64
	if in.WithInsurance {
		insurance = applyBps(rental, p.InsuranceFeeBps)
	}

	points := in.RequestedPoints
	if points > in.PointsBalance {
		points = in.PointsBalance
	}
	credit := points * p.PointValueCents

	total := rental + service + insurance + in.DepositCents - credit
	if total < 0 {
		total = 0
	}

	return domain.PriceBreakdown{
		DailyRateCents:    in.DailyRateCents,
		DurationDays:      days,
		RentalFeeCents:    rental,
		ServiceFeeCents:   service,
		InsuranceFeeCents: insurance,
		DepositCents:      in.DepositCents,
		PointsApplied:     points,
		CreditCents:       credit,
		TotalCents:        total,
	}, nil
}

// CancellationQuote is the outcome of applying the cancellation policy.
type CancellationQuote struct {
	FeeCents    int64
	RefundCents int64
}

// CancellationRefund computes the refund owed to the renter for a
// post-confirmation cancellation at time now.
//
// At least FreeCancelDays before the start date the renter gets everything
// back except the service fee. Closer to the start date, a share of the
// rental fee is retained as well. On or after the start date only the
// security deposit comes back.
func (p Policy) CancellationRefund(b *domain.Booking, now time.Time) (CancellationQuote, error) {
	start, err := time.Parse(dateLayout, b.StartDate)
	if err != nil {
		return CancellationQuote{}, fmt.Errorf("%w: booking has invalid start date", domain.ErrValidation)
	}

	price := b.Price
	var fee int64
	switch {
	case !now.Before(start):
		// rental already started: rental, service and insurance are all kept
		fee = price.RentalFeeCents + price.ServiceFeeCents + price.InsuranceFeeCents
	case start.Sub(now) < time.Duration(p.FreeCancelDays)*24*time.Hour:
		fee = price.ServiceFeeCents + applyBps(price.RentalFeeCents, p.LateCancelRentalBps)
	default:
		fee = price.ServiceFeeCents
	}

	refund := price.TotalCents - fee
	if refund < 0 {
		refund = 0
	}
	return CancellationQuote{FeeCents: fee, RefundCents: refund}, nil
}

// OwnerPayout is the amount released to the owner on completion: the rental
// fee minus the platform commission. Service and insurance fees stay with the
// platform; the deposit goes back to the renter.
func (p Policy) OwnerPayout(price domain.PriceBreakdown) int64 {
	return price.RentalFeeCents - applyBps(price.RentalFeeCents, p.CommissionBps)
}

func applyBps(amount, bps int64) int64 {
	return amount * bps / 10000
}
