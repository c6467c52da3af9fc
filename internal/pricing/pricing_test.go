package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentloop-backend/internal/domain"
)

func testPolicy() Policy {
	return Policy{
		ServiceFeeBps:       1000, // 10%
		InsuranceFeeBps:     500,  // 5%
		CommissionBps:       1500, // 15%
		PointValueCents:     1,
		FreeCancelDays:      7,
		LateCancelRentalBps: 5000, // 50%
	}
}

func TestParseDateRange(t *testing.T) {
	t.Run("ThreeDays", func(t *testing.T) {
		_, _, days, err := ParseDateRange("2026-06-01", "2026-06-04")
		require.NoError(t, err)
		assert.Equal(t, int32(3), days)
	})

	t.Run("EndNotAfterStart", func(t *testing.T) {
		_, _, _, err := ParseDateRange("2026-06-04", "2026-06-04")
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, _, _, err = ParseDateRange("2026-06-04", "2026-06-01")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("Garbage", func(t *testing.T) {
		_, _, _, err := ParseDateRange("June 1st", "2026-06-04")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestDatesInRange(t *testing.T) {
	start, _ := time.Parse("2006-01-02", "2026-06-01")
	end, _ := time.Parse("2006-01-02", "2026-06-04")
	dates := DatesInRange(start, end)
	assert.Equal(t, []string{"2026-06-01", "2026-06-02", "2026-06-03"}, dates)
}

func TestQuote(t *testing.T) {
	p := testPolicy()

	t.Run("FullBreakdown", func(t *testing.T) {
		price, err := p.Quote(QuoteInput{
			DailyRateCents:  2500,
			StartDate:       "2026-06-01",
			EndDate:         "2026-06-05", // 4 days
			WithInsurance:   true,
			DepositCents:    10000,
			RequestedPoints: 500,
			PointsBalance:   2000,
		})
		require.NoError(t, err)
		assert.Equal(t, int32(4), price.DurationDays)
		assert.Equal(t, int64(10000), price.RentalFeeCents)
		assert.Equal(t, int64(1000), price.ServiceFeeCents)
		assert.Equal(t, int64(500), price.InsuranceFeeCents)
		assert.Equal(t, int64(500), price.PointsApplied)
		assert.Equal(t, int64(500), price.CreditCents)
		// 10000 + 1000 + 500 + 10000 - 500
		assert.Equal(t, int64(21000), price.TotalCents)
	})

	t.Run("NoInsurance", func(t *testing.T) {
		price, err := p.Quote(QuoteInput{
			DailyRateCents: 2500,
			StartDate:      "2026-06-01",
			EndDate:        "2026-06-05",
		})
		require.NoError(t, err)
		assert.Zero(t, price.InsuranceFeeCents)
		assert.Equal(t, int64(11000), price.TotalCents)
	})

	t.Run("PointsCappedAtBalance", func(t *testing.T) {
		price, err := p.Quote(QuoteInput{
			DailyRateCents:  1000,
			StartDate:       "2026-06-01",
			EndDate:         "2026-06-02",
			RequestedPoints: 5000,
			PointsBalance:   300,
		})
		require.NoError(t, err)
		assert.Equal(t, int64(300), price.PointsApplied)
		assert.Equal(t, int64(300), price.CreditCents)
	})

	t.Run("TotalFloorsAtZero", func(t *testing.T) {
		price, err := p.Quote(QuoteInput{
			DailyRateCents:  100,
			StartDate:       "2026-06-01",
			EndDate:         "2026-06-02",
			RequestedPoints: 100000,
			PointsBalance:   100000,
		})
		require.NoError(t, err)
		assert.Zero(t, price.TotalCents)
	})

	t.Run("RejectsNonPositiveRate", func(t *testing.T) {
		_, err := p.Quote(QuoteInput{
			DailyRateCents: 0,
			StartDate:      "2026-06-01",
			EndDate:        "2026-06-02",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestCancellationRefund(t *testing.T) {
	p := testPolicy()

	booking := &domain.Booking{
		StartDate: "2026-06-20",
		EndDate:   "2026-06-24",
		Price: domain.PriceBreakdown{
			RentalFeeCents:    10000,
			ServiceFeeCents:   1000,
			InsuranceFeeCents: 500,
			DepositCents:      5000,
			TotalCents:        16500,
		},
	}

	t.Run("EarlyCancelKeepsServiceFee", func(t *testing.T) {
		now, _ := time.Parse("2006-01-02", "2026-06-10") // 10 days out
		quote, err := p.CancellationRefund(booking, now)
		require.NoError(t, err)
		assert.Equal(t, int64(1000), quote.FeeCents)
		assert.Equal(t, int64(15500), quote.RefundCents)
	})

	t.Run("LateCancelAlsoKeepsHalfRental", func(t *testing.T) {
		now, _ := time.Parse("2006-01-02", "2026-06-17") // 3 days out
		quote, err := p.CancellationRefund(booking, now)
		require.NoError(t, err)
		assert.Equal(t, int64(6000), quote.FeeCents)
		assert.Equal(t, int64(10500), quote.RefundCents)
	})

	t.Run("AfterStartOnlyDepositBack", func(t *testing.T) {
		now, _ := time.Parse("2006-01-02", "2026-06-21")
		quote, err := p.CancellationRefund(booking, now)
		require.NoError(t, err)
		assert.Equal(t, int64(11500), quote.FeeCents)
		assert.Equal(t, int64(5000), quote.RefundCents)
	})
}

func TestOwnerPayout(t *testing.T) {
	p := testPolicy()
	price := domain.PriceBreakdown{RentalFeeCents: 10000}
	assert.Equal(t, int64(8500), p.OwnerPayout(price))
}
