package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rentloop-backend/internal/domain"
)

// A new intent can be authorized without a payment method; the client then
// confirms it with the returned client secret.
func TestAuthorizeRequest_PaymentMethodIsOptional(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/authorize",
		strings.NewReader(`{"listing_id":5,"start_date":"2026-09-10","end_date":"2026-09-14"}`))
	var dst authorizeBookingRequest
	err := decodeJSON(req, &dst)
	require.NoError(t, err)
	assert.Empty(t, dst.PaymentMethodRef)
}

func TestAuthorizeRequest_StillRequiresListingAndDates(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bookings/authorize",
		strings.NewReader(`{"start_date":"2026-09-10","end_date":"2026-09-14"}`))
	var dst authorizeBookingRequest
	err := decodeJSON(req, &dst)
	assert.ErrorIs(t, err, domain.ErrValidation)
}
