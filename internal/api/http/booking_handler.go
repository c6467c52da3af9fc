package http

import (
	"net/http"

	"rentloop-backend/internal/service"
)

type BookingHandler struct {
	bookings service.BookingService
}

func NewBookingHandler(bookings service.BookingService) *BookingHandler {
	return &BookingHandler{bookings: bookings}
}

type authorizeBookingRequest struct {
	ListingID        int64  `json:"listing_id" validate:"required,min=1"`
	StartDate        string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate          string `json:"end_date" validate:"required,datetime=2006-01-02"`
	WithInsurance    bool   `json:"with_insurance"`
	RequestedPoints  int64  `json:"requested_points" validate:"min=0"`
	// Optional: without a method the intent is authorized unconfirmed and the
	// client completes it with the returned client secret.
	PaymentMethodRef string `json:"payment_method_ref"`
	Notes            string `json:"notes" validate:"omitempty,max=2000"`
}

func (h *BookingHandler) Authorize(w http.ResponseWriter, r *http.Request) {
	var req authorizeBookingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	result, err := h.bookings.Authorize(r.Context(), userID(r), service.AuthorizeBookingInput{
		ListingID:        req.ListingID,
		StartDate:        req.StartDate,
		EndDate:          req.EndDate,
		WithInsurance:    req.WithInsurance,
		RequestedPoints:  req.RequestedPoints,
		PaymentMethodRef: req.PaymentMethodRef,
		Notes:            req.Notes,
	})
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, map[string]interface{}{
		"booking":       result.Booking,
		"client_secret": result.ClientSecret,
	})
}

func (h *BookingHandler) Approve(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.bookings.Approve(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

type rejectRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (h *BookingHandler) Reject(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req rejectRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.bookings.Reject(r.Context(), userID(r), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

type photoPayload struct {
	URL       string   `json:"url" validate:"required,url"`
	Latitude  *float64 `json:"latitude" validate:"omitempty,min=-90,max=90"`
	Longitude *float64 `json:"longitude" validate:"omitempty,min=-180,max=180"`
}

type verificationRequest struct {
	Photos []photoPayload `json:"photos" validate:"omitempty,max=10,dive"`
}

func toPhotoInputs(payloads []photoPayload) []service.PhotoInput {
	photos := make([]service.PhotoInput, 0, len(payloads))
	for _, p := range payloads {
		photos = append(photos, service.PhotoInput{URL: p.URL, Latitude: p.Latitude, Longitude: p.Longitude})
	}
	return photos
}

func (h *BookingHandler) ConfirmPickup(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req verificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.bookings.ConfirmPickup(r.Context(), userID(r), id, toPhotoInputs(req.Photos))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

func (h *BookingHandler) ConfirmReturn(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req verificationRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.bookings.ConfirmReturn(r.Context(), userID(r), id, toPhotoInputs(req.Photos))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

type cancelRequest struct {
	Reason string `json:"reason" validate:"omitempty,max=500"`
}

func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req cancelRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	booking, err := h.bookings.Cancel(r.Context(), userID(r), id, req.Reason)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, booking)
}

func (h *BookingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	booking, pickup, ret, err := h.bookings.GetBooking(r.Context(), userID(r), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]interface{}{
		"booking":       booking,
		"pickup_photos": pickup,
		"return_photos": ret,
	})
}

func (h *BookingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookings.ListBookings(r.Context(), userID(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, bookings, page, pageSize, total)
}

func (h *BookingHandler) ListLendings(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	bookings, total, err := h.bookings.ListLendings(r.Context(), userID(r), r.URL.Query().Get("status"), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, bookings, page, pageSize, total)
}
