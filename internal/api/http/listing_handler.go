package http

import (
	"net/http"
	"strconv"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/service"
)

type ListingHandler struct {
	listings service.ListingService
}

func NewListingHandler(listings service.ListingService) *ListingHandler {
	return &ListingHandler{listings: listings}
}

type listingRequest struct {
	Title          string   `json:"title" validate:"required,min=1,max=200"`
	Description    string   `json:"description" validate:"omitempty,max=5000"`
	Category       string   `json:"category" validate:"omitempty,max=100"`
	DailyRateCents int64    `json:"daily_rate_cents" validate:"required,min=1"`
	DepositCents   int64    `json:"deposit_cents" validate:"min=0"`
	PhotoURLs      []string `json:"photo_urls" validate:"omitempty,max=20,dive,url"`
	Location       string   `json:"location" validate:"omitempty,max=200"`
}

func (h *ListingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	listing := &domain.Listing{
		OwnerID:        userID(r),
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		DailyRateCents: req.DailyRateCents,
		DepositCents:   req.DepositCents,
		PhotoURLs:      req.PhotoURLs,
		Location:       req.Location,
	}
	if err := h.listings.CreateListing(r.Context(), listing); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, listing)
}

func (h *ListingHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	listing, err := h.listings.GetListing(r.Context(), id)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, listing)
}

func (h *ListingHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	var req listingRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	listing := &domain.Listing{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Category:       req.Category,
		DailyRateCents: req.DailyRateCents,
		DepositCents:   req.DepositCents,
		PhotoURLs:      req.PhotoURLs,
		Location:       req.Location,
		Active:         true,
	}
	if err := h.listings.UpdateListing(r.Context(), userID(r), listing); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, listing)
}

func (h *ListingHandler) Deactivate(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	if err := h.listings.DeactivateListing(r.Context(), userID(r), id); err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, map[string]bool{"deactivated": true})
}

func (h *ListingHandler) Search(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	q := r.URL.Query()
	var maxRate int64
	if v, err := strconv.ParseInt(q.Get("max_rate_cents"), 10, 64); err == nil && v > 0 {
		maxRate = v
	}
	listings, total, err := h.listings.SearchListings(r.Context(), q.Get("q"), q.Get("category"), maxRate, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, listings, page, pageSize, total)
}

func (h *ListingHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	page, pageSize := pagination(r)
	listings, total, err := h.listings.ListMyListings(r.Context(), userID(r), page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, listings, page, pageSize, total)
}

func (h *ListingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	q := r.URL.Query()
	entries, err := h.listings.GetAvailability(r.Context(), id, q.Get("from"), q.Get("to"))
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusOK, entries)
}
