package http

import (
	"net/http"

	"rentloop-backend/internal/service"
)

type ReviewHandler struct {
	reviews service.ReviewService
}

func NewReviewHandler(reviews service.ReviewService) *ReviewHandler {
	return &ReviewHandler{reviews: reviews}
}

type submitReviewRequest struct {
	BookingID int64  `json:"booking_id" validate:"required,min=1"`
	Rating    int32  `json:"rating" validate:"required,min=1,max=5"`
	Comment   string `json:"comment" validate:"omitempty,max=2000"`
}

func (h *ReviewHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req submitReviewRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, err)
		return
	}
	review, err := h.reviews.SubmitReview(r.Context(), userID(r), req.BookingID, req.Rating, req.Comment)
	if err != nil {
		respondError(w, err)
		return
	}
	respondData(w, http.StatusCreated, review)
}

func (h *ReviewHandler) ListForListing(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := pagination(r)
	reviews, total, err := h.reviews.ListListingReviews(r.Context(), id, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, reviews, page, pageSize, total)
}

func (h *ReviewHandler) ListForUser(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r, "id")
	if err != nil {
		respondError(w, err)
		return
	}
	page, pageSize := pagination(r)
	reviews, total, err := h.reviews.ListUserReviews(r.Context(), id, page, pageSize)
	if err != nil {
		respondError(w, err)
		return
	}
	respondPage(w, reviews, page, pageSize, total)
}
