package http

import (
	"net/http"

	"github.com/gorilla/mux"

	"rentloop-backend/internal/security"
	"rentloop-backend/internal/service"
)

// Handlers bundles everything the router needs.
type Handlers struct {
	Auth         *AuthHandler
	Listing      *ListingHandler
	Booking      *BookingHandler
	Review       *ReviewHandler
	Message      *MessageHandler
	Notification *NotificationHandler
	TokenManager security.TokenManager
}

func NewHandlers(
	auth service.AuthService,
	users service.UserService,
	listings service.ListingService,
	bookings service.BookingService,
	reviews service.ReviewService,
	messages service.MessageService,
	notifications service.NotificationService,
	tokens security.TokenManager,
) *Handlers {
	return &Handlers{
		Auth:         NewAuthHandler(auth, users),
		Listing:      NewListingHandler(listings),
		Booking:      NewBookingHandler(bookings),
		Review:       NewReviewHandler(reviews),
		Message:      NewMessageHandler(messages),
		Notification: NewNotificationHandler(notifications),
		TokenManager: tokens,
	}
}

// NewRouter builds the full route table. Everything under /api/v1 except
// auth, listing search/detail and listing reviews requires a Bearer token.
func NewRouter(h *Handlers) *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware)

	r.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	api := r.PathPrefix("/api/v1").Subrouter()

	// public
	api.HandleFunc("/auth/signup", h.Auth.Signup).Methods(http.MethodPost)
	api.HandleFunc("/auth/login", h.Auth.Login).Methods(http.MethodPost)
	api.HandleFunc("/auth/refresh", h.Auth.Refresh).Methods(http.MethodPost)
	api.HandleFunc("/listings", h.Listing.Search).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}", h.Listing.Get).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}/reviews", h.Review.ListForListing).Methods(http.MethodGet)
	api.HandleFunc("/listings/{id:[0-9]+}/availability", h.Listing.Availability).Methods(http.MethodGet)
	api.HandleFunc("/users/{id:[0-9]+}/reviews", h.Review.ListForUser).Methods(http.MethodGet)

	// authenticated
	auth := api.NewRoute().Subrouter()
	auth.Use(AuthMiddleware(h.TokenManager))

	auth.HandleFunc("/me", h.Auth.GetProfile).Methods(http.MethodGet)
	auth.HandleFunc("/me", h.Auth.UpdateProfile).Methods(http.MethodPatch)

	auth.HandleFunc("/listings", h.Listing.Create).Methods(http.MethodPost)
	auth.HandleFunc("/listings/{id:[0-9]+}", h.Listing.Update).Methods(http.MethodPut)
	auth.HandleFunc("/listings/{id:[0-9]+}", h.Listing.Deactivate).Methods(http.MethodDelete)
	auth.HandleFunc("/my/listings", h.Listing.ListMine).Methods(http.MethodGet)

	auth.HandleFunc("/bookings/authorize", h.Booking.Authorize).Methods(http.MethodPost)
	auth.HandleFunc("/bookings", h.Booking.ListMine).Methods(http.MethodGet)
	auth.HandleFunc("/lendings", h.Booking.ListLendings).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id:[0-9]+}", h.Booking.Get).Methods(http.MethodGet)
	auth.HandleFunc("/bookings/{id:[0-9]+}/approve", h.Booking.Approve).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/reject", h.Booking.Reject).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/pickup-verification", h.Booking.ConfirmPickup).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/return-verification", h.Booking.ConfirmReturn).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/cancel", h.Booking.Cancel).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/messages", h.Message.Send).Methods(http.MethodPost)
	auth.HandleFunc("/bookings/{id:[0-9]+}/messages", h.Message.List).Methods(http.MethodGet)

	auth.HandleFunc("/reviews", h.Review.Submit).Methods(http.MethodPost)

	auth.HandleFunc("/notifications", h.Notification.List).Methods(http.MethodGet)
	auth.HandleFunc("/notifications/{id:[0-9]+}/read", h.Notification.MarkRead).Methods(http.MethodPost)
	auth.HandleFunc("/notifications/preferences", h.Notification.SetPreference).Methods(http.MethodPut)
	auth.HandleFunc("/devices", h.Notification.RegisterDevice).Methods(http.MethodPost)
	auth.HandleFunc("/devices", h.Notification.UnregisterDevice).Methods(http.MethodDelete)

	return r
}
