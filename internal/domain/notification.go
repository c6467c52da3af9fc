package domain

import "time"

// NotificationKind identifies the template used for a dispatch. It doubles as
// the preference category key users can opt out of.
type NotificationKind string

const (
	NotificationBookingRequested NotificationKind = "booking_requested"
	NotificationBookingApproved  NotificationKind = "booking_approved"
	NotificationBookingRejected  NotificationKind = "booking_rejected"
	NotificationBookingExpired   NotificationKind = "booking_expired"
	NotificationBookingCancelled NotificationKind = "booking_cancelled"
	NotificationPickupVerify     NotificationKind = "pickup_verify"
	NotificationRentalStarted    NotificationKind = "rental_started"
	NotificationReturnVerify     NotificationKind = "return_verify"
	NotificationRentalCompleted  NotificationKind = "rental_completed"
	NotificationReviewReminder   NotificationKind = "review_reminder"
	NotificationNewMessage       NotificationKind = "new_message"
)

type Notification struct {
	ID         int64             `json:"id"`
	UserID     int64             `json:"user_id"`
	Kind       NotificationKind  `json:"kind"`
	Title      string            `json:"title"`
	Message    string            `json:"message"`
	IsRead     bool              `json:"is_read"`
	Attributes map[string]string `json:"attributes,omitempty"`
	CreatedOn  time.Time         `json:"created_on"`
}

// NotificationPreference is a per-category opt-out. Absence of a row means the
// category is delivered.
type NotificationPreference struct {
	UserID       int64            `json:"user_id"`
	Kind         NotificationKind `json:"kind"`
	EmailEnabled bool             `json:"email_enabled"`
	PushEnabled  bool             `json:"push_enabled"`
}
