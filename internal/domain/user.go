package domain

import "time"

type User struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	PhoneNumber  string `json:"phone_number,omitempty"`
	AvatarURL    string `json:"avatar_url,omitempty"`

	// Loyalty points redeemable against bookings at the configured
	// conversion rate.
	PointsBalance int64 `json:"points_balance"`

	// References into the payments processor. Empty until first used.
	PaymentCustomerRef string `json:"-"`
	PayoutAccountRef   string `json:"-"`

	CreatedOn time.Time `json:"created_on"`
	UpdatedOn time.Time `json:"updated_on"`
}

// DeviceToken is a registered push target for a user. Tokens the push provider
// reports as unregistered get deleted on the next send.
type DeviceToken struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Token     string    `json:"token"`
	Platform  string    `json:"platform"` // "ios", "android", "web"
	CreatedOn time.Time `json:"created_on"`
}
