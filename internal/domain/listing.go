package domain

import "time"

type Listing struct {
	ID             int64     `json:"id"`
	OwnerID        int64     `json:"owner_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	DailyRateCents int64     `json:"daily_rate_cents"`
	DepositCents   int64     `json:"deposit_cents"`
	PhotoURLs      []string  `json:"photo_urls"`
	Location       string    `json:"location"`
	Active         bool      `json:"active"`
	CreatedOn      time.Time `json:"created_on"`
	UpdatedOn      time.Time `json:"updated_on"`
}
