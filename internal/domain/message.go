package domain

import "time"

// Message is one entry in a booking's conversation thread. Only the two
// parties of the booking may read or write it.
type Message struct {
	ID        int64     `json:"id"`
	BookingID int64     `json:"booking_id"`
	SenderID  int64     `json:"sender_id"`
	Body      string    `json:"body"`
	IsRead    bool      `json:"is_read"`
	CreatedOn time.Time `json:"created_on"`
}
