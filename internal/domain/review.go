package domain

import "time"

type ReviewType string

const (
	ReviewTypeRenterToOwner ReviewType = "renter_to_owner"
	ReviewTypeOwnerToRenter ReviewType = "owner_to_renter"
)

// Review is feedback tied to a completed booking. One review per
// (booking, type); a second submission is a conflict, not an update.
type Review struct {
	ID        int64      `json:"id"`
	BookingID int64      `json:"booking_id"`
	ListingID int64      `json:"listing_id"`
	AuthorID  int64      `json:"author_id"`
	SubjectID int64      `json:"subject_id"`
	Type      ReviewType `json:"type"`
	Rating    int32      `json:"rating"` // 1..5
	Comment   string     `json:"comment"`
	CreatedOn time.Time  `json:"created_on"`
}
