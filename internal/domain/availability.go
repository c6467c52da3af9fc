package domain

// AvailabilityStatus is the per-date booking state of a listing. A free date has
// no row at all; only tentative and booked entries are stored.
type AvailabilityStatus string

const (
	AvailabilityStatusTentative AvailabilityStatus = "tentative"
	AvailabilityStatusBooked    AvailabilityStatus = "booked"
)

// AvailabilityEntry is one (listing, date) pair. At most one non-free entry may
// exist per pair; the storage layer's unique index enforces this, since multiple
// orchestrator instances may race on the same dates.
type AvailabilityEntry struct {
	ID        int64              `json:"id"`
	ListingID int64              `json:"listing_id"`
	Date      string             `json:"date"` // yyyy-mm-dd
	Status    AvailabilityStatus `json:"status"`
	BookingID int64              `json:"booking_id"`
	Reason    string             `json:"reason,omitempty"`
}
