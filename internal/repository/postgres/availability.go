package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type availabilityRepository struct {
	db *sql.DB
}

func NewAvailabilityRepository(db *sql.DB) repository.AvailabilityRepository {
	return &availabilityRepository{db: db}
}

func (r *availabilityRepository) ListRange(ctx context.Context, listingID int64, fromDate, toDate string) ([]domain.AvailabilityEntry, error) {
	query := `SELECT id, listing_id, date, status, booking_id, reason
	          FROM availability_entries
	          WHERE listing_id = $1 AND date >= $2 AND date < $3
	          ORDER BY date`
	rows, err := r.db.QueryContext(ctx, query, listingID, fromDate, toDate)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []domain.AvailabilityEntry
	for rows.Next() {
		var e domain.AvailabilityEntry
		if err := rows.Scan(&e.ID, &e.ListingID, &e.Date, &e.Status, &e.BookingID, &e.Reason); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// HoldTentative inserts the whole range in a single transaction so a racing
// request either gets every date or none. The unique index on
// (listing_id, date) is the arbiter: the loser's insert fails with 23505,
// mapped here to domain.ErrConflict.
func (r *availabilityRepository) HoldTentative(ctx context.Context, listingID int64, dates []string, bookingID int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `INSERT INTO availability_entries (listing_id, date, status, booking_id, reason)
	          VALUES ($1, $2, $3, $4, $5)`
	for _, date := range dates {
		if _, err := tx.ExecContext(ctx, query, listingID, date, domain.AvailabilityStatusTentative, bookingID, "pending booking"); err != nil {
			if isUniqueViolation(err) {
				return fmt.Errorf("%w: date %s is no longer available", domain.ErrConflict, date)
			}
			return err
		}
	}
	return tx.Commit()
}

func (r *availabilityRepository) PromoteToBooked(ctx context.Context, bookingID int64) error {
	query := `UPDATE availability_entries SET status = $1, reason = 'confirmed booking' WHERE booking_id = $2`
	_, err := r.db.ExecContext(ctx, query, domain.AvailabilityStatusBooked, bookingID)
	return err
}

func (r *availabilityRepository) Release(ctx context.Context, bookingID int64) error {
	query := `DELETE FROM availability_entries WHERE booking_id = $1`
	_, err := r.db.ExecContext(ctx, query, bookingID)
	return err
}

func (r *availabilityRepository) ReleaseExpired(ctx context.Context) (int64, error) {
	// Tentative rows must reference a live pending/pending_payment booking;
	// anything else is a leftover from a hold that expired or a booking that
	// moved on without cleanup.
	query := `DELETE FROM availability_entries a
	          USING bookings b
	          WHERE a.booking_id = b.id
	            AND a.status = 'tentative'
	            AND (b.status NOT IN ('pending', 'pending_payment')
	                 OR (b.hold_expires_at IS NOT NULL AND b.hold_expires_at < NOW()))`
	res, err := r.db.ExecContext(ctx, query)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
