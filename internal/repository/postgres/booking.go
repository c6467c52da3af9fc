package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, listing_id, renter_id, owner_id, start_date, end_date,
	daily_rate_cents, duration_days, rental_fee_cents, service_fee_cents,
	insurance_fee_cents, deposit_cents, points_applied, credit_cents, total_cents,
	status, payment_intent_ref, tentative_hold, hold_expires_at, approval_deadline,
	pickup_renter_confirmed_at, pickup_owner_confirmed_at,
	return_renter_confirmed_at, return_owner_confirmed_at,
	cancel_reason, notes, created_on, updated_on`

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `INSERT INTO bookings (listing_id, renter_id, owner_id, start_date, end_date,
	            daily_rate_cents, duration_days, rental_fee_cents, service_fee_cents,
	            insurance_fee_cents, deposit_cents, points_applied, credit_cents, total_cents,
	            status, notes, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	          RETURNING id`
	now := time.Now()
	b.CreatedOn = now
	b.UpdatedOn = now
	return r.db.QueryRowContext(ctx, query,
		b.ListingID, b.RenterID, b.OwnerID, b.StartDate, b.EndDate,
		b.Price.DailyRateCents, b.Price.DurationDays, b.Price.RentalFeeCents, b.Price.ServiceFeeCents,
		b.Price.InsuranceFeeCents, b.Price.DepositCents, b.Price.PointsApplied, b.Price.CreditCents, b.Price.TotalCents,
		b.Status, b.Notes, now, now,
	).Scan(&b.ID)
}

func (r *bookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: booking %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	return b, nil
}

func (r *bookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	query := `UPDATE bookings SET
	            status = $1, payment_intent_ref = $2, tentative_hold = $3,
	            hold_expires_at = $4, approval_deadline = $5,
	            pickup_renter_confirmed_at = $6, pickup_owner_confirmed_at = $7,
	            return_renter_confirmed_at = $8, return_owner_confirmed_at = $9,
	            cancel_reason = $10, updated_on = $11
	          WHERE id = $12`
	b.UpdatedOn = time.Now()
	_, err := r.db.ExecContext(ctx, query,
		b.Status, b.PaymentIntentRef, b.TentativeHold,
		b.HoldExpiresAt, b.ApprovalDeadline,
		b.PickupRenterConfirmedAt, b.PickupOwnerConfirmedAt,
		b.ReturnRenterConfirmedAt, b.ReturnOwnerConfirmedAt,
		b.CancelReason, b.UpdatedOn, b.ID)
	return err
}

func (r *bookingRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM bookings WHERE id = $1`, id)
	return err
}

func (r *bookingRepository) ListByRenter(ctx context.Context, renterID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "renter_id", renterID, status, page, pageSize)
}

func (r *bookingRepository) ListByOwner(ctx context.Context, ownerID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	return r.list(ctx, "owner_id", ownerID, status, page, pageSize)
}

func (r *bookingRepository) list(ctx context.Context, partyColumn string, partyID int64, status string, page, pageSize int32) ([]domain.Booking, int32, error) {
	offset := (page - 1) * pageSize
	base := `SELECT ` + bookingColumns + ` FROM bookings WHERE ` + partyColumn + ` = $1`

	args := []interface{}{partyID}
	argIdx := 2
	if status != "" {
		base += fmt.Sprintf(" AND status = $%d", argIdx)
		args = append(args, status)
		argIdx++
	}

	var count int32
	countQuery := "SELECT count(*) FROM (" + base + ") AS sub"
	if err := r.db.QueryRowContext(ctx, countQuery, args...).Scan(&count); err != nil {
		return nil, 0, err
	}

	base += fmt.Sprintf(" ORDER BY created_on DESC LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, pageSize, offset)

	rows, err := r.db.QueryContext(ctx, base, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, 0, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, count, rows.Err()
}

func (r *bookingRepository) ListExpiredApprovals(ctx context.Context, limit int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE status = $1 AND approval_deadline IS NOT NULL AND approval_deadline < NOW()
	          ORDER BY approval_deadline
	          LIMIT $2`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusPendingPayment, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

func (r *bookingRepository) ListCompletedWithoutReview(ctx context.Context, reviewType domain.ReviewType, limit int32) ([]domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings b
	          WHERE b.status = $1
	            AND NOT EXISTS (SELECT 1 FROM reviews r WHERE r.booking_id = b.id AND r.type = $2)
	          ORDER BY b.updated_on DESC
	          LIMIT $3`
	rows, err := r.db.QueryContext(ctx, query, domain.BookingStatusCompleted, reviewType, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var bookings []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, *b)
	}
	return bookings, rows.Err()
}

// ReplacePhotos swaps out one party's evidence set for a phase in a single
// transaction, so a re-submission never leaves a partial set behind.
func (r *bookingRepository) ReplacePhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase, partyID int64, photos []domain.VerificationPhoto) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`DELETE FROM booking_photos WHERE booking_id = $1 AND phase = $2 AND party_id = $3`,
		bookingID, phase, partyID); err != nil {
		return err
	}

	query := `INSERT INTO booking_photos (id, booking_id, phase, party_id, url, captured_at, latitude, longitude)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	for _, p := range photos {
		if _, err := tx.ExecContext(ctx, query,
			p.ID, bookingID, phase, partyID, p.URL, p.CapturedAt, p.Latitude, p.Longitude); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func (r *bookingRepository) GetPhotos(ctx context.Context, bookingID int64, phase domain.VerificationPhase) ([]domain.VerificationPhoto, error) {
	query := `SELECT id, booking_id, phase, party_id, url, captured_at, latitude, longitude
	          FROM booking_photos WHERE booking_id = $1 AND phase = $2
	          ORDER BY captured_at`
	rows, err := r.db.QueryContext(ctx, query, bookingID, phase)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var photos []domain.VerificationPhoto
	for rows.Next() {
		var p domain.VerificationPhoto
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Phase, &p.PartyID, &p.URL, &p.CapturedAt, &p.Latitude, &p.Longitude); err != nil {
			return nil, err
		}
		photos = append(photos, p)
	}
	return photos, rows.Err()
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBooking(row rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	err := row.Scan(
		&b.ID, &b.ListingID, &b.RenterID, &b.OwnerID, &b.StartDate, &b.EndDate,
		&b.Price.DailyRateCents, &b.Price.DurationDays, &b.Price.RentalFeeCents, &b.Price.ServiceFeeCents,
		&b.Price.InsuranceFeeCents, &b.Price.DepositCents, &b.Price.PointsApplied, &b.Price.CreditCents, &b.Price.TotalCents,
		&b.Status, &b.PaymentIntentRef, &b.TentativeHold, &b.HoldExpiresAt, &b.ApprovalDeadline,
		&b.PickupRenterConfirmedAt, &b.PickupOwnerConfirmedAt,
		&b.ReturnRenterConfirmedAt, &b.ReturnOwnerConfirmedAt,
		&b.CancelReason, &b.Notes, &b.CreatedOn, &b.UpdatedOn,
	)
	if err != nil {
		return nil, err
	}
	return b, nil
}
