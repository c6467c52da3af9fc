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

type reviewRepository struct {
	db *sql.DB
}

func NewReviewRepository(db *sql.DB) repository.ReviewRepository {
	return &reviewRepository{db: db}
}

func (r *reviewRepository) Create(ctx context.Context, rv *domain.Review) error {
	// reviews has a unique index on (booking_id, type); a double submission is
	// a conflict, never an update.
	query := `INSERT INTO reviews (booking_id, listing_id, author_id, subject_id, type, rating, comment, created_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	rv.CreatedOn = time.Now()
	err := r.db.QueryRowContext(ctx, query,
		rv.BookingID, rv.ListingID, rv.AuthorID, rv.SubjectID, rv.Type, rv.Rating, rv.Comment, rv.CreatedOn,
	).Scan(&rv.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: review already submitted for this booking", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *reviewRepository) GetByBookingAndType(ctx context.Context, bookingID int64, reviewType domain.ReviewType) (*domain.Review, error) {
	query := `SELECT id, booking_id, listing_id, author_id, subject_id, type, rating, comment, created_on
	          FROM reviews WHERE booking_id = $1 AND type = $2`
	rv := &domain.Review{}
	err := r.db.QueryRowContext(ctx, query, bookingID, reviewType).Scan(
		&rv.ID, &rv.BookingID, &rv.ListingID, &rv.AuthorID, &rv.SubjectID, &rv.Type, &rv.Rating, &rv.Comment, &rv.CreatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: review", domain.ErrNotFound)
		}
		return nil, err
	}
	return rv, nil
}

func (r *reviewRepository) ListByListing(ctx context.Context, listingID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	return r.list(ctx, "listing_id", listingID, page, pageSize)
}

func (r *reviewRepository) ListBySubject(ctx context.Context, subjectID int64, page, pageSize int32) ([]domain.Review, int32, error) {
	return r.list(ctx, "subject_id", subjectID, page, pageSize)
}

func (r *reviewRepository) list(ctx context.Context, column string, id int64, page, pageSize int32) ([]domain.Review, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM reviews WHERE `+column+` = $1`, id).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, booking_id, listing_id, author_id, subject_id, type, rating, comment, created_on
	          FROM reviews WHERE ` + column + ` = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, id, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var rv domain.Review
		if err := rows.Scan(&rv.ID, &rv.BookingID, &rv.ListingID, &rv.AuthorID, &rv.SubjectID, &rv.Type, &rv.Rating, &rv.Comment, &rv.CreatedOn); err != nil {
			return nil, 0, err
		}
		reviews = append(reviews, rv)
	}
	return reviews, count, rows.Err()
}
