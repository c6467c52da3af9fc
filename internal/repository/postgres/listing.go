package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/lib/pq"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type listingRepository struct {
	db *sql.DB
}

func NewListingRepository(db *sql.DB) repository.ListingRepository {
	return &listingRepository{db: db}
}

func (r *listingRepository) Create(ctx context.Context, l *domain.Listing) error {
	query := `INSERT INTO listings (owner_id, title, description, category, daily_rate_cents,
	            deposit_cents, photo_urls, location, active, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11) RETURNING id`
	now := time.Now()
	return r.db.QueryRowContext(ctx, query,
		l.OwnerID, l.Title, l.Description, l.Category, l.DailyRateCents,
		l.DepositCents, pq.Array(l.PhotoURLs), l.Location, l.Active, now, now,
	).Scan(&l.ID)
}

func (r *listingRepository) GetByID(ctx context.Context, id int64) (*domain.Listing, error) {
	query := `SELECT id, owner_id, title, description, category, daily_rate_cents,
	                 deposit_cents, photo_urls, location, active, created_on, updated_on
	          FROM listings WHERE id = $1`
	l := &domain.Listing{}
	var photos pq.StringArray
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category, &l.DailyRateCents,
		&l.DepositCents, &photos, &l.Location, &l.Active, &l.CreatedOn, &l.UpdatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: listing %d", domain.ErrNotFound, id)
		}
		return nil, err
	}
	l.PhotoURLs = photos
	return l, nil
}

func (r *listingRepository) Update(ctx context.Context, l *domain.Listing) error {
	query := `UPDATE listings SET title = $1, description = $2, category = $3, daily_rate_cents = $4,
	            deposit_cents = $5, photo_urls = $6, location = $7, active = $8, updated_on = $9
	          WHERE id = $10`
	_, err := r.db.ExecContext(ctx, query,
		l.Title, l.Description, l.Category, l.DailyRateCents,
		l.DepositCents, pq.Array(l.PhotoURLs), l.Location, l.Active, time.Now(), l.ID)
	return err
}

func (r *listingRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `UPDATE listings SET active = FALSE, updated_on = NOW() WHERE id = $1`, id)
	return err
}

func (r *listingRepository) List(ctx context.Context, f repository.ListingFilter, page, pageSize int32) ([]domain.Listing, int32, error) {
	offset := (page - 1) * pageSize
	base := `SELECT id, owner_id, title, description, category, daily_rate_cents,
	                deposit_cents, photo_urls, location, active, created_on, updated_on
	         FROM listings WHERE 1=1`

	var args []interface{}
	argIdx := 1
	add := func(clause string, val interface{}) {
		base += fmt.Sprintf(" AND "+clause, argIdx)
		args = append(args, val)
		argIdx++
	}

	if f.ActiveOnly {
		base += " AND active = TRUE"
	}
	if f.OwnerID != 0 {
		add("owner_id = $%d", f.OwnerID)
	}
	if f.Category != "" {
		add("category = $%d", f.Category)
	}
	if f.Query != "" {
		base += fmt.Sprintf(" AND (title ILIKE '%%' || $%d || '%%' OR description ILIKE '%%' || $%d || '%%')", argIdx, argIdx)
		args = append(args, f.Query)
		argIdx++
	}
	if f.MinRateCents > 0 {
		add("daily_rate_cents >= $%d", f.MinRateCents)
	}
	if f.MaxRateCents > 0 {
		add("daily_rate_cents <= $%d", f.MaxRateCents)
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

	var listings []domain.Listing
	for rows.Next() {
		var l domain.Listing
		var photos pq.StringArray
		if err := rows.Scan(&l.ID, &l.OwnerID, &l.Title, &l.Description, &l.Category, &l.DailyRateCents,
			&l.DepositCents, &photos, &l.Location, &l.Active, &l.CreatedOn, &l.UpdatedOn); err != nil {
			return nil, 0, err
		}
		l.PhotoURLs = photos
		listings = append(listings, l)
	}
	return listings, count, rows.Err()
}
