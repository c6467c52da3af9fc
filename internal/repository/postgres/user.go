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

type userRepository struct {
	db *sql.DB
}

func NewUserRepository(db *sql.DB) repository.UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, u *domain.User) error {
	query := `INSERT INTO users (email, password_hash, name, phone_number, avatar_url, points_balance, created_on, updated_on)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	now := time.Now()
	err := r.db.QueryRowContext(ctx, query,
		u.Email, u.PasswordHash, u.Name, u.PhoneNumber, u.AvatarURL, u.PointsBalance, now, now,
	).Scan(&u.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: email already registered", domain.ErrConflict)
		}
		return err
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	query := `SELECT id, email, password_hash, name, phone_number, avatar_url, points_balance,
	                 payment_customer_ref, payout_account_ref, created_on, updated_on
	          FROM users WHERE id = $1`
	return r.get(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	query := `SELECT id, email, password_hash, name, phone_number, avatar_url, points_balance,
	                 payment_customer_ref, payout_account_ref, created_on, updated_on
	          FROM users WHERE email = $1`
	return r.get(ctx, query, email)
}

func (r *userRepository) get(ctx context.Context, query string, arg interface{}) (*domain.User, error) {
	u := &domain.User{}
	err := r.db.QueryRowContext(ctx, query, arg).Scan(
		&u.ID, &u.Email, &u.PasswordHash, &u.Name, &u.PhoneNumber, &u.AvatarURL, &u.PointsBalance,
		&u.PaymentCustomerRef, &u.PayoutAccountRef, &u.CreatedOn, &u.UpdatedOn,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: user", domain.ErrNotFound)
		}
		return nil, err
	}
	return u, nil
}

func (r *userRepository) Update(ctx context.Context, u *domain.User) error {
	query := `UPDATE users SET name = $1, phone_number = $2, avatar_url = $3, updated_on = $4 WHERE id = $5`
	_, err := r.db.ExecContext(ctx, query, u.Name, u.PhoneNumber, u.AvatarURL, time.Now(), u.ID)
	return err
}

func (r *userRepository) AdjustPoints(ctx context.Context, userID int64, delta int64) error {
	// The CHECK-style guard in the WHERE clause keeps the balance from going
	// negative even under concurrent adjustments.
	query := `UPDATE users SET points_balance = points_balance + $1, updated_on = NOW()
	          WHERE id = $2 AND points_balance + $1 >= 0`
	res, err := r.db.ExecContext(ctx, query, delta, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("%w: insufficient points balance", domain.ErrConflict)
	}
	return nil
}

func (r *userRepository) SetPaymentCustomerRef(ctx context.Context, userID int64, ref string) error {
	query := `UPDATE users SET payment_customer_ref = $1, updated_on = NOW() WHERE id = $2`
	_, err := r.db.ExecContext(ctx, query, ref, userID)
	return err
}
