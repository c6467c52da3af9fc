package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	attrs, err := json.Marshal(n.Attributes)
	if err != nil {
		return err
	}
	query := `INSERT INTO notifications (user_id, kind, title, message, is_read, attributes, created_on)
	          VALUES ($1, $2, $3, $4, FALSE, $5, $6) RETURNING id`
	n.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, n.UserID, n.Kind, n.Title, n.Message, attrs, n.CreatedOn).Scan(&n.ID)
}

func (r *notificationRepository) List(ctx context.Context, userID int64, limit, offset int32) ([]domain.Notification, int32, error) {
	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM notifications WHERE user_id = $1`, userID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, user_id, kind, title, message, is_read, attributes, created_on
	          FROM notifications WHERE user_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, userID, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var notes []domain.Notification
	for rows.Next() {
		var n domain.Notification
		var attrs []byte
		if err := rows.Scan(&n.ID, &n.UserID, &n.Kind, &n.Title, &n.Message, &n.IsRead, &attrs, &n.CreatedOn); err != nil {
			return nil, 0, err
		}
		if len(attrs) > 0 {
			if err := json.Unmarshal(attrs, &n.Attributes); err != nil {
				return nil, 0, err
			}
		}
		notes = append(notes, n)
	}
	return notes, count, rows.Err()
}

func (r *notificationRepository) MarkAsRead(ctx context.Context, id, userID int64) error {
	query := `UPDATE notifications SET is_read = TRUE WHERE id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *notificationRepository) GetPreference(ctx context.Context, userID int64, kind domain.NotificationKind) (*domain.NotificationPreference, error) {
	query := `SELECT user_id, kind, email_enabled, push_enabled
	          FROM notification_preferences WHERE user_id = $1 AND kind = $2`
	p := &domain.NotificationPreference{}
	err := r.db.QueryRowContext(ctx, query, userID, kind).Scan(&p.UserID, &p.Kind, &p.EmailEnabled, &p.PushEnabled)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

func (r *notificationRepository) UpsertPreference(ctx context.Context, p *domain.NotificationPreference) error {
	query := `INSERT INTO notification_preferences (user_id, kind, email_enabled, push_enabled)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (user_id, kind)
	          DO UPDATE SET email_enabled = EXCLUDED.email_enabled, push_enabled = EXCLUDED.push_enabled`
	_, err := r.db.ExecContext(ctx, query, p.UserID, p.Kind, p.EmailEnabled, p.PushEnabled)
	return err
}

func (r *notificationRepository) AddDeviceToken(ctx context.Context, t *domain.DeviceToken) error {
	query := `INSERT INTO device_tokens (user_id, token, platform, created_on)
	          VALUES ($1, $2, $3, $4)
	          ON CONFLICT (token) DO UPDATE SET user_id = EXCLUDED.user_id, platform = EXCLUDED.platform
	          RETURNING id`
	t.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, t.UserID, t.Token, t.Platform, t.CreatedOn).Scan(&t.ID)
}

func (r *notificationRepository) ListDeviceTokens(ctx context.Context, userID int64) ([]domain.DeviceToken, error) {
	query := `SELECT id, user_id, token, platform, created_on FROM device_tokens WHERE user_id = $1`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tokens []domain.DeviceToken
	for rows.Next() {
		var t domain.DeviceToken
		if err := rows.Scan(&t.ID, &t.UserID, &t.Token, &t.Platform, &t.CreatedOn); err != nil {
			return nil, err
		}
		tokens = append(tokens, t)
	}
	return tokens, rows.Err()
}

func (r *notificationRepository) DeleteDeviceToken(ctx context.Context, token string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM device_tokens WHERE token = $1`, token)
	return err
}
