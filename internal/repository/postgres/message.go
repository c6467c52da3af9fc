package postgres

import (
	"context"
	"database/sql"
	"time"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type messageRepository struct {
	db *sql.DB
}

func NewMessageRepository(db *sql.DB) repository.MessageRepository {
	return &messageRepository{db: db}
}

func (r *messageRepository) Create(ctx context.Context, m *domain.Message) error {
	query := `INSERT INTO messages (booking_id, sender_id, body, is_read, created_on)
	          VALUES ($1, $2, $3, FALSE, $4) RETURNING id`
	m.CreatedOn = time.Now()
	return r.db.QueryRowContext(ctx, query, m.BookingID, m.SenderID, m.Body, m.CreatedOn).Scan(&m.ID)
}

func (r *messageRepository) ListByBooking(ctx context.Context, bookingID int64, page, pageSize int32) ([]domain.Message, int32, error) {
	offset := (page - 1) * pageSize

	var count int32
	if err := r.db.QueryRowContext(ctx, `SELECT count(*) FROM messages WHERE booking_id = $1`, bookingID).Scan(&count); err != nil {
		return nil, 0, err
	}

	query := `SELECT id, booking_id, sender_id, body, is_read, created_on
	          FROM messages WHERE booking_id = $1
	          ORDER BY created_on DESC LIMIT $2 OFFSET $3`
	rows, err := r.db.QueryContext(ctx, query, bookingID, pageSize, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var messages []domain.Message
	for rows.Next() {
		var m domain.Message
		if err := rows.Scan(&m.ID, &m.BookingID, &m.SenderID, &m.Body, &m.IsRead, &m.CreatedOn); err != nil {
			return nil, 0, err
		}
		messages = append(messages, m)
	}
	return messages, count, rows.Err()
}

func (r *messageRepository) MarkRead(ctx context.Context, bookingID, readerID int64) error {
	query := `UPDATE messages SET is_read = TRUE WHERE booking_id = $1 AND sender_id <> $2`
	_, err := r.db.ExecContext(ctx, query, bookingID, readerID)
	return err
}
