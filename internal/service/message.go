package service

import (
	"context"
	"fmt"
	"strings"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type messageService struct {
	messageRepo repository.MessageRepository
	bookingRepo repository.BookingRepository
	dispatcher  NotificationDispatcher
}

func NewMessageService(messageRepo repository.MessageRepository, bookingRepo repository.BookingRepository, dispatcher NotificationDispatcher) MessageService {
	return &messageService{messageRepo: messageRepo, bookingRepo: bookingRepo, dispatcher: dispatcher}
}

func (s *messageService) SendMessage(ctx context.Context, senderID, bookingID int64, body string) (*domain.Message, error) {
	body = strings.TrimSpace(body)
	if body == "" {
		return nil, fmt.Errorf("%w: message body is empty", domain.ErrValidation)
	}

	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if !booking.IsParty(senderID) {
		return nil, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}

	msg := &domain.Message{
		BookingID: bookingID,
		SenderID:  senderID,
		Body:      body,
	}
	if err := s.messageRepo.Create(ctx, msg); err != nil {
		return nil, err
	}

	recipient := booking.OwnerID
	if senderID == booking.OwnerID {
		recipient = booking.RenterID
	}
	s.dispatcher.Dispatch(ctx, recipient, domain.NotificationNewMessage, map[string]string{
		"booking_id": fmt.Sprintf("%d", bookingID),
		"preview":    preview(body),
	})
	return msg, nil
}

// ListMessages returns the thread and marks the other party's messages read.
func (s *messageService) ListMessages(ctx context.Context, userID, bookingID int64, page, pageSize int32) ([]domain.Message, int32, error) {
	booking, err := s.bookingRepo.GetByID(ctx, bookingID)
	if err != nil {
		return nil, 0, err
	}
	if !booking.IsParty(userID) {
		return nil, 0, fmt.Errorf("%w: not a party of this booking", domain.ErrForbidden)
	}

	msgs, total, err := s.messageRepo.ListByBooking(ctx, bookingID, page, pageSize)
	if err != nil {
		return nil, 0, err
	}
	_ = s.messageRepo.MarkRead(ctx, bookingID, userID)
	return msgs, total, nil
}

func preview(body string) string {
	const max = 80
	if len(body) <= max {
		return body
	}
	return body[:max] + "…"
}
