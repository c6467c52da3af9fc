package service

import (
	"context"
	"fmt"

	firebase "firebase.google.com/go/v4"
	"firebase.google.com/go/v4/messaging"
	"google.golang.org/api/option"

	"rentloop-backend/internal/logger"
	"rentloop-backend/internal/repository"
)

// fcmSender delivers push messages through Firebase Cloud Messaging. Tokens
// FCM reports as unregistered are removed so the next send does not retry a
// dead device.
type fcmSender struct {
	client   *messaging.Client
	noteRepo repository.NotificationRepository
}

func NewFCMSender(ctx context.Context, credentialsFile string, noteRepo repository.NotificationRepository) (PushSender, error) {
	app, err := firebase.NewApp(ctx, nil, option.WithCredentialsFile(credentialsFile))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize firebase app: %w", err)
	}
	client, err := app.Messaging(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize FCM client: %w", err)
	}
	return &fcmSender{client: client, noteRepo: noteRepo}, nil
}

func (s *fcmSender) SendToUser(ctx context.Context, userID int64, title, body string, data map[string]string) error {
	tokens, err := s.noteRepo.ListDeviceTokens(ctx, userID)
	if err != nil {
		return fmt.Errorf("failed to load device tokens: %w", err)
	}
	if len(tokens) == 0 {
		return nil
	}

	var lastErr error
	for _, t := range tokens {
		msg := &messaging.Message{
			Token: t.Token,
			Notification: &messaging.Notification{
				Title: title,
				Body:  body,
			},
			Data: data,
		}
		logger.ExternalServiceCall("fcm", "Send", "user_id", userID, "platform", t.Platform)
		_, err := s.client.Send(ctx, msg)
		logger.ExternalServiceResult("fcm", "Send", err)
		if err != nil {
			if messaging.IsRegistrationTokenNotRegistered(err) {
				// Dead token, drop it instead of failing the send.
				if delErr := s.noteRepo.DeleteDeviceToken(ctx, t.Token); delErr != nil {
					logger.Warn("Failed to delete stale device token", "error", delErr)
				}
				continue
			}
			lastErr = err
		}
	}
	return lastErr
}
