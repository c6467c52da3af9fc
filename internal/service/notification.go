package service

import (
	"context"
	"fmt"

	"rentloop-backend/internal/domain"
	"rentloop-backend/internal/repository"
)

type notificationService struct {
	notifRepo repository.NotificationRepository
}

func NewNotificationService(notifRepo repository.NotificationRepository) NotificationService {
	return &notificationService{notifRepo: notifRepo}
}

func (s *notificationService) GetNotifications(ctx context.Context, userID int64, page, pageSize int32) ([]domain.Notification, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	return s.notifRepo.List(ctx, userID, pageSize, (page-1)*pageSize)
}

func (s *notificationService) MarkAsRead(ctx context.Context, userID, notificationID int64) error {
	return s.notifRepo.MarkAsRead(ctx, notificationID, userID)
}

func (s *notificationService) SetPreference(ctx context.Context, pref *domain.NotificationPreference) error {
	if pref.Kind == "" {
		return fmt.Errorf("%w: notification kind is required", domain.ErrValidation)
	}
	return s.notifRepo.UpsertPreference(ctx, pref)
}

func (s *notificationService) RegisterDevice(ctx context.Context, userID int64, token, platform string) error {
	if token == "" {
		return fmt.Errorf("%w: device token is required", domain.ErrValidation)
	}
	switch platform {
	case "ios", "android", "web":
	default:
		return fmt.Errorf("%w: unknown platform %q", domain.ErrValidation, platform)
	}
	return s.notifRepo.AddDeviceToken(ctx, &domain.DeviceToken{
		UserID:   userID,
		Token:    token,
		Platform: platform,
	})
}

func (s *notificationService) UnregisterDevice(ctx context.Context, token string) error {
	return s.notifRepo.DeleteDeviceToken(ctx, token)
}
