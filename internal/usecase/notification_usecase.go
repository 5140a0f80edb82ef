package usecase

import (
	"context"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	"ojalocal/pkg/logger"
)

type NotificationUseCase struct {
	notificationRepo repository.NotificationRepository
}

func NewNotificationUseCase(notificationRepo repository.NotificationRepository) *NotificationUseCase {
	return &NotificationUseCase{
		notificationRepo: notificationRepo,
	}
}

// Notify appends a notification row. Notifications are advisory and not
// part of any durability contract, so failures never reach the caller.
func (uc *NotificationUseCase) Notify(ctx context.Context, notification *entity.Notification) {
	if err := uc.notificationRepo.Create(ctx, notification); err != nil {
		logger.Error("Failed to create %s notification for user %s: %v", notification.Type, notification.UserID, err)
	}
}

func (uc *NotificationUseCase) List(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	return uc.notificationRepo.ListByUser(ctx, userID, limit, offset)
}

func (uc *NotificationUseCase) MarkRead(ctx context.Context, userID, notificationID string) error {
	return uc.notificationRepo.MarkRead(ctx, notificationID, userID)
}
