package repository

import (
	"context"

	"ojalocal/internal/domain/entity"
)

type NotificationRepository interface {
	Create(ctx context.Context, notification *entity.Notification) error
	ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error)
	MarkRead(ctx context.Context, id, userID string) error
}
