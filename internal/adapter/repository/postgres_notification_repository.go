package repository

import (
	"context"

	"gorm.io/gorm"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	apperrors "ojalocal/pkg/errors"
)

type postgresNotificationRepository struct {
	db *gorm.DB
}

func NewPostgresNotificationRepository(db *gorm.DB) repository.NotificationRepository {
	return &postgresNotificationRepository{
		db: db,
	}
}

func (r *postgresNotificationRepository) Create(ctx context.Context, notification *entity.Notification) error {
	if err := r.db.WithContext(ctx).Create(notification).Error; err != nil {
		return apperrors.Internal("Failed to create notification", err)
	}
	return nil
}

func (r *postgresNotificationRepository) ListByUser(ctx context.Context, userID string, limit, offset int) ([]*entity.Notification, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("user_id = ?", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("Failed to count notifications", err)
	}

	var notifications []*entity.Notification
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&notifications).Error; err != nil {
		return nil, 0, apperrors.Internal("Failed to list notifications", err)
	}

	return notifications, total, nil
}

func (r *postgresNotificationRepository) MarkRead(ctx context.Context, id, userID string) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Notification{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("is_read", true)

	if result.Error != nil {
		return apperrors.Internal("Failed to mark notification as read", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Notification", gorm.ErrRecordNotFound)
	}
	return nil
}
