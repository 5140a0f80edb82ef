package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	apperrors "ojalocal/pkg/errors"
)

type postgresConversationMarkerRepository struct {
	db *gorm.DB
}

func NewPostgresConversationMarkerRepository(db *gorm.DB) repository.ConversationMarkerRepository {
	return &postgresConversationMarkerRepository{
		db: db,
	}
}

func (r *postgresConversationMarkerRepository) Create(ctx context.Context, marker *entity.ConversationMarker) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(marker).Error
	if err != nil {
		return apperrors.Internal("Failed to create conversation marker", err)
	}
	return nil
}
