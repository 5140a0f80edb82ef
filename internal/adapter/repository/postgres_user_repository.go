package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	apperrors "ojalocal/pkg/errors"
)

type postgresUserRepository struct {
	db *gorm.DB
}

func NewPostgresUserRepository(db *gorm.DB) repository.UserRepository {
	return &postgresUserRepository{
		db: db,
	}
}

func (r *postgresUserRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	var user entity.User
	if err := r.db.WithContext(ctx).First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("User", err)
		}
		return nil, apperrors.Internal("Failed to get user", err)
	}
	return &user, nil
}
