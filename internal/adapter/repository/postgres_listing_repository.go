package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	apperrors "ojalocal/pkg/errors"
)

type postgresListingRepository struct {
	db *gorm.DB
}

func NewPostgresListingRepository(db *gorm.DB) repository.ListingRepository {
	return &postgresListingRepository{
		db: db,
	}
}

func (r *postgresListingRepository) GetByID(ctx context.Context, id string) (*entity.Listing, error) {
	var listing entity.Listing
	if err := r.db.WithContext(ctx).First(&listing, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Listing", err)
		}
		return nil, apperrors.Internal("Failed to get listing", err)
	}
	return &listing, nil
}

func (r *postgresListingRepository) UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error {
	result := r.db.WithContext(ctx).
		Model(&entity.Listing{}).
		Where("id = ?", id).
		Update("status", status)

	if result.Error != nil {
		return apperrors.Internal("Failed to update listing status", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("Listing", nil)
	}
	return nil
}
