package repository

import (
	"context"

	"ojalocal/internal/domain/entity"
)

type ListingRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Listing, error)
	UpdateStatus(ctx context.Context, id string, status entity.ListingStatus) error
}
