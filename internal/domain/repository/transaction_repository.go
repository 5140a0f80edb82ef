package repository

import (
	"context"

	"ojalocal/internal/domain/entity"
)

type TransactionRepository interface {
	// Create inserts the row; a second transaction for the same listing
	// fails with an INVALID_STATE error via the unique index.
	Create(ctx context.Context, transaction *entity.Transaction) error

	GetByID(ctx context.Context, id string) (*entity.Transaction, error)
	GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error)

	// UpdateWithLock loads the row under an exclusive lock, applies fn
	// and saves the result in one database transaction. Concurrent
	// confirmations therefore serialize on the row.
	UpdateWithLock(ctx context.Context, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error)

	ListByUser(ctx context.Context, userID string, status entity.TransactionStatus, limit, offset int) ([]*entity.Transaction, int64, error)
}
