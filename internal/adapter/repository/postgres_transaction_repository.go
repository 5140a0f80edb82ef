package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"ojalocal/internal/domain/entity"
	"ojalocal/internal/domain/repository"
	apperrors "ojalocal/pkg/errors"
)

type postgresTransactionRepository struct {
	db *gorm.DB
}

func NewPostgresTransactionRepository(db *gorm.DB) repository.TransactionRepository {
	return &postgresTransactionRepository{
		db: db,
	}
}

func (r *postgresTransactionRepository) Create(ctx context.Context, transaction *entity.Transaction) error {
	if err := r.db.WithContext(ctx).Create(transaction).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return apperrors.InvalidState("A transaction already exists for this listing", err)
		}
		return apperrors.Internal("Failed to create transaction", err)
	}
	return nil
}

func (r *postgresTransactionRepository) GetByID(ctx context.Context, id string) (*entity.Transaction, error) {
	var transaction entity.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Transaction", err)
		}
		return nil, apperrors.Internal("Failed to get transaction", err)
	}
	return &transaction, nil
}

func (r *postgresTransactionRepository) GetByListingID(ctx context.Context, listingID string) (*entity.Transaction, error) {
	var transaction entity.Transaction
	if err := r.db.WithContext(ctx).First(&transaction, "listing_id = ?", listingID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("Transaction", err)
		}
		return nil, apperrors.Internal("Failed to get transaction", err)
	}
	return &transaction, nil
}

// UpdateWithLock serializes row mutations: SELECT ... FOR UPDATE blocks a
// concurrent confirm until this one commits, so both sides can never read
// the same pre-confirmation snapshot.
func (r *postgresTransactionRepository) UpdateWithLock(ctx context.Context, id string, fn func(*entity.Transaction) error) (*entity.Transaction, error) {
	var out entity.Transaction

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&out, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("Transaction", err)
			}
			return apperrors.Internal("Failed to load transaction", err)
		}

		if err := fn(&out); err != nil {
			return err
		}

		if err := tx.Save(&out).Error; err != nil {
			return apperrors.Internal("Failed to update transaction", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &out, nil
}

func (r *postgresTransactionRepository) ListByUser(ctx context.Context, userID string, status entity.TransactionStatus, limit, offset int) ([]*entity.Transaction, int64, error) {
	query := r.db.WithContext(ctx).
		Model(&entity.Transaction{}).
		Where("seller_id = ? OR buyer_id = ?", userID, userID)

	if status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Internal("Failed to count transactions", err)
	}

	var transactions []*entity.Transaction
	if err := query.Order("created_at DESC").Limit(limit).Offset(offset).Find(&transactions).Error; err != nil {
		return nil, 0, apperrors.Internal("Failed to list transactions", err)
	}

	return transactions, total, nil
}
