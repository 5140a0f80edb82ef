package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	TransactionStatusPending         TransactionStatus = "PENDING"
	TransactionStatusSellerConfirmed TransactionStatus = "SELLER_CONFIRMED"
	TransactionStatusBuyerConfirmed  TransactionStatus = "BUYER_CONFIRMED"
	TransactionStatusCompleted       TransactionStatus = "COMPLETED"
	TransactionStatusCancelled       TransactionStatus = "CANCELLED"
)

func (s TransactionStatus) Valid() bool {
	switch s {
	case TransactionStatusPending, TransactionStatusSellerConfirmed,
		TransactionStatusBuyerConfirmed, TransactionStatusCompleted,
		TransactionStatusCancelled:
		return true
	}
	return false
}

// Transaction is the agreed-price negotiation between a listing's seller
// and one buyer. The unique index on ListingID enforces at most one
// negotiation per listing.
type Transaction struct {
	ID              string            `gorm:"type:uuid;primaryKey" json:"id"`
	ListingID       string            `gorm:"type:uuid;uniqueIndex" json:"listing_id"`
	ConversationID  string            `gorm:"type:varchar(180);index" json:"conversation_id"`
	SellerID        string            `gorm:"type:varchar(64);index" json:"seller_id"`
	BuyerID         string            `gorm:"type:varchar(64);index" json:"buyer_id"`
	AgreedPrice     float64           `json:"agreed_price"`
	Status          TransactionStatus `gorm:"type:varchar(20);default:'PENDING'" json:"status"`
	SellerConfirmed bool              `gorm:"default:false" json:"seller_confirmed"`
	BuyerConfirmed  bool              `gorm:"default:false" json:"buyer_confirmed"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty"`
}

func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

func (t *Transaction) IsParty(userID string) bool {
	return t.SellerID == userID || t.BuyerID == userID
}

func (t *Transaction) IsTerminal() bool {
	return t.Status == TransactionStatusCompleted || t.Status == TransactionStatusCancelled
}

func (t *Transaction) ConfirmedBy(userID string) bool {
	if t.SellerID == userID {
		return t.SellerConfirmed
	}
	if t.BuyerID == userID {
		return t.BuyerConfirmed
	}
	return false
}
