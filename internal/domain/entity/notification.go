package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	NotificationTypeTransactionRequest   = "TRANSACTION_REQUEST"
	NotificationTypeTransactionConfirmed = "TRANSACTION_CONFIRMED"
	NotificationTypeTransactionCompleted = "TRANSACTION_COMPLETED"
	NotificationTypeTransactionCancelled = "TRANSACTION_CANCELLED"
)

// Notification is a durable, advisory record. Writes are best-effort:
// a failed insert never fails the operation that triggered it.
type Notification struct {
	ID         string         `gorm:"type:uuid;primaryKey" json:"id"`
	Type       string         `gorm:"type:varchar(40);index" json:"type"`
	Title      string         `gorm:"type:varchar(120)" json:"title"`
	Message    string         `gorm:"type:text" json:"message"`
	UserID     string         `gorm:"type:varchar(64);index" json:"user_id"`
	ListingID  string         `gorm:"type:uuid;index" json:"listing_id"`
	FromUserID string         `gorm:"type:varchar(64)" json:"from_user_id"`
	Data       datatypes.JSON `json:"data,omitempty"`
	IsRead     bool           `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time      `json:"created_at"`
}

func (n *Notification) BeforeCreate(tx *gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
