package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ListingStatus string

const (
	ListingStatusActive  ListingStatus = "ACTIVE"
	ListingStatusSold    ListingStatus = "SOLD"
	ListingStatusDeleted ListingStatus = "DELETED"
)

// Listing is owned by the wider marketplace; the transaction core only
// reads it and cascades ACTIVE -> SOLD on completion.
type Listing struct {
	ID          string        `gorm:"type:uuid;primaryKey" json:"id"`
	OwnerID     string        `gorm:"type:varchar(64);index" json:"owner_id"`
	Title       string        `gorm:"type:varchar(120)" json:"title"`
	Description string        `gorm:"type:text" json:"description,omitempty"`
	Price       float64       `json:"price"`
	Status      ListingStatus `gorm:"type:varchar(20);default:'ACTIVE'" json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
