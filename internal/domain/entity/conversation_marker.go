package entity

import "time"

// ConversationMarker is the relational shadow of a document-store
// conversation, written once when its first message lands. Aggregate
// listing statistics count these rows instead of scanning the document
// store.
type ConversationMarker struct {
	ConversationID string    `gorm:"type:varchar(180);primaryKey" json:"conversation_id"`
	ListingID      string    `gorm:"type:uuid;index" json:"listing_id"`
	UserA          string    `gorm:"type:varchar(64)" json:"user_a"`
	UserB          string    `gorm:"type:varchar(64)" json:"user_b"`
	CreatedAt      time.Time `json:"created_at"`
}
