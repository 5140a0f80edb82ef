package entity

import "time"

// User mirrors the externally managed identity record. The id is the
// auth provider uid; this service only reads profiles.
type User struct {
	ID        string    `gorm:"type:varchar(64);primaryKey" json:"id"`
	Username  string    `gorm:"type:varchar(60);uniqueIndex" json:"username"`
	Email     string    `gorm:"type:varchar(120);uniqueIndex" json:"email"`
	AvatarURL string    `gorm:"type:text" json:"avatar_url,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
