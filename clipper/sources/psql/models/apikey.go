package models

import "time"

// APIKey stores only the SHA-256 of the issued key; the raw key is shown
// to the user once at creation.
type APIKey struct {
	ID        int       `json:"id" gorm:"primaryKey;autoIncrement"`
	UserID    int       `json:"user_id" gorm:"index;not null"`
	KeyHash   string    `json:"-" gorm:"type:varchar(64);uniqueIndex;not null"`
	Label     string    `json:"label,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`
}
