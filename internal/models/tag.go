package models

import "time"

// Tag is a free-form label attached to posts.
type Tag struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"size:40;not null;uniqueIndex" json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
