package models

import "time"

// MediaKind classifies a post attachment.
type MediaKind string

const (
	// MediaKindImage is an uploaded image served from media storage.
	MediaKindImage MediaKind = "image"
	// MediaKindVideoLink is an external video URL (not hosted here).
	MediaKindVideoLink MediaKind = "video_link"
)

// MediaAttachment is one entry in a post's ordered media list.
type MediaAttachment struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	PostID   uint      `gorm:"not null;index" json:"post_id"`
	Position int       `gorm:"not null" json:"position"`
	Kind     MediaKind `gorm:"type:varchar(12);not null" json:"kind"`
	URL      string    `gorm:"not null" json:"url"`
	// ImageHash links an image attachment to its stored variants.
	ImageHash string `gorm:"size:64;index" json:"image_hash,omitempty"`
	// Variants maps "{size}_{format}" to a serving path (computed)
	Variants  map[string]string `gorm:"-" json:"variants,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
}

// Image is a stored uploaded image, addressed by content hash.
type Image struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Hash      string         `gorm:"size:64;not null;uniqueIndex" json:"hash"`
	Width     int            `gorm:"not null" json:"width"`
	Height    int            `gorm:"not null" json:"height"`
	Variants  []ImageVariant `gorm:"foreignKey:ImageID" json:"variants,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// ImageVariant is one resized rendition of a stored image.
type ImageVariant struct {
	ID      uint   `gorm:"primaryKey" json:"id"`
	ImageID uint   `gorm:"not null;uniqueIndex:idx_image_variant" json:"image_id"`
	SizePx  int    `gorm:"not null;uniqueIndex:idx_image_variant" json:"size_px"`
	Format  string `gorm:"size:8;not null;uniqueIndex:idx_image_variant" json:"format"`
}
