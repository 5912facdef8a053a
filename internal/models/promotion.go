package models

import "time"

// PromotionPlacement defines where a promotion may be rendered.
type PromotionPlacement string

const (
	// PlacementFeed interleaves the promotion into post feeds.
	PlacementFeed PromotionPlacement = "feed"
	// PlacementBanner renders the promotion as a standalone banner.
	PlacementBanner PromotionPlacement = "banner"
)

// Promotion is sponsored content interleaved into feeds. Interleaving is a
// presentation concern only: promotion positions are recomputed per rendered
// page and never persisted.
type Promotion struct {
	ID        uint               `gorm:"primaryKey" json:"id"`
	Title     string             `gorm:"size:200;not null" json:"title"`
	ImageURL  string             `json:"image_url"`
	TargetURL string             `gorm:"not null" json:"target_url"`
	Placement PromotionPlacement `gorm:"type:varchar(12);not null;default:'feed'" json:"placement"`
	IsActive  bool               `gorm:"not null;default:true" json:"is_active"`
	CreatedAt time.Time          `json:"created_at"`
	UpdatedAt time.Time          `json:"updated_at"`
}
