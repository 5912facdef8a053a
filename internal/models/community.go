package models

import "time"

// CommunityKind classifies the audience of a community.
type CommunityKind string

const (
	// CommunityKindCompany is a community scoped to a single employer.
	CommunityKindCompany CommunityKind = "company"
	// CommunityKindPublicServant is a community for public-sector workers.
	CommunityKindPublicServant CommunityKind = "public_servant"
	// CommunityKindInterest is an open interest-based community.
	CommunityKindInterest CommunityKind = "interest"
)

// CommunityStatus defines the moderation state of a community.
type CommunityStatus string

const (
	// CommunityStatusActive indicates a community is visible and usable.
	CommunityStatusActive CommunityStatus = "active"
	// CommunityStatusPending indicates a community is awaiting approval.
	CommunityStatusPending CommunityStatus = "pending"
	// CommunityStatusRejected indicates a community request was declined.
	CommunityStatusRejected CommunityStatus = "rejected"
)

// Community represents a named posting namespace.
type Community struct {
	ID              uint            `gorm:"primaryKey" json:"id"`
	Name            string          `gorm:"size:120;not null" json:"name"`
	Slug            string          `gorm:"size:24;not null;uniqueIndex" json:"slug"`
	Description     string          `gorm:"type:text" json:"description"`
	Kind            CommunityKind   `gorm:"type:varchar(20);not null;default:'interest'" json:"kind"`
	CreatedByUserID *uint           `json:"created_by_user_id"`
	CreatedByUser   *User           `gorm:"foreignKey:CreatedByUserID" json:"created_by_user,omitempty"`
	Status          CommunityStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// TableName specifies the table name for GORM.
func (Community) TableName() string {
	return "communities"
}
