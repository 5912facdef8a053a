// Package models contains data structures for the application's domain models.
package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines the privilege level of a user account.
type UserRole string

const (
	// RoleMember is a regular authenticated user.
	RoleMember UserRole = "member"
	// RoleModerator can hide/unhide content and pin posts.
	RoleModerator UserRole = "moderator"
	// RoleAdmin can additionally purge content and suspend users.
	RoleAdmin UserRole = "admin"
)

// User represents a registered account in the Bulag application.
type User struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Nickname    string         `gorm:"size:40;not null;uniqueIndex" json:"nickname"`
	Email       string         `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Password    string         `gorm:"not null" json:"-"`
	CompanyName string         `gorm:"size:120" json:"company_name,omitempty"`
	Role        UserRole       `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	IsSuspended bool           `gorm:"not null;default:false" json:"is_suspended"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

// IsModerator reports whether the user holds moderator or admin privileges.
func (u *User) IsModerator() bool {
	return u.Role == RoleModerator || u.Role == RoleAdmin
}

// IsAdmin reports whether the user holds admin privileges.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
