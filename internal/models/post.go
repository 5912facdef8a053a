package models

import (
	"time"
)

// PostStatus defines the visibility state of a post. Deletion is a status
// transition, never row removal; only the admin purge path removes rows.
type PostStatus string

const (
	// PostStatusActive indicates a post is visible.
	PostStatusActive PostStatus = "active"
	// PostStatusHidden indicates a post was hidden by moderation.
	PostStatusHidden PostStatus = "hidden"
	// PostStatusDeleted indicates a post was soft-deleted.
	PostStatusDeleted PostStatus = "deleted"
)

// Post represents a post in the Bulag application.
type Post struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Title       string     `gorm:"size:300;not null" json:"title"`
	Content     string     `gorm:"type:text;not null" json:"content"`
	UserID      uint       `gorm:"not null;index" json:"user_id"`
	User        User       `gorm:"foreignKey:UserID" json:"user"`
	CommunityID uint       `gorm:"not null;index" json:"community_id"`
	Community   *Community `gorm:"foreignKey:CommunityID" json:"community,omitempty"`
	IsAnonymous bool       `gorm:"not null;default:false" json:"is_anonymous"`
	Status      PostStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	IsPinned    bool       `gorm:"not null;default:false" json:"is_pinned"`
	ViewCount   int        `gorm:"not null;default:0" json:"view_count"`
	// VoteCount is the sum of active vote values; recomputed on every vote.
	VoteCount int `gorm:"not null;default:0" json:"vote_count"`
	// CommentsCount is not persisted; computed at query time
	CommentsCount int `gorm:"->" json:"comments_count"`
	// MyVote is the requesting user's active vote on this post (computed)
	MyVote    int               `gorm:"->" json:"my_vote"`
	Tags      []Tag             `gorm:"many2many:post_tags" json:"tags,omitempty"`
	Media     []MediaAttachment `gorm:"foreignKey:PostID" json:"media,omitempty"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}
