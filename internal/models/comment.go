package models

import (
	"time"
)

// CommentStatus defines the visibility state of a comment.
type CommentStatus string

const (
	// CommentStatusActive indicates a comment is visible.
	CommentStatusActive CommentStatus = "active"
	// CommentStatusHidden indicates a comment was hidden by moderation.
	CommentStatusHidden CommentStatus = "hidden"
	// CommentStatusDeleted indicates a comment was soft-deleted. Deleted
	// comments keep their place in the thread and render as placeholders.
	CommentStatusDeleted CommentStatus = "deleted"
)

// MaxCommentDepth is the maximum nesting depth: top-level plus one reply level.
const MaxCommentDepth = 2

// Comment represents a comment on a post. ParentID is nil for top-level
// comments; a non-nil ParentID must reference a top-level comment on the
// same post.
type Comment struct {
	ID          uint          `gorm:"primaryKey" json:"id"`
	Content     string        `gorm:"type:text;not null" json:"content"`
	UserID      uint          `gorm:"not null;index" json:"user_id"`
	PostID      uint          `gorm:"not null;index" json:"post_id"`
	ParentID    *uint         `gorm:"index" json:"parent_id,omitempty"`
	User        User          `gorm:"foreignKey:UserID" json:"user"`
	IsAnonymous bool          `gorm:"not null;default:false" json:"is_anonymous"`
	Status      CommentStatus `gorm:"type:varchar(20);not null;default:'active';index" json:"status"`
	// VoteCount is the sum of active vote values; recomputed on every vote.
	VoteCount int `gorm:"not null;default:0" json:"vote_count"`
	// ReplyCount is not persisted; computed at query time
	ReplyCount int `gorm:"->" json:"reply_count"`
	// MyVote is the requesting user's active vote on this comment (computed)
	MyVote    int       `gorm:"->" json:"my_vote"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
