package models

import "time"

// VoteTarget identifies the kind of content a vote applies to.
type VoteTarget string

const (
	// VoteTargetPost marks a vote cast on a post.
	VoteTargetPost VoteTarget = "post"
	// VoteTargetComment marks a vote cast on a comment.
	VoteTargetComment VoteTarget = "comment"
)

// Vote values. Zero means the vote was retracted; the row is kept so the
// (user, target) uniqueness invariant stays enforceable in the database.
const (
	VoteUp   = 1
	VoteNone = 0
	VoteDown = -1
)

// Vote records a single user's tri-state vote on a post or comment.
// The combination of UserID, TargetType and TargetID must be unique.
type Vote struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	UserID     uint       `gorm:"not null;uniqueIndex:idx_user_target" json:"user_id"`
	TargetType VoteTarget `gorm:"type:varchar(10);not null;uniqueIndex:idx_user_target" json:"target_type"`
	TargetID   uint       `gorm:"not null;uniqueIndex:idx_user_target" json:"target_id"`
	Value      int        `gorm:"not null" json:"value"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

// IsValidVoteValue reports whether v is a value a client may request.
// Zero is derived server-side by the toggle rule and never accepted directly.
func IsValidVoteValue(v int) bool {
	return v == VoteUp || v == VoteDown
}
