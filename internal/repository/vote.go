package repository

import (
	"context"
	"errors"

	"bulag/internal/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// VoteRepository defines persistence operations for votes.
type VoteRepository interface {
	Get(ctx context.Context, userID uint, targetType models.VoteTarget, targetID uint) (*models.Vote, error)
	Set(ctx context.Context, vote *models.Vote) error
	RecomputeVoteCount(ctx context.Context, targetType models.VoteTarget, targetID uint) (int, error)
}

type voteRepository struct {
	db *gorm.DB
}

// NewVoteRepository returns a new VoteRepository implementation.
func NewVoteRepository(db *gorm.DB) VoteRepository {
	return &voteRepository{db: db}
}

// Get returns the user's vote row for the target, or nil if none exists.
func (r *voteRepository) Get(ctx context.Context, userID uint, targetType models.VoteTarget, targetID uint) (*models.Vote, error) {
	var vote models.Vote
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND target_type = ? AND target_id = ?", userID, targetType, targetID).
		First(&vote).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, models.NewInternalError(err)
	}
	return &vote, nil
}

// Set upserts the vote row. The (user_id, target_type, target_id) unique
// index makes concurrent casts converge on a single row; retracted votes are
// kept with value zero rather than deleted.
func (r *voteRepository) Set(ctx context.Context, vote *models.Vote) error {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "target_type"}, {Name: "target_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(vote).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

// RecomputeVoteCount rewrites the target's vote_count from the sum of its
// vote rows and returns the new total. Summing instead of incrementing keeps
// the count correct under concurrent toggles.
func (r *voteRepository) RecomputeVoteCount(ctx context.Context, targetType models.VoteTarget, targetID uint) (int, error) {
	table := "posts"
	if targetType == models.VoteTargetComment {
		table = "comments"
	}

	err := r.db.WithContext(ctx).Exec(
		"UPDATE "+table+" SET vote_count = (SELECT COALESCE(SUM(value), 0) FROM votes WHERE votes.target_type = ? AND votes.target_id = ?) WHERE id = ?",
		targetType, targetID, targetID,
	).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}

	var count int
	err = r.db.WithContext(ctx).Table(table).
		Select("vote_count").
		Where("id = ?", targetID).
		Scan(&count).Error
	if err != nil {
		return 0, models.NewInternalError(err)
	}
	return count, nil
}
