package service

import (
	"context"
	"strconv"

	"bulag/internal/middleware"
	"bulag/internal/models"
	"bulag/internal/repository"
)

// VoteService implements the tri-state voting rules.
type VoteService struct {
	voteRepo    repository.VoteRepository
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	events      EventPublisher
}

// NewVoteService returns a new VoteService.
func NewVoteService(
	voteRepo repository.VoteRepository,
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *VoteService {
	return &VoteService{
		voteRepo:    voteRepo,
		postRepo:    postRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// CastVoteInput is a vote request. Value is the client's intent (+1 or -1);
// the stored result comes out of the toggle rule.
type CastVoteInput struct {
	UserID     uint
	TargetType models.VoteTarget
	TargetID   uint
	Value      int
}

// VoteResult reports the vote state after a cast.
type VoteResult struct {
	TargetType models.VoteTarget `json:"target_type"`
	TargetID   uint              `json:"target_id"`
	MyVote     int               `json:"my_vote"`
	VoteCount  int               `json:"vote_count"`
}

// CastVote applies the toggle rule: casting the value already held retracts
// it to zero, casting the opposite flips it, and casting with no prior vote
// records it. The target's vote count is then recomputed from all rows.
// Voting on deleted content is a not-found error.
func (s *VoteService) CastVote(ctx context.Context, in CastVoteInput) (*VoteResult, error) {
	if !models.IsValidVoteValue(in.Value) {
		return nil, models.NewValidationError("Vote value must be 1 or -1")
	}
	if in.TargetType != models.VoteTargetPost && in.TargetType != models.VoteTargetComment {
		return nil, models.NewValidationError("Invalid vote target type")
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionVote, 0); err != nil {
		return nil, err
	}

	if err := s.ensureVotable(ctx, in.TargetType, in.TargetID); err != nil {
		return nil, err
	}

	existing, err := s.voteRepo.Get(ctx, in.UserID, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}

	effective := in.Value
	if existing != nil {
		switch existing.Value {
		case in.Value:
			effective = models.VoteNone
		default:
			effective = in.Value
		}
	}

	if err := s.voteRepo.Set(ctx, &models.Vote{
		UserID:     in.UserID,
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		Value:      effective,
	}); err != nil {
		return nil, err
	}

	count, err := s.voteRepo.RecomputeVoteCount(ctx, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}

	middleware.VotesCast.WithLabelValues(string(in.TargetType), strconv.Itoa(effective)).Inc()

	result := &VoteResult{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		MyVote:     effective,
		VoteCount:  count,
	}
	publish(ctx, s.events, EventVoteChanged, result)
	return result, nil
}

// ensureVotable verifies the target exists and is not deleted. Hidden content
// still accepts votes; it is visible to moderators and may return.
func (s *VoteService) ensureVotable(ctx context.Context, targetType models.VoteTarget, targetID uint) error {
	switch targetType {
	case models.VoteTargetPost:
		post, err := s.postRepo.GetByID(ctx, targetID, 0)
		if err != nil {
			return err
		}
		if post.Status == models.PostStatusDeleted {
			return models.NewNotFoundError("Post", targetID)
		}
	case models.VoteTargetComment:
		comment, err := s.commentRepo.GetByID(ctx, targetID)
		if err != nil {
			return err
		}
		if comment.Status == models.CommentStatusDeleted {
			return models.NewNotFoundError("Comment", targetID)
		}
	}
	return nil
}
