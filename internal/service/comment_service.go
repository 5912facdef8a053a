package service

import (
	"context"

	"bulag/internal/models"
	"bulag/internal/repository"
	"bulag/internal/validation"
)

// CommentService implements comment creation, editing and tree assembly.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
	userRepo    repository.UserRepository
	events      EventPublisher
}

// NewCommentService returns a new CommentService.
func NewCommentService(
	commentRepo repository.CommentRepository,
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *CommentService {
	return &CommentService{
		commentRepo: commentRepo,
		postRepo:    postRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

type CreateCommentInput struct {
	UserID      uint
	PostID      uint
	ParentID    *uint
	Content     string
	IsAnonymous bool
}

type UpdateCommentInput struct {
	UserID    uint
	CommentID uint
	Content   string
}

type DeleteCommentInput struct {
	UserID    uint
	CommentID uint
}

type ListCommentsInput struct {
	PostID            uint
	Sort              string
	ViewerID          uint
	ViewerIsModerator bool
}

func (s *CommentService) CreateComment(ctx context.Context, in CreateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, err
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuspended {
		return nil, models.NewForbiddenError("Account is suspended")
	}

	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	if in.ParentID != nil {
		parent, err := s.commentRepo.GetByID(ctx, *in.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.PostID != in.PostID {
			return nil, models.NewValidationError("Parent comment belongs to a different post")
		}
		if parent.ParentID != nil {
			// Two levels only: replies to replies attach nowhere.
			return nil, models.NewValidationError("Replies cannot be nested deeper than one level")
		}
		if parent.Status == models.CommentStatusDeleted {
			return nil, models.NewNotFoundError("Comment", *in.ParentID)
		}
	}

	comment := &models.Comment{
		Content:     in.Content,
		UserID:      in.UserID,
		PostID:      in.PostID,
		ParentID:    in.ParentID,
		IsAnonymous: in.IsAnonymous,
		Status:      models.CommentStatusActive,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	publish(ctx, s.events, EventCommentUpdated, map[string]uint{"post_id": in.PostID, "comment_id": comment.ID})
	return created, nil
}

// ListCommentTree returns the post's comment tree for the viewer.
func (s *CommentService) ListCommentTree(ctx context.Context, in ListCommentsInput) ([]*CommentNode, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID, 0)
	if err != nil {
		return nil, err
	}
	if post.Status == models.PostStatusDeleted && !in.ViewerIsModerator {
		return nil, models.NewNotFoundError("Post", in.PostID)
	}

	comments, err := s.commentRepo.ListByPost(ctx, in.PostID, in.ViewerID)
	if err != nil {
		return nil, err
	}

	return BuildCommentTree(comments, post, in.ViewerIsModerator, in.Sort), nil
}

func (s *CommentService) UpdateComment(ctx context.Context, in UpdateCommentInput) (*models.Comment, error) {
	if err := validation.ValidateCommentContent(in.Content); err != nil {
		return nil, err
	}

	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return nil, err
	}
	if comment.Status == models.CommentStatusDeleted {
		return nil, models.NewNotFoundError("Comment", in.CommentID)
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionEdit, comment.UserID); err != nil {
		return nil, err
	}

	comment.Content = in.Content
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}

	publish(ctx, s.events, EventCommentUpdated, map[string]uint{"post_id": comment.PostID, "comment_id": comment.ID})
	return s.commentRepo.GetByID(ctx, comment.ID)
}

// DeleteComment soft-deletes: the row stays so the thread keeps its shape,
// and the tree builder renders a placeholder in its place.
func (s *CommentService) DeleteComment(ctx context.Context, in DeleteCommentInput) error {
	comment, err := s.commentRepo.GetByID(ctx, in.CommentID)
	if err != nil {
		return err
	}
	if comment.Status == models.CommentStatusDeleted {
		return models.NewNotFoundError("Comment", in.CommentID)
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionDelete, comment.UserID); err != nil {
		return err
	}

	if err := s.commentRepo.UpdateStatus(ctx, in.CommentID, models.CommentStatusDeleted); err != nil {
		return err
	}
	publish(ctx, s.events, EventCommentUpdated, map[string]uint{"post_id": comment.PostID, "comment_id": comment.ID})
	return nil
}
