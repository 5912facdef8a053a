package service

import (
	"context"

	"bulag/internal/models"
	"bulag/internal/repository"
	"bulag/internal/validation"
)

// ModerationService implements hide/unhide, pinning, purging, reporting and
// suspension.
type ModerationService struct {
	postRepo    repository.PostRepository
	commentRepo repository.CommentRepository
	reportRepo  repository.ReportRepository
	userRepo    repository.UserRepository
	events      EventPublisher
}

// NewModerationService returns a new ModerationService.
func NewModerationService(
	postRepo repository.PostRepository,
	commentRepo repository.CommentRepository,
	reportRepo repository.ReportRepository,
	userRepo repository.UserRepository,
	events EventPublisher,
) *ModerationService {
	return &ModerationService{
		postRepo:    postRepo,
		commentRepo: commentRepo,
		reportRepo:  reportRepo,
		userRepo:    userRepo,
		events:      events,
	}
}

// ModerateContentInput identifies a post or comment for a moderation action.
type ModerateContentInput struct {
	ActorID    uint
	TargetType models.VoteTarget
	TargetID   uint
}

// FileReportInput is a member's report on content.
type FileReportInput struct {
	ReporterID uint
	TargetType models.VoteTarget
	TargetID   uint
	Reason     string
}

func (s *ModerationService) actor(ctx context.Context, id uint) (*models.User, error) {
	return s.userRepo.GetByID(ctx, id)
}

// SetHidden hides or unhides the target. Hiding requires moderator
// privileges; deleted content cannot be hidden or restored.
func (s *ModerationService) SetHidden(ctx context.Context, in ModerateContentInput, hidden bool) error {
	actor, err := s.actor(ctx, in.ActorID)
	if err != nil {
		return err
	}
	action := ActionHide
	if !hidden {
		action = ActionUnhide
	}
	if err := Authorize(actor, action, 0); err != nil {
		return err
	}

	switch in.TargetType {
	case models.VoteTargetPost:
		post, err := s.postRepo.GetByID(ctx, in.TargetID, 0)
		if err != nil {
			return err
		}
		if post.Status == models.PostStatusDeleted {
			return models.NewNotFoundError("Post", in.TargetID)
		}
		status := models.PostStatusActive
		if hidden {
			status = models.PostStatusHidden
		}
		if err := s.postRepo.UpdateStatus(ctx, in.TargetID, status); err != nil {
			return err
		}
		publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": in.TargetID})
	case models.VoteTargetComment:
		comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
		if err != nil {
			return err
		}
		if comment.Status == models.CommentStatusDeleted {
			return models.NewNotFoundError("Comment", in.TargetID)
		}
		status := models.CommentStatusActive
		if hidden {
			status = models.CommentStatusHidden
		}
		if err := s.commentRepo.UpdateStatus(ctx, in.TargetID, status); err != nil {
			return err
		}
		publish(ctx, s.events, EventCommentUpdated, map[string]uint{"post_id": comment.PostID, "comment_id": in.TargetID})
	default:
		return models.NewValidationError("Invalid target type")
	}
	return nil
}

// SetPinned pins or unpins a post in its community feed.
func (s *ModerationService) SetPinned(ctx context.Context, actorID, postID uint, pinned bool) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionPin, 0); err != nil {
		return err
	}

	post, err := s.postRepo.GetByID(ctx, postID, 0)
	if err != nil {
		return err
	}
	if post.Status == models.PostStatusDeleted {
		return models.NewNotFoundError("Post", postID)
	}

	if err := s.postRepo.SetPinned(ctx, postID, pinned); err != nil {
		return err
	}
	publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": postID, "community_id": post.CommunityID})
	return nil
}

// Purge permanently removes the target and its dependents. This is the one
// path that touches rows; even deleted content can be purged.
func (s *ModerationService) Purge(ctx context.Context, in ModerateContentInput) error {
	actor, err := s.actor(ctx, in.ActorID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionPurge, 0); err != nil {
		return err
	}

	switch in.TargetType {
	case models.VoteTargetPost:
		if err := s.postRepo.Purge(ctx, in.TargetID); err != nil {
			return err
		}
		publish(ctx, s.events, EventPostUpdated, map[string]uint{"post_id": in.TargetID})
	case models.VoteTargetComment:
		comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
		if err != nil {
			return err
		}
		if err := s.commentRepo.Purge(ctx, in.TargetID); err != nil {
			return err
		}
		publish(ctx, s.events, EventCommentUpdated, map[string]uint{"post_id": comment.PostID, "comment_id": in.TargetID})
	default:
		return models.NewValidationError("Invalid target type")
	}
	return nil
}

// FileReport records a complaint for the moderation queue. Reporting your own
// content or double-filing on the same target is rejected.
func (s *ModerationService) FileReport(ctx context.Context, in FileReportInput) (*models.Report, error) {
	if err := validation.ValidateReportReason(in.Reason); err != nil {
		return nil, err
	}

	var ownerID uint
	switch in.TargetType {
	case models.VoteTargetPost:
		post, err := s.postRepo.GetByID(ctx, in.TargetID, 0)
		if err != nil {
			return nil, err
		}
		if post.Status == models.PostStatusDeleted {
			return nil, models.NewNotFoundError("Post", in.TargetID)
		}
		ownerID = post.UserID
	case models.VoteTargetComment:
		comment, err := s.commentRepo.GetByID(ctx, in.TargetID)
		if err != nil {
			return nil, err
		}
		if comment.Status == models.CommentStatusDeleted {
			return nil, models.NewNotFoundError("Comment", in.TargetID)
		}
		ownerID = comment.UserID
	default:
		return nil, models.NewValidationError("Invalid target type")
	}

	actor, err := s.actor(ctx, in.ReporterID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionReport, ownerID); err != nil {
		return nil, err
	}

	exists, err := s.reportRepo.HasOpenReport(ctx, in.ReporterID, in.TargetType, in.TargetID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, models.NewConflictError("You already reported this content")
	}

	report := &models.Report{
		TargetType: in.TargetType,
		TargetID:   in.TargetID,
		ReporterID: in.ReporterID,
		Reason:     in.Reason,
		Status:     models.ReportStatusOpen,
	}
	if err := s.reportRepo.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

// ListOpenReports returns a page of the moderation queue, oldest first.
func (s *ModerationService) ListOpenReports(ctx context.Context, actorID uint, page, limit int) ([]models.Report, models.PaginationMeta, error) {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	if err := Authorize(actor, ActionHide, 0); err != nil {
		return nil, models.PaginationMeta{}, err
	}

	reports, total, err := s.reportRepo.ListByStatus(ctx, models.ReportStatusOpen, page, limit)
	if err != nil {
		return nil, models.PaginationMeta{}, err
	}
	return reports, models.NewPaginationMeta(page, limit, total), nil
}

// ResolveReport closes a report as resolved or dismissed.
func (s *ModerationService) ResolveReport(ctx context.Context, actorID, reportID uint, dismiss bool) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionHide, 0); err != nil {
		return err
	}

	status := models.ReportStatusResolved
	if dismiss {
		status = models.ReportStatusDismissed
	}
	return s.reportRepo.UpdateStatus(ctx, reportID, status)
}

// SetSuspended suspends or reinstates a user account. Admin only; admins
// cannot suspend themselves.
func (s *ModerationService) SetSuspended(ctx context.Context, actorID, userID uint, suspended bool) error {
	actor, err := s.actor(ctx, actorID)
	if err != nil {
		return err
	}
	if err := Authorize(actor, ActionPurge, 0); err != nil {
		return err
	}
	if actorID == userID {
		return models.NewValidationError("You cannot suspend your own account")
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	user.IsSuspended = suspended
	return s.userRepo.Update(ctx, user)
}
