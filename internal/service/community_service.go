package service

import (
	"context"
	"strings"

	"bulag/internal/models"
	"bulag/internal/repository"
	"bulag/internal/validation"
)

// CommunityService implements community listing, requests and approval.
type CommunityService struct {
	communityRepo repository.CommunityRepository
	userRepo      repository.UserRepository
}

// NewCommunityService returns a new CommunityService.
func NewCommunityService(
	communityRepo repository.CommunityRepository,
	userRepo repository.UserRepository,
) *CommunityService {
	return &CommunityService{
		communityRepo: communityRepo,
		userRepo:      userRepo,
	}
}

// RequestCommunityInput is a member's request for a new community.
type RequestCommunityInput struct {
	UserID      uint
	Name        string
	Slug        string
	Description string
	Kind        models.CommunityKind
}

// ListCommunities returns all active communities.
func (s *CommunityService) ListCommunities(ctx context.Context) ([]models.Community, error) {
	return s.communityRepo.List(ctx)
}

// GetCommunity returns an active community by slug. Pending and rejected
// communities are only visible through the admin queue.
func (s *CommunityService) GetCommunity(ctx context.Context, slug string) (*models.Community, error) {
	community, err := s.communityRepo.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	if community.Status != models.CommunityStatusActive {
		return nil, models.NewNotFoundError("Community", slug)
	}
	return community, nil
}

// RequestCommunity files a community creation request, pending approval.
func (s *CommunityService) RequestCommunity(ctx context.Context, in RequestCommunityInput) (*models.Community, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, models.NewValidationError("Community name is required")
	}
	if err := validation.ValidateCommunitySlug(in.Slug); err != nil {
		return nil, err
	}
	switch in.Kind {
	case models.CommunityKindCompany, models.CommunityKindPublicServant, models.CommunityKindInterest:
	default:
		return nil, models.NewValidationError("Unknown community kind")
	}

	actor, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if actor.IsSuspended {
		return nil, models.NewForbiddenError("Account is suspended")
	}

	community := &models.Community{
		Name:            name,
		Slug:            strings.ToLower(strings.TrimSpace(in.Slug)),
		Description:     strings.TrimSpace(in.Description),
		Kind:            in.Kind,
		CreatedByUserID: &in.UserID,
		Status:          models.CommunityStatusPending,
	}
	if err := s.communityRepo.Create(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}

// ListPendingCommunities returns requests awaiting review, oldest first.
func (s *CommunityService) ListPendingCommunities(ctx context.Context, actorID uint) ([]models.Community, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionPurge, 0); err != nil {
		return nil, err
	}
	return s.communityRepo.ListByStatus(ctx, models.CommunityStatusPending)
}

// ReviewCommunity approves or rejects a pending community request.
func (s *CommunityService) ReviewCommunity(ctx context.Context, actorID, communityID uint, approve bool) (*models.Community, error) {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return nil, err
	}
	if err := Authorize(actor, ActionPurge, 0); err != nil {
		return nil, err
	}

	community, err := s.communityRepo.GetByID(ctx, communityID)
	if err != nil {
		return nil, err
	}
	if community.Status != models.CommunityStatusPending {
		return nil, models.NewConflictError("Community request already reviewed")
	}

	if approve {
		community.Status = models.CommunityStatusActive
	} else {
		community.Status = models.CommunityStatusRejected
	}
	if err := s.communityRepo.Update(ctx, community); err != nil {
		return nil, err
	}
	return community, nil
}
