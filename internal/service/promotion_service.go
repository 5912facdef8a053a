package service

import (
	"context"
	"strings"

	"bulag/internal/models"
	"bulag/internal/repository"
)

// PromotionService implements sponsored-content management.
type PromotionService struct {
	promoRepo repository.PromotionRepository
	userRepo  repository.UserRepository
}

// NewPromotionService returns a new PromotionService.
func NewPromotionService(
	promoRepo repository.PromotionRepository,
	userRepo repository.UserRepository,
) *PromotionService {
	return &PromotionService{
		promoRepo: promoRepo,
		userRepo:  userRepo,
	}
}

// PromotionInput is the admin payload for creating or updating a promotion.
type PromotionInput struct {
	ActorID   uint
	Title     string
	ImageURL  string
	TargetURL string
	Placement models.PromotionPlacement
	IsActive  bool
}

func (s *PromotionService) requireAdmin(ctx context.Context, actorID uint) error {
	actor, err := s.userRepo.GetByID(ctx, actorID)
	if err != nil {
		return err
	}
	return Authorize(actor, ActionPurge, 0)
}

func validatePromotionInput(in PromotionInput) error {
	if strings.TrimSpace(in.Title) == "" {
		return models.NewValidationError("Promotion title is required")
	}
	if strings.TrimSpace(in.TargetURL) == "" {
		return models.NewValidationError("Promotion target URL is required")
	}
	switch in.Placement {
	case models.PlacementFeed, models.PlacementBanner:
		return nil
	default:
		return models.NewValidationError("Unknown promotion placement")
	}
}

// ListActive returns active promotions for the placement, in cycle order.
func (s *PromotionService) ListActive(ctx context.Context, placement models.PromotionPlacement) ([]models.Promotion, error) {
	return s.promoRepo.ListActive(ctx, placement)
}

// ListAll returns every promotion for the admin console.
func (s *PromotionService) ListAll(ctx context.Context, actorID uint) ([]models.Promotion, error) {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return nil, err
	}
	return s.promoRepo.List(ctx)
}

// Create adds a promotion.
func (s *PromotionService) Create(ctx context.Context, in PromotionInput) (*models.Promotion, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	if err := validatePromotionInput(in); err != nil {
		return nil, err
	}

	promo := &models.Promotion{
		Title:     strings.TrimSpace(in.Title),
		ImageURL:  strings.TrimSpace(in.ImageURL),
		TargetURL: strings.TrimSpace(in.TargetURL),
		Placement: in.Placement,
		IsActive:  in.IsActive,
	}
	if err := s.promoRepo.Create(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Update replaces a promotion's fields.
func (s *PromotionService) Update(ctx context.Context, promoID uint, in PromotionInput) (*models.Promotion, error) {
	if err := s.requireAdmin(ctx, in.ActorID); err != nil {
		return nil, err
	}
	if err := validatePromotionInput(in); err != nil {
		return nil, err
	}

	promo, err := s.promoRepo.GetByID(ctx, promoID)
	if err != nil {
		return nil, err
	}

	promo.Title = strings.TrimSpace(in.Title)
	promo.ImageURL = strings.TrimSpace(in.ImageURL)
	promo.TargetURL = strings.TrimSpace(in.TargetURL)
	promo.Placement = in.Placement
	promo.IsActive = in.IsActive
	if err := s.promoRepo.Update(ctx, promo); err != nil {
		return nil, err
	}
	return promo, nil
}

// Delete removes a promotion.
func (s *PromotionService) Delete(ctx context.Context, actorID, promoID uint) error {
	if err := s.requireAdmin(ctx, actorID); err != nil {
		return err
	}
	return s.promoRepo.Delete(ctx, promoID)
}
