package repository

import (
	"context"
	"errors"

	"bulag/internal/cache"
	"bulag/internal/models"

	"gorm.io/gorm"
)

// CommunityRepository defines persistence operations for communities.
type CommunityRepository interface {
	Create(ctx context.Context, community *models.Community) error
	GetByID(ctx context.Context, id uint) (*models.Community, error)
	GetBySlug(ctx context.Context, slug string) (*models.Community, error)
	List(ctx context.Context) ([]models.Community, error)
	ListByStatus(ctx context.Context, status models.CommunityStatus) ([]models.Community, error)
	Update(ctx context.Context, community *models.Community) error
}

type communityRepository struct {
	db *gorm.DB
}

// NewCommunityRepository returns a new CommunityRepository implementation.
func NewCommunityRepository(db *gorm.DB) CommunityRepository {
	return &communityRepository{db: db}
}

func (r *communityRepository) Create(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Create(community).Error; err != nil {
		if isUniqueConstraintError(err) {
			return models.NewConflictError("Community slug already taken")
		}
		return models.NewInternalError(err)
	}
	cache.Invalidate(ctx, cache.CommunityListKey)
	return nil
}

func (r *communityRepository) GetByID(ctx context.Context, id uint) (*models.Community, error) {
	var community models.Community
	if err := r.db.WithContext(ctx).First(&community, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Community", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &community, nil
}

func (r *communityRepository) GetBySlug(ctx context.Context, slug string) (*models.Community, error) {
	var community models.Community
	err := cache.Aside(ctx, cache.CommunityKey(slug), &community, cache.CommunityTTL, func() error {
		if err := r.db.WithContext(ctx).Where("slug = ?", slug).First(&community).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.NewNotFoundError("Community", slug)
			}
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &community, nil
}

func (r *communityRepository) List(ctx context.Context) ([]models.Community, error) {
	var communities []models.Community
	err := cache.Aside(ctx, cache.CommunityListKey, &communities, cache.CommunityTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("status = ?", models.CommunityStatusActive).
			Order("name ASC").
			Find(&communities).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return communities, nil
}

func (r *communityRepository) ListByStatus(ctx context.Context, status models.CommunityStatus) ([]models.Community, error) {
	var communities []models.Community
	if err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at ASC").
		Find(&communities).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return communities, nil
}

func (r *communityRepository) Update(ctx context.Context, community *models.Community) error {
	if err := r.db.WithContext(ctx).Save(community).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateCommunity(ctx, community.Slug)
	return nil
}
