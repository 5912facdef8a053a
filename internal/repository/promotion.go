package repository

import (
	"context"
	"errors"

	"bulag/internal/cache"
	"bulag/internal/models"

	"gorm.io/gorm"
)

// PromotionRepository defines persistence operations for promotions.
type PromotionRepository interface {
	Create(ctx context.Context, promo *models.Promotion) error
	GetByID(ctx context.Context, id uint) (*models.Promotion, error)
	ListActive(ctx context.Context, placement models.PromotionPlacement) ([]models.Promotion, error)
	List(ctx context.Context) ([]models.Promotion, error)
	Update(ctx context.Context, promo *models.Promotion) error
	Delete(ctx context.Context, id uint) error
}

type promotionRepository struct {
	db *gorm.DB
}

// NewPromotionRepository returns a new PromotionRepository implementation.
func NewPromotionRepository(db *gorm.DB) PromotionRepository {
	return &promotionRepository{db: db}
}

func (r *promotionRepository) Create(ctx context.Context, promo *models.Promotion) error {
	if err := r.db.WithContext(ctx).Create(promo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePromotions(ctx)
	return nil
}

func (r *promotionRepository) GetByID(ctx context.Context, id uint) (*models.Promotion, error) {
	var promo models.Promotion
	if err := r.db.WithContext(ctx).First(&promo, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Promotion", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &promo, nil
}

// ListActive returns active promotions for a placement in insertion order.
// Stable ordering matters: feed interleaving cycles this slice by index.
func (r *promotionRepository) ListActive(ctx context.Context, placement models.PromotionPlacement) ([]models.Promotion, error) {
	var promos []models.Promotion
	key := cache.PromotionsKey
	if placement == models.PlacementBanner {
		key = cache.PromotionsBannerKey
	}
	err := cache.Aside(ctx, key, &promos, cache.PromotionsTTL, func() error {
		if err := r.db.WithContext(ctx).
			Where("placement = ? AND is_active = ?", placement, true).
			Order("id ASC").
			Find(&promos).Error; err != nil {
			return models.NewInternalError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return promos, nil
}

func (r *promotionRepository) List(ctx context.Context) ([]models.Promotion, error) {
	var promos []models.Promotion
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&promos).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return promos, nil
}

func (r *promotionRepository) Update(ctx context.Context, promo *models.Promotion) error {
	if err := r.db.WithContext(ctx).Save(promo).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidatePromotions(ctx)
	return nil
}

func (r *promotionRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&models.Promotion{}, id)
	if res.Error != nil {
		return models.NewInternalError(res.Error)
	}
	if res.RowsAffected == 0 {
		return models.NewNotFoundError("Promotion", id)
	}
	cache.InvalidatePromotions(ctx)
	return nil
}
