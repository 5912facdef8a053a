package repository

import (
	"context"
	"errors"

	"bulag/internal/models"

	"gorm.io/gorm"
)

// ImageRepository defines storage operations for uploaded images.
type ImageRepository interface {
	Create(ctx context.Context, image *models.Image) error
	GetByHash(ctx context.Context, hash string) (*models.Image, error)
	GetByHashesWithVariants(ctx context.Context, hashes []string) ([]models.Image, error)
	UpsertVariant(ctx context.Context, v *models.ImageVariant) error
}

type imageRepository struct {
	db *gorm.DB
}

// NewImageRepository returns a repository implementation for image metadata.
func NewImageRepository(db *gorm.DB) ImageRepository {
	return &imageRepository{db: db}
}

func (r *imageRepository) Create(ctx context.Context, image *models.Image) error {
	if err := r.db.WithContext(ctx).Create(image).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *imageRepository) GetByHash(ctx context.Context, hash string) (*models.Image, error) {
	var image models.Image
	if err := r.db.WithContext(ctx).Preload("Variants").Where("hash = ?", hash).First(&image).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Image", hash)
		}
		return nil, models.NewInternalError(err)
	}
	return &image, nil
}

func (r *imageRepository) GetByHashesWithVariants(ctx context.Context, hashes []string) ([]models.Image, error) {
	if len(hashes) == 0 {
		return nil, nil
	}
	var images []models.Image
	if err := r.db.WithContext(ctx).
		Preload("Variants").
		Where("hash IN ?", hashes).
		Find(&images).Error; err != nil {
		return nil, models.NewInternalError(err)
	}
	return images, nil
}

func (r *imageRepository) UpsertVariant(ctx context.Context, v *models.ImageVariant) error {
	err := r.db.WithContext(ctx).Exec(`
INSERT INTO image_variants (image_id, size_px, format)
VALUES (?, ?, ?)
ON CONFLICT (image_id, size_px, format) DO NOTHING
`, v.ImageID, v.SizePx, v.Format).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	return nil
}
