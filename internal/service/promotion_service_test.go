package service

import (
	"context"
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPromotionService_Create(t *testing.T) {
	t.Parallel()

	valid := PromotionInput{
		ActorID:   3,
		Title:     "  Job fair  ",
		TargetURL: "https://jobs.example",
		Placement: models.PlacementFeed,
		IsActive:  true,
	}

	t.Run("admin creates", func(t *testing.T) {
		t.Parallel()

		var created *models.Promotion
		promoRepo := noopPromotionRepo()
		promoRepo.createFn = func(_ context.Context, p *models.Promotion) error {
			created = p
			return nil
		}

		svc := NewPromotionService(promoRepo, userRepoWithRole(models.RoleAdmin))
		_, err := svc.Create(context.Background(), valid)
		require.NoError(t, err)
		require.NotNil(t, created)
		assert.Equal(t, "Job fair", created.Title)
		assert.True(t, created.IsActive)
	})

	t.Run("non admin is forbidden", func(t *testing.T) {
		t.Parallel()

		svc := NewPromotionService(noopPromotionRepo(), userRepoWithRole(models.RoleModerator))
		_, err := svc.Create(context.Background(), valid)
		assertForbiddenError(t, err)
	})

	t.Run("rejects missing fields and bad placement", func(t *testing.T) {
		t.Parallel()

		svc := NewPromotionService(noopPromotionRepo(), userRepoWithRole(models.RoleAdmin))

		in := valid
		in.Title = " "
		_, err := svc.Create(context.Background(), in)
		assertValidationError(t, err)

		in = valid
		in.TargetURL = ""
		_, err = svc.Create(context.Background(), in)
		assertValidationError(t, err)

		in = valid
		in.Placement = models.PromotionPlacement("popup")
		_, err = svc.Create(context.Background(), in)
		assertValidationError(t, err)
	})
}

func TestPromotionService_Update(t *testing.T) {
	t.Parallel()

	var updated *models.Promotion
	promoRepo := noopPromotionRepo()
	promoRepo.getByIDFn = func(_ context.Context, id uint) (*models.Promotion, error) {
		return &models.Promotion{ID: id, Title: "old", IsActive: true}, nil
	}
	promoRepo.updateFn = func(_ context.Context, p *models.Promotion) error {
		updated = p
		return nil
	}

	svc := NewPromotionService(promoRepo, userRepoWithRole(models.RoleAdmin))
	_, err := svc.Update(context.Background(), 5, PromotionInput{
		ActorID:   3,
		Title:     "new",
		TargetURL: "https://jobs.example",
		Placement: models.PlacementBanner,
		IsActive:  false,
	})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Title)
	assert.Equal(t, models.PlacementBanner, updated.Placement)
	assert.False(t, updated.IsActive)
}

func TestPromotionService_ListAll(t *testing.T) {
	t.Parallel()

	svc := NewPromotionService(noopPromotionRepo(), userRepoWithRole(models.RoleMember))
	_, err := svc.ListAll(context.Background(), 1)
	assertForbiddenError(t, err)
}
