package server

import (
	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetBannerPromotions handles GET /api/promotions/banner
// @Summary List active banner promotions
// @Tags promotions
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /promotions/banner [get]
func (s *Server) GetBannerPromotions(c *fiber.Ctx) error {
	promos, err := s.promotionService.ListActive(c.Context(), models.PlacementBanner)
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(models.OK(promos))
}

// GetAllPromotions handles GET /api/admin/promotions
// @Summary List all promotions including inactive ones
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/promotions [get]
func (s *Server) GetAllPromotions(c *fiber.Ctx) error {
	promos, err := s.promotionService.ListAll(c.Context(), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(models.OK(promos))
}

type promotionRequest struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	TargetURL string `json:"target_url"`
	Placement string `json:"placement"`
	IsActive  bool   `json:"is_active"`
}

func (r promotionRequest) toInput(actorID uint) service.PromotionInput {
	return service.PromotionInput{
		ActorID:   actorID,
		Title:     r.Title,
		ImageURL:  r.ImageURL,
		TargetURL: r.TargetURL,
		Placement: models.PromotionPlacement(r.Placement),
		IsActive:  r.IsActive,
	}
}

// CreatePromotion handles POST /api/admin/promotions
// @Summary Create a promotion
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{title=string,image_url=string,target_url=string,placement=string,is_active=bool} true "New promotion"
// @Success 201 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/promotions [post]
func (s *Server) CreatePromotion(c *fiber.Ctx) error {
	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	promo, err := s.promotionService.Create(c.Context(), req.toInput(currentUserID(c)))
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(promo))
}

// UpdatePromotion handles PUT /api/admin/promotions/:id
// @Summary Update a promotion
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Param request body object{title=string,image_url=string,target_url=string,placement=string,is_active=bool} true "Updated promotion"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/promotions/{id} [put]
func (s *Server) UpdatePromotion(c *fiber.Ctx) error {
	promoID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req promotionRequest
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	promo, err := s.promotionService.Update(c.Context(), promoID, req.toInput(currentUserID(c)))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(promo))
}

// DeletePromotion handles DELETE /api/admin/promotions/:id
// @Summary Delete a promotion
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Promotion ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/promotions/{id} [delete]
func (s *Server) DeletePromotion(c *fiber.Ctx) error {
	promoID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.promotionService.Delete(c.Context(), currentUserID(c), promoID); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"deleted": true}))
}
