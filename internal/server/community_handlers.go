package server

import (
	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetCommunities handles GET /api/communities
// @Summary List active communities
// @Tags communities
// @Produce json
// @Success 200 {object} models.Envelope
// @Router /communities [get]
func (s *Server) GetCommunities(c *fiber.Ctx) error {
	communities, err := s.communityService.ListCommunities(c.Context())
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(models.OK(communities))
}

// GetCommunityBySlug handles GET /api/communities/:slug
// @Summary Get a community with its feed
// @Description Community details plus one feed page with promotions interleaved
// @Tags communities
// @Produce json
// @Param slug path string true "Community slug"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "Sort order" Enums(newest, oldest, popular, views)
// @Success 200 {object} models.Envelope
// @Failure 404 {object} object{error=string}
// @Router /communities/{slug} [get]
func (s *Server) GetCommunityBySlug(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	feed, err := s.feedService.GetCommunityFeed(c.Context(), service.CommunityFeedInput{
		CommunitySlug:     c.Params("slug"),
		Page:              page,
		Limit:             limit,
		Sort:              c.Query("sort", "newest"),
		ViewerID:          viewerID,
		ViewerIsModerator: s.viewerIsModerator(c, viewerID),
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OKPage(feed, feed.Meta))
}

// CreateCommunityRequest handles POST /api/communities/requests
// @Summary Request a new community
// @Description Submits a community for admin review; it stays pending until approved
// @Tags communities
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,slug=string,description=string,kind=string} true "Community request"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /communities/requests [post]
func (s *Server) CreateCommunityRequest(c *fiber.Ctx) error {
	var req struct {
		Name        string `json:"name"`
		Slug        string `json:"slug"`
		Description string `json:"description"`
		Kind        string `json:"kind"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	community, err := s.communityService.RequestCommunity(c.Context(), service.RequestCommunityInput{
		UserID:      currentUserID(c),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Kind:        models.CommunityKind(req.Kind),
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(community))
}

// GetPendingCommunities handles GET /api/admin/communities/requests
// @Summary List pending community requests
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/communities/requests [get]
func (s *Server) GetPendingCommunities(c *fiber.Ctx) error {
	communities, err := s.communityService.ListPendingCommunities(c.Context(), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(models.OK(communities))
}

// ApproveCommunity handles POST /api/admin/communities/:id/approve
// @Summary Approve a community request
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.Envelope
// @Failure 409 {object} object{error=string}
// @Router /admin/communities/{id}/approve [post]
func (s *Server) ApproveCommunity(c *fiber.Ctx) error {
	return s.reviewCommunity(c, true)
}

// RejectCommunity handles POST /api/admin/communities/:id/reject
// @Summary Reject a community request
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Community ID"
// @Success 200 {object} models.Envelope
// @Failure 409 {object} object{error=string}
// @Router /admin/communities/{id}/reject [post]
func (s *Server) RejectCommunity(c *fiber.Ctx) error {
	return s.reviewCommunity(c, false)
}

func (s *Server) reviewCommunity(c *fiber.Ctx, approve bool) error {
	communityID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	community, err := s.communityService.ReviewCommunity(c.Context(), currentUserID(c), communityID, approve)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(community))
}
