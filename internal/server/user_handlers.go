package server

import (
	"bulag/internal/models"
	"bulag/internal/validation"

	"github.com/gofiber/fiber/v2"
)

// publicProfile strips fields that only the account owner should see.
type publicProfile struct {
	ID          uint            `json:"id"`
	Nickname    string          `json:"nickname"`
	CompanyName string          `json:"company_name,omitempty"`
	Role        models.UserRole `json:"role"`
	IsSuspended bool            `json:"is_suspended"`
}

// GetMyProfile handles GET /api/users/me
// @Summary Get the authenticated user's profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope
// @Failure 401 {object} object{error=string}
// @Router /users/me [get]
func (s *Server) GetMyProfile(c *fiber.Ctx) error {
	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}
	return c.JSON(models.OK(user))
}

// UpdateMyProfile handles PUT /api/users/me
// @Summary Update the authenticated user's profile
// @Description Nickname and company name; email and role are immutable here
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{nickname=string,company_name=string} true "Profile fields"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /users/me [put]
func (s *Server) UpdateMyProfile(c *fiber.Ctx) error {
	var req struct {
		Nickname    string `json:"nickname"`
		CompanyName string `json:"company_name"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.userRepo.GetByID(c.Context(), currentUserID(c))
	if err != nil {
		return respondErr(c, err)
	}

	if req.Nickname != "" && req.Nickname != user.Nickname {
		if err := validation.ValidateNickname(req.Nickname); err != nil {
			return respondErr(c, err)
		}
		existing, err := s.userRepo.GetByNickname(c.Context(), req.Nickname)
		if err != nil {
			return respondErr(c, err)
		}
		if existing != nil {
			return models.RespondWithError(c, fiber.StatusConflict,
				models.NewConflictError("Nickname is taken"))
		}
		user.Nickname = req.Nickname
	}
	user.CompanyName = req.CompanyName

	if err := s.userRepo.Update(c.Context(), user); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(user))
}

// GetUserProfile handles GET /api/users/:id
// @Summary Get a user's public profile
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} object{error=string}
// @Router /users/{id} [get]
func (s *Server) GetUserProfile(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(publicProfile{
		ID:          user.ID,
		Nickname:    user.Nickname,
		CompanyName: user.CompanyName,
		Role:        user.Role,
		IsSuspended: user.IsSuspended,
	}))
}

// GetFeatureFlags handles GET /api/flags
// @Summary Get evaluated feature flags for the authenticated user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {object} models.Envelope
// @Router /flags [get]
func (s *Server) GetFeatureFlags(c *fiber.Ctx) error {
	return c.JSON(models.OK(s.flags.Snapshot(currentUserID(c))))
}

// GetUserPosts handles GET /api/users/:id/posts
// @Summary List a user's non-anonymous activity
// @Description Anonymous posts never appear on profile pages, not even the author's own
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} object{error=string}
// @Router /users/{id}/posts [get]
func (s *Server) GetUserPosts(c *fiber.Ctx) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	page, limit := parsePagination(c)
	posts, meta, err := s.postService.ListUserPosts(c.Context(), userID, currentUserID(c), page, limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OKPage(posts, meta))
}
