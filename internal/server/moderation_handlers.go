package server

import (
	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// HidePost handles POST /api/mod/posts/:id/hide
// @Summary Hide a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/posts/{id}/hide [post]
func (s *Server) HidePost(c *fiber.Ctx) error {
	return s.setHidden(c, models.VoteTargetPost, true)
}

// UnhidePost handles POST /api/mod/posts/:id/unhide
// @Summary Unhide a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/posts/{id}/unhide [post]
func (s *Server) UnhidePost(c *fiber.Ctx) error {
	return s.setHidden(c, models.VoteTargetPost, false)
}

// HideComment handles POST /api/mod/comments/:id/hide
// @Summary Hide a comment
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/comments/{id}/hide [post]
func (s *Server) HideComment(c *fiber.Ctx) error {
	return s.setHidden(c, models.VoteTargetComment, true)
}

// UnhideComment handles POST /api/mod/comments/:id/unhide
// @Summary Unhide a comment
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/comments/{id}/unhide [post]
func (s *Server) UnhideComment(c *fiber.Ctx) error {
	return s.setHidden(c, models.VoteTargetComment, false)
}

func (s *Server) setHidden(c *fiber.Ctx, targetType models.VoteTarget, hidden bool) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.SetHidden(c.Context(), service.ModerateContentInput{
		ActorID:    currentUserID(c),
		TargetType: targetType,
		TargetID:   targetID,
	}, hidden); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"hidden": hidden}))
}

// PinPost handles POST /api/mod/posts/:id/pin
// @Summary Pin a post to the top of its feed
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/posts/{id}/pin [post]
func (s *Server) PinPost(c *fiber.Ctx) error {
	return s.setPinned(c, true)
}

// UnpinPost handles POST /api/mod/posts/:id/unpin
// @Summary Unpin a post
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/posts/{id}/unpin [post]
func (s *Server) UnpinPost(c *fiber.Ctx) error {
	return s.setPinned(c, false)
}

func (s *Server) setPinned(c *fiber.Ctx, pinned bool) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.SetPinned(c.Context(), currentUserID(c), postID, pinned); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"pinned": pinned}))
}

// ReportPost handles POST /api/posts/:id/report
// @Summary Report a post
// @Description Members cannot report their own content; duplicate open reports are rejected
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{reason=string} true "Report reason"
// @Success 201 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /posts/{id}/report [post]
func (s *Server) ReportPost(c *fiber.Ctx) error {
	return s.fileReport(c, models.VoteTargetPost)
}

// ReportComment handles POST /api/comments/:id/report
// @Summary Report a comment
// @Tags reports
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body object{reason=string} true "Report reason"
// @Success 201 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Failure 409 {object} object{error=string}
// @Router /comments/{id}/report [post]
func (s *Server) ReportComment(c *fiber.Ctx) error {
	return s.fileReport(c, models.VoteTargetComment)
}

func (s *Server) fileReport(c *fiber.Ctx, targetType models.VoteTarget) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Reason string `json:"reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	report, err := s.moderationService.FileReport(c.Context(), service.FileReportInput{
		ReporterID: currentUserID(c),
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     req.Reason,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(report))
}

// GetReports handles GET /api/mod/reports
// @Summary List open reports
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/reports [get]
func (s *Server) GetReports(c *fiber.Ctx) error {
	page, limit := parsePagination(c)

	reports, meta, err := s.moderationService.ListOpenReports(c.Context(), currentUserID(c), page, limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OKPage(reports, meta))
}

// ResolveReport handles POST /api/mod/reports/:id/resolve
// @Summary Resolve a report
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/reports/{id}/resolve [post]
func (s *Server) ResolveReport(c *fiber.Ctx) error {
	return s.closeReport(c, false)
}

// DismissReport handles POST /api/mod/reports/:id/dismiss
// @Summary Dismiss a report
// @Tags moderation
// @Produce json
// @Security BearerAuth
// @Param id path int true "Report ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /mod/reports/{id}/dismiss [post]
func (s *Server) DismissReport(c *fiber.Ctx) error {
	return s.closeReport(c, true)
}

func (s *Server) closeReport(c *fiber.Ctx, dismiss bool) error {
	reportID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.ResolveReport(c.Context(), currentUserID(c), reportID, dismiss); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"closed": true}))
}

// PurgePost handles DELETE /api/admin/posts/:id
// @Summary Permanently remove a post
// @Description Hard delete of the post and everything under it; admin only
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/posts/{id} [delete]
func (s *Server) PurgePost(c *fiber.Ctx) error {
	return s.purge(c, models.VoteTargetPost)
}

// PurgeComment handles DELETE /api/admin/comments/:id
// @Summary Permanently remove a comment
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/comments/{id} [delete]
func (s *Server) PurgeComment(c *fiber.Ctx) error {
	return s.purge(c, models.VoteTargetComment)
}

func (s *Server) purge(c *fiber.Ctx, targetType models.VoteTarget) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.Purge(c.Context(), service.ModerateContentInput{
		ActorID:    currentUserID(c),
		TargetType: targetType,
		TargetID:   targetID,
	}); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"purged": true}))
}

// SuspendUser handles POST /api/admin/users/:id/suspend
// @Summary Suspend a user
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/users/{id}/suspend [post]
func (s *Server) SuspendUser(c *fiber.Ctx) error {
	return s.setSuspended(c, true)
}

// UnsuspendUser handles POST /api/admin/users/:id/unsuspend
// @Summary Lift a user's suspension
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /admin/users/{id}/unsuspend [post]
func (s *Server) UnsuspendUser(c *fiber.Ctx) error {
	return s.setSuspended(c, false)
}

func (s *Server) setSuspended(c *fiber.Ctx, suspended bool) error {
	userID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.moderationService.SetSuspended(c.Context(), currentUserID(c), userID, suspended); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"suspended": suspended}))
}
