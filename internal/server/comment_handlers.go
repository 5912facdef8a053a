package server

import (
	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetComments handles GET /api/posts/:id/comments
// @Summary List a post's comment tree
// @Description Two-level threaded comments; hidden comments are omitted for regular viewers and deleted comments remain as placeholders
// @Tags comments
// @Produce json
// @Param id path int true "Post ID"
// @Param sort query string false "Sort order" Enums(oldest, newest, popular)
// @Success 200 {object} models.Envelope
// @Failure 404 {object} object{error=string}
// @Router /posts/{id}/comments [get]
func (s *Server) GetComments(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	tree, err := s.commentService.ListCommentTree(c.Context(), service.ListCommentsInput{
		PostID:            postID,
		Sort:              c.Query("sort", "oldest"),
		ViewerID:          viewerID,
		ViewerIsModerator: s.viewerIsModerator(c, viewerID),
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(tree))
}

// CreateComment handles POST /api/posts/:id/comments
// @Summary Comment on a post
// @Description Top-level comment or a reply to a top-level comment; replies to replies are rejected
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{content=string,parent_id=int,is_anonymous=bool} true "New comment"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /posts/{id}/comments [post]
func (s *Server) CreateComment(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content     string `json:"content"`
		ParentID    *uint  `json:"parent_id"`
		IsAnonymous bool   `json:"is_anonymous"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.CreateComment(c.Context(), service.CreateCommentInput{
		UserID:      currentUserID(c),
		PostID:      postID,
		ParentID:    req.ParentID,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(comment))
}

// UpdateComment handles PATCH /api/comments/:id
// @Summary Edit a comment
// @Description Only the author can edit, regardless of role
// @Tags comments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body object{content=string} true "Updated content"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /comments/{id} [patch]
func (s *Server) UpdateComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
		Content:   req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(comment))
}

// DeleteComment handles DELETE /api/comments/:id
// @Summary Delete a comment
// @Description Soft delete by the author; replies stay anchored under a placeholder
// @Tags comments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /comments/{id} [delete]
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    currentUserID(c),
		CommentID: commentID,
	}); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"deleted": true}))
}
