package server

import (
	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/gofiber/fiber/v2"
)

// GetPosts handles GET /api/posts
// @Summary List the post feed
// @Description One page of posts, newest first by default, with promotions interleaved
// @Tags posts
// @Produce json
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Param sort query string false "Sort order" Enums(newest, oldest, popular, views)
// @Param communityId query int false "Scope to one community"
// @Param withPromos query bool false "Interleave promotions (default true)"
// @Success 200 {object} models.Envelope
// @Router /posts [get]
func (s *Server) GetPosts(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	// kill_promotions is an operational kill switch for sponsored content.
	withPromos := c.QueryBool("withPromos", true) && !s.flags.Enabled("kill_promotions", viewerID)

	feed, err := s.feedService.GetFeed(c.Context(), service.FeedInput{
		CommunityID:       uint(c.QueryInt("communityId", 0)),
		Page:              page,
		Limit:             limit,
		Sort:              c.Query("sort", "newest"),
		ViewerID:          viewerID,
		ViewerIsModerator: s.viewerIsModerator(c, viewerID),
		WithPromotions:    withPromos,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OKPage(feed.Items, feed.Meta))
}

// SearchPosts handles GET /api/posts/search
// @Summary Search posts
// @Tags posts
// @Produce json
// @Param q query string true "Search query"
// @Param page query int false "Page number"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /posts/search [get]
func (s *Server) SearchPosts(c *fiber.Ctx) error {
	page, limit := parsePagination(c)
	viewerID, _ := s.optionalUserID(c)

	posts, meta, err := s.postService.SearchPosts(c.Context(), c.Query("q"), viewerID, page, limit)
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OKPage(posts, meta))
}

// GetPost handles GET /api/posts/:id
// @Summary Get one post
// @Description Fetch a post with media and tags; viewing increments the view count
// @Tags posts
// @Produce json
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 404 {object} object{error=string}
// @Router /posts/{id} [get]
func (s *Server) GetPost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	viewerID, _ := s.optionalUserID(c)
	post, err := s.postService.GetPost(c.Context(), postID, viewerID, s.viewerIsModerator(c, viewerID))
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(post))
}

// CreatePost handles POST /api/posts
// @Summary Create a post
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{community_id=int,title=string,content=string,is_anonymous=bool,tags=[]string} true "New post"
// @Success 201 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /posts [post]
func (s *Server) CreatePost(c *fiber.Ctx) error {
	var req struct {
		CommunityID uint                 `json:"community_id"`
		Title       string               `json:"title"`
		Content     string               `json:"content"`
		IsAnonymous bool                 `json:"is_anonymous"`
		Tags        []string             `json:"tags"`
		Media       []service.MediaInput `json:"media"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.CreatePost(c.Context(), service.CreatePostInput{
		UserID:      currentUserID(c),
		CommunityID: req.CommunityID,
		Title:       req.Title,
		Content:     req.Content,
		IsAnonymous: req.IsAnonymous,
		Tags:        req.Tags,
		Media:       req.Media,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(models.OK(post))
}

// UpdatePost handles PATCH /api/posts/:id
// @Summary Edit a post
// @Description Only the author can edit, regardless of role
// @Tags posts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{title=string,content=string} true "Updated fields"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /posts/{id} [patch]
func (s *Server) UpdatePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Title   string `json:"title"`
		Content string `json:"content"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	post, err := s.postService.UpdatePost(c.Context(), service.UpdatePostInput{
		UserID:  currentUserID(c),
		PostID:  postID,
		Title:   req.Title,
		Content: req.Content,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(post))
}

// DeletePost handles DELETE /api/posts/:id
// @Summary Delete a post
// @Description Soft delete by the author; the post remains as a placeholder
// @Tags posts
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Success 200 {object} models.Envelope
// @Failure 403 {object} object{error=string}
// @Router /posts/{id} [delete]
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.postService.DeletePost(c.Context(), service.DeletePostInput{
		UserID: currentUserID(c),
		PostID: postID,
	}); err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(fiber.Map{"deleted": true}))
}

// VotePost handles POST /api/posts/:id/vote
// @Summary Vote on a post
// @Description Casting the value already held retracts it; casting the opposite flips it
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Post ID"
// @Param request body object{value=int} true "Vote value: 1 or -1"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /posts/{id}/vote [post]
func (s *Server) VotePost(c *fiber.Ctx) error {
	return s.castVote(c, models.VoteTargetPost)
}

// VoteComment handles POST /api/comments/:id/vote
// @Summary Vote on a comment
// @Tags votes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Comment ID"
// @Param request body object{value=int} true "Vote value: 1 or -1"
// @Success 200 {object} models.Envelope
// @Failure 400 {object} object{error=string}
// @Router /comments/{id}/vote [post]
func (s *Server) VoteComment(c *fiber.Ctx) error {
	return s.castVote(c, models.VoteTargetComment)
}

func (s *Server) castVote(c *fiber.Ctx, targetType models.VoteTarget) error {
	targetID, err := parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Value int `json:"value"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	result, err := s.voteService.CastVote(c.Context(), service.CastVoteInput{
		UserID:     currentUserID(c),
		TargetType: targetType,
		TargetID:   targetID,
		Value:      req.Value,
	})
	if err != nil {
		return respondErr(c, err)
	}

	return c.JSON(models.OK(result))
}
