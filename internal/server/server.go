// Package server contains HTTP and WebSocket handlers for the application's API endpoints.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"bulag/internal/cache"
	"bulag/internal/config"
	"bulag/internal/database"
	"bulag/internal/featureflags"
	"bulag/internal/middleware"
	"bulag/internal/models"
	"bulag/internal/notifications"
	"bulag/internal/repository"
	"bulag/internal/service"

	_ "bulag/docs" // swagger docs

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/gofiber/swagger"
	"github.com/gofiber/websocket/v2"
	"github.com/golang-jwt/jwt/v5"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Server holds all dependencies and provides handlers.
type Server struct {
	config         *config.Config
	db             *gorm.DB
	redis          *redis.Client
	app            *fiber.App
	promMiddleware *fiberprometheus.FiberPrometheus
	flags          *featureflags.Manager
	shutdownCtx    context.Context
	shutdownFn     context.CancelFunc

	userRepo      repository.UserRepository
	postRepo      repository.PostRepository
	commentRepo   repository.CommentRepository
	voteRepo      repository.VoteRepository
	communityRepo repository.CommunityRepository
	promoRepo     repository.PromotionRepository
	reportRepo    repository.ReportRepository
	imageRepo     repository.ImageRepository

	hub         *notifications.Hub
	notifier    *notifications.Notifier
	broadcaster *notifications.Broadcaster

	postService       *service.PostService
	commentService    *service.CommentService
	voteService       *service.VoteService
	feedService       *service.FeedService
	communityService  *service.CommunityService
	promotionService  *service.PromotionService
	moderationService *service.ModerationService
	mediaService      *service.MediaService
}

// NewServer creates a new server instance with all dependencies.
func NewServer(cfg *config.Config) (*Server, error) {
	db, err := database.Connect(cfg)
	if err != nil {
		return nil, fmt.Errorf("database connection failed: %w", err)
	}

	cache.InitRedis(cfg.RedisURL)

	return NewServerWithDeps(cfg, db, cache.GetClient())
}

// NewServerWithDeps creates a Server using already-initialized dependencies.
// Tests use this with an in-memory database and optional miniredis.
func NewServerWithDeps(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (*Server, error) {
	s := &Server{
		config:         cfg,
		db:             db,
		redis:          redisClient,
		promMiddleware: middleware.InitMetrics("bulag-api"),
		flags:          featureflags.NewManager(cfg.FeatureFlags),
		userRepo:       repository.NewUserRepository(db),
		postRepo:       repository.NewPostRepository(db),
		commentRepo:    repository.NewCommentRepository(db),
		voteRepo:       repository.NewVoteRepository(db),
		communityRepo:  repository.NewCommunityRepository(db),
		promoRepo:      repository.NewPromotionRepository(db),
		reportRepo:     repository.NewReportRepository(db),
		imageRepo:      repository.NewImageRepository(db),
	}

	s.hub = notifications.NewHub()
	if redisClient != nil {
		s.notifier = notifications.NewNotifier(redisClient)
	}
	s.broadcaster = notifications.NewBroadcaster(s.hub, s.notifier)

	s.postService = service.NewPostService(s.postRepo, s.communityRepo, s.userRepo, s.imageRepo, s.broadcaster)
	s.commentService = service.NewCommentService(s.commentRepo, s.postRepo, s.userRepo, s.broadcaster)
	s.voteService = service.NewVoteService(s.voteRepo, s.postRepo, s.commentRepo, s.userRepo, s.broadcaster)
	s.feedService = service.NewFeedService(s.postRepo, s.promoRepo, s.communityRepo)
	s.communityService = service.NewCommunityService(s.communityRepo, s.userRepo)
	s.promotionService = service.NewPromotionService(s.promoRepo, s.userRepo)
	s.moderationService = service.NewModerationService(s.postRepo, s.commentRepo, s.reportRepo, s.userRepo, s.broadcaster)
	s.mediaService = service.NewMediaService(s.imageRepo, cfg)

	return s, nil
}

// SetupMiddleware configures middleware for the Fiber app.
func (s *Server) SetupMiddleware(app *fiber.App) {
	app.Use(recover.New())
	app.Use(requestid.New())
	app.Use(middleware.ContextMiddleware())
	app.Use(middleware.TracingMiddleware())

	if s.promMiddleware != nil {
		app.Use(middleware.MetricsMiddleware(s.promMiddleware))
	}

	app.Use(helmet.New())
	app.Use(middleware.StructuredLogger())

	// CORS before middlewares that can short-circuit (e.g. limiter) so browser
	// clients still receive CORS headers on error responses.
	origins := s.config.AllowedOrigins
	if origins == "" {
		origins = "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, Upgrade, Connection, Sec-WebSocket-Key, Sec-WebSocket-Version",
		AllowCredentials: true,
		MaxAge:           86400,
	}))

	// Global rate limiting (100 requests per minute per IP)
	app.Use(limiter.New(limiter.Config{
		Max:        100,
		Expiration: 1 * time.Minute,
		// Never rate-limit preflight requests; they are handled by CORS.
		Next: func(c *fiber.Ctx) bool {
			return c.Method() == fiber.MethodOptions
		},
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))
}

// SetupRoutes configures all routes for the application.
func (s *Server) SetupRoutes(app *fiber.App) {
	api := app.Group("/api")

	// Health checks
	app.Get("/health/live", s.LivenessCheck)
	app.Get("/health/ready", s.ReadinessCheck)
	app.Get("/health", s.ReadinessCheck)

	if s.promMiddleware != nil {
		s.promMiddleware.RegisterAt(app, "/metrics")
	}

	// Swagger documentation
	api.Get("/swagger/*", swagger.HandlerDefault)

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/signup", middleware.RateLimit(
		s.redis, 3, 10*time.Minute, "signup"), s.Signup)
	auth.Post("/login", middleware.RateLimit(
		s.redis, 10, 5*time.Minute, "login"), s.Login)
	auth.Post("/logout", s.AuthRequired(), s.Logout)

	// Public browse routes; voting and writing require a session.
	posts := api.Group("/posts")
	posts.Get("/", s.GetPosts)
	posts.Get("/search", middleware.RateLimit(
		s.redis, 10, time.Minute, "search"), s.SearchPosts)
	posts.Get("/:id/comments", s.GetComments)
	posts.Get("/:id", s.GetPost)

	communities := api.Group("/communities")
	communities.Get("/", s.GetCommunities)
	communities.Get("/:slug", s.GetCommunityBySlug)

	promotions := api.Group("/promotions")
	promotions.Get("/banner", s.GetBannerPromotions)

	// Media serving is public; the hash is the capability.
	app.Get("/media/i/:hash/:file", s.ServeImage)

	// Protected routes
	protected := api.Group("", s.AuthRequired())

	protected.Post("/communities/requests", s.CreateCommunityRequest)

	protected.Get("/flags", s.GetFeatureFlags)

	users := protected.Group("/users")
	users.Get("/me", s.GetMyProfile)
	users.Put("/me", s.UpdateMyProfile)
	users.Get("/:id/posts", s.GetUserPosts)
	users.Get("/:id", s.GetUserProfile)

	protectedPosts := protected.Group("/posts")
	protectedPosts.Post("/", middleware.RateLimit(
		s.redis, 2, time.Minute, "create_post"), s.CreatePost)
	// Specific /:id/:resource routes BEFORE generic /:id routes.
	protectedPosts.Post("/:id/vote", s.VotePost)
	protectedPosts.Post("/:id/report", s.ReportPost)
	protectedPosts.Post("/:id/comments", middleware.RateLimit(
		s.redis, 6, time.Minute, "create_comment"), s.CreateComment)
	protectedPosts.Patch("/:id", s.UpdatePost)
	protectedPosts.Delete("/:id", s.DeletePost)

	comments := protected.Group("/comments")
	comments.Post("/:id/vote", s.VoteComment)
	comments.Post("/:id/report", s.ReportComment)
	comments.Patch("/:id", s.UpdateComment)
	comments.Delete("/:id", s.DeleteComment)

	protected.Post("/media", middleware.RateLimit(
		s.redis, 10, time.Minute, "upload_image"), s.UploadImage)

	// WebSocket ticket issuance + event stream
	api.Post("/ws/ticket", s.AuthRequired(), s.IssueWSTicket)
	ws := api.Group("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	}, s.AuthRequired())
	ws.Get("/", s.WebsocketHandler())

	// Moderation routes
	mod := protected.Group("/mod", s.ModeratorRequired())
	mod.Post("/posts/:id/hide", s.HidePost)
	mod.Post("/posts/:id/unhide", s.UnhidePost)
	mod.Post("/posts/:id/pin", s.PinPost)
	mod.Post("/posts/:id/unpin", s.UnpinPost)
	mod.Post("/comments/:id/hide", s.HideComment)
	mod.Post("/comments/:id/unhide", s.UnhideComment)
	mod.Get("/reports", s.GetReports)
	mod.Post("/reports/:id/resolve", s.ResolveReport)
	mod.Post("/reports/:id/dismiss", s.DismissReport)

	// Admin routes
	admin := protected.Group("/admin", s.AdminRequired())
	admin.Delete("/posts/:id", s.PurgePost)
	admin.Delete("/comments/:id", s.PurgeComment)
	admin.Post("/users/:id/suspend", s.SuspendUser)
	admin.Post("/users/:id/unsuspend", s.UnsuspendUser)
	admin.Get("/communities/requests", s.GetPendingCommunities)
	admin.Post("/communities/:id/approve", s.ApproveCommunity)
	admin.Post("/communities/:id/reject", s.RejectCommunity)
	admin.Get("/promotions", s.GetAllPromotions)
	admin.Post("/promotions", s.CreatePromotion)
	admin.Put("/promotions/:id", s.UpdatePromotion)
	admin.Delete("/promotions/:id", s.DeletePromotion)
}

// LivenessCheck handles liveness probe requests.
func (s *Server) LivenessCheck(c *fiber.Ctx) error {
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"status": "up",
		"time":   time.Now(),
	})
}

// ReadinessCheck handles readiness probe requests.
func (s *Server) ReadinessCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), 5*time.Second)
	defer cancel()

	dbStatus := "healthy"
	sqlDB, err := s.db.DB()
	if err != nil {
		dbStatus = "unhealthy"
	} else if err := sqlDB.PingContext(ctx); err != nil {
		dbStatus = "unhealthy"
	}

	redisStatus := "healthy"
	if s.redis != nil {
		if err := s.redis.Ping(ctx).Err(); err != nil {
			redisStatus = "unhealthy"
		}
	} else {
		// The API works without Redis, but realtime events and rate limiting
		// degrade, so readiness reports it.
		redisStatus = "unavailable"
	}

	status := fiber.StatusOK
	overallStatus := "healthy"
	if dbStatus == "unhealthy" {
		status = fiber.StatusServiceUnavailable
		overallStatus = "unhealthy"
	}

	return c.Status(status).JSON(fiber.Map{
		"status": overallStatus,
		"checks": fiber.Map{
			"database": dbStatus,
			"redis":    redisStatus,
		},
		"time": time.Now(),
	})
}

// AuthRequired returns the authentication middleware. It accepts either a
// Bearer JWT or a single-use WebSocket ticket (for /api/ws paths, where
// browsers cannot set headers).
func (s *Server) AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		path := c.Path()
		isWSPath := strings.HasPrefix(path, "/api/ws")

		ticket := c.Query("ticket")
		if ticket != "" && s.redis != nil {
			key := fmt.Sprintf("ws_ticket:%s", ticket)
			userIDStr, err := s.redis.Get(c.Context(), key).Result()
			if err == nil {
				userID, parseErr := strconv.ParseUint(userIDStr, 10, 32)
				if parseErr == nil {
					// Single-use: burn the ticket immediately.
					s.redis.Del(c.Context(), key)
					s.setAuthenticatedUser(c, uint(userID))
					return c.Next()
				}
			}
			if isWSPath {
				return models.RespondWithError(c, fiber.StatusUnauthorized,
					models.NewUnauthorizedError("Invalid or expired WebSocket ticket"))
			}
		}

		authHeader := c.Get("Authorization")
		tokenString := ""
		if authHeader != "" {
			parts := strings.Split(authHeader, " ")
			if len(parts) == 2 && parts[0] == "Bearer" {
				tokenString = parts[1]
			}
		}
		if tokenString == "" {
			return models.RespondWithError(c, fiber.StatusUnauthorized,
				models.NewUnauthorizedError("Authorization required"))
		}

		userID, err := s.parseToken(c, tokenString)
		if err != nil {
			return models.RespondWithError(c, fiber.StatusUnauthorized, err)
		}

		s.setAuthenticatedUser(c, userID)
		return c.Next()
	}
}

// ModeratorRequired rejects users without moderator or admin privileges.
// Must be placed after AuthRequired so that userID is available in locals.
func (s *Server) ModeratorRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.IsModerator() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Moderator privileges required"))
		}
		return c.Next()
	}
}

// AdminRequired rejects users without admin privileges.
func (s *Server) AdminRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := c.Locals("userID").(uint)

		user, err := s.userRepo.GetByID(c.Context(), userID)
		if err != nil {
			return models.RespondWithError(c, models.StatusForError(err), err)
		}
		if !user.IsAdmin() {
			return models.RespondWithError(c, fiber.StatusForbidden,
				models.NewForbiddenError("Admin privileges required"))
		}
		return c.Next()
	}
}

// parseToken validates a JWT and returns the authenticated user ID.
func (s *Server) parseToken(c *fiber.Ctx, tokenString string) (uint, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fiber.NewError(fiber.StatusUnauthorized, "Invalid signing method")
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil || !token.Valid {
		return 0, models.NewUnauthorizedError("Invalid or expired token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid token claims")
	}

	if issuer, issuerOk := claims["iss"].(string); !issuerOk || issuer != tokenIssuer {
		return 0, models.NewUnauthorizedError("Invalid token issuer")
	}
	if audience, audienceOk := claims["aud"].(string); !audienceOk || audience != tokenAudience {
		return 0, models.NewUnauthorizedError("Invalid token audience")
	}

	sub, ok := claims["sub"].(string)
	if !ok {
		return 0, models.NewUnauthorizedError("Invalid subject claim")
	}
	userID, err := strconv.ParseUint(sub, 10, 32)
	if err != nil {
		return 0, models.NewUnauthorizedError("Invalid user ID in token")
	}

	// Check JTI against the logout blacklist.
	if jti, exists := claims["jti"].(string); exists && jti != "" && s.redis != nil {
		isBlacklisted, err := s.redis.Exists(c.Context(), "blacklist:"+jti).Result()
		if err == nil && isBlacklisted > 0 {
			return 0, models.NewUnauthorizedError("Token has been revoked")
		}
	}

	return uint(userID), nil
}

// setAuthenticatedUser stores the user ID in locals and syncs it to the
// request context for logging and downstream services.
func (s *Server) setAuthenticatedUser(c *fiber.Ctx, userID uint) {
	c.Locals("userID", userID)
	ctx := context.WithValue(c.UserContext(), middleware.UserIDKey, userID)
	c.SetUserContext(ctx)
}

// optionalUserID extracts the user ID from the Authorization header without
// enforcing it. Anonymous browsing still personalizes my_vote when a valid
// token is present.
func (s *Server) optionalUserID(c *fiber.Ctx) (uint, bool) {
	authHeader := c.Get("Authorization")
	if authHeader == "" {
		return 0, false
	}
	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" {
		return 0, false
	}
	userID, err := s.parseToken(c, parts[1])
	if err != nil {
		return 0, false
	}
	return userID, true
}

// Start starts the server.
func (s *Server) Start() error {
	ctx, cancel := context.WithCancel(context.Background())
	s.shutdownCtx = ctx
	s.shutdownFn = cancel

	app := fiber.New(fiber.Config{
		AppName:   "Bulag API",
		BodyLimit: (s.config.ImageMaxUploadSizeMB + 1) * 1024 * 1024,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			slog.Error("unhandled request error", "error", err, "path", c.Path())
			return models.RespondWithError(c, fiber.StatusInternalServerError,
				models.NewInternalError(err))
		},
	})
	s.app = app

	s.SetupMiddleware(app)
	s.SetupRoutes(app)

	if s.notifier != nil {
		if err := s.hub.StartWiring(s.shutdownCtx, s.notifier); err != nil {
			slog.Error("failed to start event hub wiring", "error", err)
		}
	}

	slog.Info("server starting", "port", s.config.Port)
	return app.Listen(":" + s.config.Port)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.shutdownFn != nil {
		s.shutdownFn()
	}

	if s.app != nil {
		if err := s.app.ShutdownWithContext(ctx); err != nil {
			slog.Error("error shutting down HTTP server", "error", err)
		}
	}

	if s.hub != nil {
		if err := s.hub.Shutdown(ctx); err != nil {
			slog.Error("error shutting down event hub", "error", err)
		}
	}

	if sqlDB, err := s.db.DB(); err == nil {
		if cerr := sqlDB.Close(); cerr != nil {
			slog.Error("error closing sql DB", "error", cerr)
		}
	}

	if s.redis != nil {
		if rerr := s.redis.Close(); rerr != nil {
			slog.Error("error closing redis", "error", rerr)
		}
	}

	slog.Info("server shutdown complete")
	return nil
}
