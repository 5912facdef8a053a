package server

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"bulag/internal/models"

	"github.com/gofiber/fiber/v2"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// errResponseWritten signals that the handler already wrote an error response
// and the caller should just return nil to Fiber.
var errResponseWritten = errors.New("response written")

// parsePagination extracts page and limit query parameters with sane bounds.
func parsePagination(c *fiber.Ctx) (page, limit int) {
	page = c.QueryInt("page", 1)
	if page < 1 {
		page = 1
	}
	limit = c.QueryInt("limit", defaultPageLimit)
	if limit < 1 {
		limit = defaultPageLimit
	}
	if limit > maxPageLimit {
		limit = maxPageLimit
	}
	return page, limit
}

// parseID parses a numeric route parameter, writing a 400 response itself on
// failure. Callers check for errResponseWritten and return nil.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := strconv.ParseUint(c.Params(param), 10, 32)
	if err != nil || id == 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError(fmt.Sprintf("Invalid %s", humanizeParam(param))))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns a route param name like "postId" into "post ID" for
// error messages.
func humanizeParam(param string) string {
	words := splitCamel(param)
	for i, w := range words {
		if strings.EqualFold(w, "id") {
			words[i] = "ID"
		}
	}
	out := strings.Join(words, " ")
	if out == "" {
		return "ID"
	}
	return out
}

func splitCamel(s string) []string {
	var words []string
	var current strings.Builder
	for _, r := range s {
		if unicode.IsUpper(r) && current.Len() > 0 {
			words = append(words, current.String())
			current.Reset()
		}
		current.WriteRune(unicode.ToLower(r))
	}
	if current.Len() > 0 {
		words = append(words, current.String())
	}
	return words
}

// respondErr maps a service error to its HTTP status and writes the envelope.
func respondErr(c *fiber.Ctx, err error) error {
	return models.RespondWithError(c, models.StatusForError(err), err)
}

// currentUserID reads the authenticated user ID set by AuthRequired.
func currentUserID(c *fiber.Ctx) uint {
	if id, ok := c.Locals("userID").(uint); ok {
		return id
	}
	return 0
}

// viewerIsModerator reports whether userID holds moderator privileges.
// Unauthenticated viewers and lookup failures read as regular members.
func (s *Server) viewerIsModerator(c *fiber.Ctx, userID uint) bool {
	if userID == 0 {
		return false
	}
	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return false
	}
	return user.IsModerator()
}
