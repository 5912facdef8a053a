package validation

import (
	"fmt"
	"net/mail"
	"regexp"
	"strings"
	"unicode/utf8"

	"bulag/internal/models"
)

// Content length limits enforced at the service boundary.
const (
	MaxPostTitleLen   = 300
	MaxPostContentLen = 50000
	MaxCommentLen     = 2000
	MaxReportReason   = 500
)

var nicknameRegex = regexp.MustCompile(`^[a-zA-Z0-9_.-]{2,40}$`)

var communitySlugRegex = regexp.MustCompile(`^[a-z0-9-]{3,24}$`)

var reservedCommunitySlugs = map[string]struct{}{
	"admin":       {},
	"api":         {},
	"auth":        {},
	"mod":         {},
	"settings":    {},
	"communities": {},
	"c":           {},
	"users":       {},
	"posts":       {},
	"comments":    {},
	"media":       {},
	"promotions":  {},
	"reports":     {},
	"ws":          {},
	"swagger":     {},
	"metrics":     {},
	"login":       {},
	"signup":      {},
}

// ValidateNickname validates a display nickname.
func ValidateNickname(nickname string) error {
	if !nicknameRegex.MatchString(nickname) {
		return models.NewValidationError("Nickname must be 2-40 characters and contain only letters, numbers, dots, hyphens and underscores")
	}
	return nil
}

// ValidateEmail validates the syntactic shape of an email address.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return models.NewValidationError("Invalid email address")
	}
	return nil
}

// ValidateCommunitySlug validates community slug format and reserved names.
func ValidateCommunitySlug(slug string) error {
	if !communitySlugRegex.MatchString(slug) {
		return models.NewValidationError("Slug must be 3-24 characters and contain only lowercase letters, numbers, and hyphens")
	}

	if strings.HasPrefix(slug, "-") || strings.HasSuffix(slug, "-") {
		return models.NewValidationError("Slug cannot start or end with a hyphen")
	}

	if _, exists := reservedCommunitySlugs[slug]; exists {
		return models.NewValidationError("Slug is reserved")
	}

	return nil
}

// ValidatePostTitle validates a post title.
func ValidatePostTitle(title string) error {
	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if utf8.RuneCountInString(title) > MaxPostTitleLen {
		return models.NewValidationError(fmt.Sprintf("Title too long (max %d characters)", MaxPostTitleLen))
	}
	return nil
}

// ValidatePostContent validates a post body.
func ValidatePostContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > MaxPostContentLen {
		return models.NewValidationError(fmt.Sprintf("Content too long (max %d characters)", MaxPostContentLen))
	}
	return nil
}

// ValidateCommentContent validates a comment body.
func ValidateCommentContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return models.NewValidationError("Content is required")
	}
	if utf8.RuneCountInString(content) > MaxCommentLen {
		return models.NewValidationError(fmt.Sprintf("Comment too long (max %d characters)", MaxCommentLen))
	}
	return nil
}

// ValidateReportReason validates the reason on a content report.
func ValidateReportReason(reason string) error {
	if strings.TrimSpace(reason) == "" {
		return models.NewValidationError("Report reason is required")
	}
	if utf8.RuneCountInString(reason) > MaxReportReason {
		return models.NewValidationError(fmt.Sprintf("Report reason too long (max %d characters)", MaxReportReason))
	}
	return nil
}
