package models

// AnonymousLabel is what anonymous post authors render as.
const AnonymousLabel = "Anonymous"

// PostAuthorDisplayName returns the name shown for a post's author.
// Anonymous posts always collapse to the literal "Anonymous", regardless of
// company affiliation. Comments behave differently: they reveal a
// company-scoped pseudonym. The asymmetry is intentional product behavior.
func PostAuthorDisplayName(p *Post) string {
	if p.IsAnonymous {
		return AnonymousLabel
	}
	return p.User.Nickname
}

// CommentAuthorDisplayName returns the name shown for a comment's author.
// Anonymous comments from users with a company affiliation render as
// "{company} - {nickname}"; without a company the plain nickname is shown.
func CommentAuthorDisplayName(c *Comment) string {
	if c.IsAnonymous && c.User.CompanyName != "" {
		return c.User.CompanyName + " - " + c.User.Nickname
	}
	return c.User.Nickname
}

// IsOriginalPoster reports whether the comment was written by the post's
// author. The OP badge shows independent of anonymity.
func IsOriginalPoster(c *Comment, p *Post) bool {
	return c.UserID == p.UserID
}
