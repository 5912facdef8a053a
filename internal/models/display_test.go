package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostAuthorDisplayName(t *testing.T) {
	author := User{Nickname: "jane.doe", CompanyName: "Acme"}

	t.Run("plain nickname when not anonymous", func(t *testing.T) {
		post := &Post{User: author}
		assert.Equal(t, "jane.doe", PostAuthorDisplayName(post))
	})

	t.Run("anonymous collapses to the literal label, company ignored", func(t *testing.T) {
		post := &Post{User: author, IsAnonymous: true}
		assert.Equal(t, "Anonymous", PostAuthorDisplayName(post))
	})
}

func TestCommentAuthorDisplayName(t *testing.T) {
	t.Run("plain nickname when not anonymous", func(t *testing.T) {
		comment := &Comment{User: User{Nickname: "jane.doe", CompanyName: "Acme"}}
		assert.Equal(t, "jane.doe", CommentAuthorDisplayName(comment))
	})

	t.Run("anonymous with company shows the company-scoped pseudonym", func(t *testing.T) {
		comment := &Comment{User: User{Nickname: "jane.doe", CompanyName: "Acme"}, IsAnonymous: true}
		assert.Equal(t, "Acme - jane.doe", CommentAuthorDisplayName(comment))
	})

	t.Run("anonymous without company falls back to the nickname", func(t *testing.T) {
		comment := &Comment{User: User{Nickname: "jane.doe"}, IsAnonymous: true}
		assert.Equal(t, "jane.doe", CommentAuthorDisplayName(comment))
	})
}

func TestIsOriginalPoster(t *testing.T) {
	post := &Post{UserID: 7, IsAnonymous: true}
	assert.True(t, IsOriginalPoster(&Comment{UserID: 7}, post))
	assert.False(t, IsOriginalPoster(&Comment{UserID: 8}, post))
}
