package service

import (
	"testing"
	"time"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func treeComment(id uint, parentID *uint, userID uint, minute int) *models.Comment {
	return &models.Comment{
		ID:       id,
		Content:  "comment",
		UserID:   userID,
		PostID:   1,
		ParentID: parentID,
		User:     models.User{ID: userID, Nickname: "user"},
		Status:   models.CommentStatusActive,
		CreatedAt: time.Date(
			2026, time.March, 1, 12, minute, 0, 0, time.UTC,
		),
	}
}

func uintPtr(v uint) *uint { return &v }

func TestBuildCommentTree_TwoLevels(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	comments := []*models.Comment{
		treeComment(1, nil, 10, 0),
		treeComment(2, nil, 20, 1),
		treeComment(3, uintPtr(1), 20, 2),
		treeComment(4, uintPtr(1), 30, 3),
		treeComment(5, uintPtr(2), 10, 4),
	}

	roots := BuildCommentTree(comments, post, false, CommentSortOldest)
	require.Len(t, roots, 2)

	assert.Equal(t, uint(1), roots[0].ID)
	require.Len(t, roots[0].Replies, 2)
	assert.Equal(t, uint(3), roots[0].Replies[0].ID)
	assert.Equal(t, uint(4), roots[0].Replies[1].ID)
	assert.Equal(t, 2, roots[0].ReplyCount)

	require.Len(t, roots[1].Replies, 1)
	assert.Equal(t, uint(5), roots[1].Replies[0].ID)

	// The post author gets the OP badge wherever they comment.
	assert.True(t, roots[0].IsOriginalPoster)
	assert.False(t, roots[1].IsOriginalPoster)
	assert.True(t, roots[1].Replies[0].IsOriginalPoster)
}

func TestBuildCommentTree_SortOrders(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	a := treeComment(1, nil, 10, 0)
	b := treeComment(2, nil, 20, 1)
	c := treeComment(3, nil, 30, 2)
	b.VoteCount = 5
	a.VoteCount = 5
	c.VoteCount = 2
	comments := []*models.Comment{a, b, c}

	newest := BuildCommentTree(comments, post, false, CommentSortNewest)
	require.Len(t, newest, 3)
	assert.Equal(t, uint(3), newest[0].ID)
	assert.Equal(t, uint(1), newest[2].ID)

	// Popular ranks by vote count; the older comment wins the tie.
	popular := BuildCommentTree(comments, post, false, CommentSortPopular)
	require.Len(t, popular, 3)
	assert.Equal(t, uint(1), popular[0].ID)
	assert.Equal(t, uint(2), popular[1].ID)
	assert.Equal(t, uint(3), popular[2].ID)
}

func TestBuildCommentTree_HiddenVisibility(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	hidden := treeComment(1, nil, 20, 0)
	hidden.Status = models.CommentStatusHidden
	comments := []*models.Comment{
		hidden,
		treeComment(2, nil, 30, 1),
	}

	forMember := BuildCommentTree(comments, post, false, CommentSortOldest)
	require.Len(t, forMember, 1)
	assert.Equal(t, uint(2), forMember[0].ID)

	forModerator := BuildCommentTree(comments, post, true, CommentSortOldest)
	require.Len(t, forModerator, 2)
}

func TestBuildCommentTree_OrphanedRepliesPromoted(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	hiddenParent := treeComment(1, nil, 20, 0)
	hiddenParent.Status = models.CommentStatusHidden
	comments := []*models.Comment{
		hiddenParent,
		treeComment(2, uintPtr(1), 30, 1),
		treeComment(3, uintPtr(99), 30, 2), // parent purged entirely
	}

	roots := BuildCommentTree(comments, post, false, CommentSortOldest)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(2), roots[0].ID)
	assert.Equal(t, uint(3), roots[1].ID)

	// A moderator sees the parent, so its reply re-attaches.
	modRoots := BuildCommentTree(comments, post, true, CommentSortOldest)
	require.Len(t, modRoots, 2)
	assert.Equal(t, uint(1), modRoots[0].ID)
	require.Len(t, modRoots[0].Replies, 1)
	assert.Equal(t, uint(2), modRoots[0].Replies[0].ID)
}

func TestBuildCommentTree_DeletedPlaceholder(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	deleted := treeComment(1, nil, 20, 0)
	deleted.Status = models.CommentStatusDeleted
	deleted.Content = "something regrettable"
	comments := []*models.Comment{
		deleted,
		treeComment(2, uintPtr(1), 30, 1),
	}

	roots := BuildCommentTree(comments, post, false, CommentSortOldest)
	require.Len(t, roots, 1)

	placeholder := roots[0]
	assert.Equal(t, DeletedCommentLabel, placeholder.AuthorDisplayName)
	assert.Empty(t, placeholder.Content)
	assert.Zero(t, placeholder.UserID)
	// Replies stay anchored under the placeholder.
	require.Len(t, placeholder.Replies, 1)
	assert.Equal(t, uint(2), placeholder.Replies[0].ID)
}

func TestBuildCommentTree_UnorderedInput(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	comments := []*models.Comment{
		treeComment(4, uintPtr(2), 30, 4),
		treeComment(2, nil, 20, 1),
		treeComment(3, uintPtr(2), 30, 3),
		treeComment(1, nil, 10, 0),
	}

	roots := BuildCommentTree(comments, post, false, CommentSortOldest)
	require.Len(t, roots, 2)
	assert.Equal(t, uint(1), roots[0].ID)
	assert.Equal(t, uint(2), roots[1].ID)

	// Replies render oldest first no matter how the rows came in.
	require.Len(t, roots[1].Replies, 2)
	assert.Equal(t, uint(3), roots[1].Replies[0].ID)
	assert.Equal(t, uint(4), roots[1].Replies[1].ID)

	// The caller's slice is left as it was.
	assert.Equal(t, uint(4), comments[0].ID)
}

func TestBuildCommentTree_AnonymousDisplayNames(t *testing.T) {
	t.Parallel()

	post := &models.Post{ID: 1, UserID: 10}
	withCompany := treeComment(1, nil, 20, 0)
	withCompany.IsAnonymous = true
	withCompany.User = models.User{ID: 20, Nickname: "kawhi", CompanyName: "Acme"}
	withoutCompany := treeComment(2, nil, 30, 1)
	withoutCompany.IsAnonymous = true
	withoutCompany.User = models.User{ID: 30, Nickname: "jordan"}

	roots := BuildCommentTree([]*models.Comment{withCompany, withoutCompany}, post, false, CommentSortOldest)
	require.Len(t, roots, 2)
	assert.Equal(t, "Acme - kawhi", roots[0].AuthorDisplayName)
	assert.Equal(t, "jordan", roots[1].AuthorDisplayName)
}
