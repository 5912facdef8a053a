package repository

import (
	"context"
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCommentRepository_ListByPost_OrderAndMyVote(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := NewCommentRepository(testDB)

	author := createTestUser(t, "op")
	reader := createTestUser(t, "reader")
	community := createTestCommunity(t, "threads")
	post := createTestPost(t, author.ID, community.ID, "threaded post")

	first := createTestComment(t, author.ID, post.ID, nil, "first")
	second := createTestComment(t, reader.ID, post.ID, nil, "second")
	reply := createTestComment(t, reader.ID, post.ID, &first.ID, "a reply")

	require.NoError(t, testDB.Create(&models.Vote{
		UserID: reader.ID, TargetType: models.VoteTargetComment, TargetID: first.ID, Value: models.VoteUp,
	}).Error)

	comments, err := repo.ListByPost(ctx, post.ID, reader.ID)
	require.NoError(t, err)
	require.Len(t, comments, 3)

	// Oldest first, insertion order breaking timestamp ties
	assert.Equal(t, first.ID, comments[0].ID)
	assert.Equal(t, second.ID, comments[1].ID)
	assert.Equal(t, reply.ID, comments[2].ID)

	assert.Equal(t, models.VoteUp, comments[0].MyVote)
	assert.Equal(t, models.VoteNone, comments[1].MyVote)
	assert.Equal(t, author.Nickname, comments[0].User.Nickname)
}

func TestCommentRepository_UpdateStatus(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := NewCommentRepository(testDB)

	user := createTestUser(t, "mod-target")
	community := createTestCommunity(t, "status")
	post := createTestPost(t, user.ID, community.ID, "status post")
	comment := createTestComment(t, user.ID, post.ID, nil, "soon hidden")

	require.NoError(t, repo.UpdateStatus(ctx, comment.ID, models.CommentStatusHidden))

	got, err := repo.GetByID(ctx, comment.ID)
	require.NoError(t, err)
	assert.Equal(t, models.CommentStatusHidden, got.Status)

	err = repo.UpdateStatus(ctx, 9999, models.CommentStatusHidden)
	var appErr *models.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, models.CodeNotFound, appErr.Code)
}

func TestCommentRepository_Purge_LeavesReplies(t *testing.T) {
	cleanTables(t)
	ctx := context.Background()
	repo := NewCommentRepository(testDB)

	user := createTestUser(t, "purged-commenter")
	community := createTestCommunity(t, "cpurge")
	post := createTestPost(t, user.ID, community.ID, "purge post")
	parent := createTestComment(t, user.ID, post.ID, nil, "parent")
	reply := createTestComment(t, user.ID, post.ID, &parent.ID, "orphan to be")

	require.NoError(t, testDB.Create(&models.Vote{
		UserID: user.ID, TargetType: models.VoteTargetComment, TargetID: parent.ID, Value: models.VoteUp,
	}).Error)

	require.NoError(t, repo.Purge(ctx, parent.ID))

	_, err := repo.GetByID(ctx, parent.ID)
	require.Error(t, err)

	// The reply row survives with its dangling parent reference
	got, err := repo.GetByID(ctx, reply.ID)
	require.NoError(t, err)
	require.NotNil(t, got.ParentID)
	assert.Equal(t, parent.ID, *got.ParentID)

	var voteCount int64
	require.NoError(t, testDB.Model(&models.Vote{}).Count(&voteCount).Error)
	assert.Zero(t, voteCount)
}
