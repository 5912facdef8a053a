package server

import (
	"fmt"
	"net/http"
	"testing"

	"bulag/internal/models"
	"bulag/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateCommentHandler(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "commenter", models.RoleMember)
	community := createCommunity(t, s, "talk")
	post := createPost(t, s, author.ID, community.ID, "discuss")

	commentsPath := fmt.Sprintf("/api/posts/%d/comments", post.ID)
	auth := authHeader(t, s, author)

	t.Run("creates a top-level comment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content":      "first!",
			"is_anonymous": true,
		}, auth)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, "first!", data["content"])
		assert.Equal(t, true, data["is_anonymous"])
	})

	t.Run("creates a reply to a top-level comment", func(t *testing.T) {
		parent := createComment(t, s, author.ID, post.ID, nil, "parent")
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content":   "reply",
			"parent_id": parent.ID,
		}, auth)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("rejects a reply to a reply", func(t *testing.T) {
		parent := createComment(t, s, author.ID, post.ID, nil, "top")
		reply := createComment(t, s, author.ID, post.ID, &parent.ID, "nested")

		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content":   "too deep",
			"parent_id": reply.ID,
		}, auth)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects blank content", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content": "   ",
		}, auth)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("requires authentication", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, commentsPath, map[string]any{
			"content": "anon",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}

func TestGetCommentsHandler(t *testing.T) {
	s, app := newTestServer(t)
	op := createUser(t, s, "op.user", models.RoleMember)
	replier := createUser(t, s, "replier", models.RoleMember)
	community := createCommunity(t, s, "threads")
	post := createPost(t, s, op.ID, community.ID, "threaded")

	parent := createComment(t, s, op.ID, post.ID, nil, "top level")
	createComment(t, s, replier.ID, post.ID, &parent.ID, "a reply")

	t.Run("returns the two-level tree with OP badge", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/posts/%d/comments", post.ID), nil, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		tree := body["data"].([]any)
		require.Len(t, tree, 1)

		top := tree[0].(map[string]any)
		assert.Equal(t, "top level", top["content"])
		assert.Equal(t, true, top["is_original_poster"])

		replies := top["replies"].([]any)
		require.Len(t, replies, 1)
		reply := replies[0].(map[string]any)
		assert.Equal(t, "a reply", reply["content"])
		assert.Equal(t, false, reply["is_original_poster"])
	})

	t.Run("deleted comment is scrubbed to a placeholder", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodDelete,
			fmt.Sprintf("/api/comments/%d", parent.ID), nil, authHeader(t, s, op))
		defer func() { _ = resp.Body.Close() }()
		require.Equal(t, http.StatusOK, resp.StatusCode)

		getResp := doJSON(t, app, http.MethodGet,
			fmt.Sprintf("/api/posts/%d/comments", post.ID), nil, "")
		require.Equal(t, http.StatusOK, getResp.StatusCode)

		body := decodeBody(t, getResp)
		tree := body["data"].([]any)
		require.Len(t, tree, 1)

		top := tree[0].(map[string]any)
		assert.Empty(t, top["content"])
		assert.Equal(t, service.DeletedCommentLabel, top["author_display_name"])
		// The reply stays anchored under the placeholder.
		assert.Len(t, top["replies"].([]any), 1)
	})

	t.Run("unknown post is 404", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/posts/9999/comments", nil, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateCommentHandler(t *testing.T) {
	s, app := newTestServer(t)
	author := createUser(t, s, "editor", models.RoleMember)
	moderator := createUser(t, s, "modperson", models.RoleModerator)
	community := createCommunity(t, s, "edits")
	post := createPost(t, s, author.ID, community.ID, "editable comments")
	comment := createComment(t, s, author.ID, post.ID, nil, "typo here")

	path := fmt.Sprintf("/api/comments/%d", comment.ID)

	t.Run("author can edit", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, path, map[string]string{
			"content": "typo fixed",
		}, authHeader(t, s, author))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, "typo fixed", data["content"])
	})

	t.Run("moderators cannot edit someone else's comment", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPatch, path, map[string]string{
			"content": "mod override",
		}, authHeader(t, s, moderator))
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}
