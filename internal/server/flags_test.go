package server

import (
	"net/http"
	"testing"

	"bulag/internal/featureflags"
	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetFeatureFlagsHandler(t *testing.T) {
	s, app := newTestServer(t)
	s.flags = featureflags.NewManager("dark_mode=on,beta_search=off")
	user := createUser(t, s, "flagged", models.RoleMember)

	resp := doJSON(t, app, http.MethodGet, "/api/flags", nil, authHeader(t, s, user))
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	data := body["data"].(map[string]any)
	assert.Equal(t, true, data["dark_mode"])
	assert.Equal(t, false, data["beta_search"])
}

func TestPromotionKillSwitch(t *testing.T) {
	s, app := newTestServer(t)
	s.flags = featureflags.NewManager("kill_promotions=on")
	author := createUser(t, s, "flag.author", models.RoleMember)
	community := createCommunity(t, s, "flagged-feed")
	for i := 0; i < 5; i++ {
		createPost(t, s, author.ID, community.ID, "post")
	}
	require.NoError(t, s.db.Create(&models.Promotion{
		Title:     "Should Not Appear",
		TargetURL: "https://example.com",
		Placement: models.PlacementFeed,
		IsActive:  true,
	}).Error)

	resp := doJSON(t, app, http.MethodGet, "/api/posts", nil, "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body := decodeBody(t, resp)
	items := body["data"].([]any)
	require.Len(t, items, 5)
	for _, item := range items {
		assert.NotEqual(t, "promotion", item.(map[string]any)["type"])
	}
}
