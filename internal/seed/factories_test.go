package seed

import (
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFactoryCreateUser(t *testing.T) {
	db := newTestDB(t)
	factory := NewFactory(db, FactoryOptions{SkipBcrypt: true})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEmpty(t, user.Nickname)
	assert.NotEmpty(t, user.Email)
	assert.Equal(t, models.RoleMember, user.Role)

	admin, err := factory.CreateUser(func(u *models.User) {
		u.Role = models.RoleAdmin
	})
	require.NoError(t, err)
	assert.Equal(t, models.RoleAdmin, admin.Role)
}

func TestFactoryCreatePost(t *testing.T) {
	db := newTestDB(t)
	factory := NewFactory(db, FactoryOptions{SkipBcrypt: true, MaxDays: 30})

	user, err := factory.CreateUser()
	require.NoError(t, err)
	community, err := factory.CreateCommunity()
	require.NoError(t, err)

	post, err := factory.CreatePost(user, community)
	require.NoError(t, err)
	assert.Equal(t, user.ID, post.UserID)
	assert.Equal(t, community.ID, post.CommunityID)
	assert.Equal(t, models.PostStatusActive, post.Status)
	assert.NotEmpty(t, post.Title)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Night Shift", "night-shift"},
		{"Acme, Inc.", "acme-inc"},
		{"  spaced  out  ", "spaced-out"},
		{"A Very Long Community Name Indeed", "a-very-long-community-na"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got := Slugify(tt.in)
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, len(got), 24)
		})
	}
}
