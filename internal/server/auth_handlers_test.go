package server

import (
	"net/http"
	"testing"

	"bulag/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "Sup3r-Secret-Pass!"

func signupBody(nickname, email string) map[string]string {
	return map[string]string{
		"nickname": nickname,
		"email":    email,
		"password": testPassword,
	}
}

func TestSignup(t *testing.T) {
	_, app := newTestServer(t)

	t.Run("creates account and returns token", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
			"nickname":     "kawhi",
			"email":        "kawhi@example.com",
			"password":     testPassword,
			"company_name": "Acme",
		}, "")
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
		user := body["user"].(map[string]any)
		assert.Equal(t, "kawhi", user["nickname"])
		assert.Equal(t, "Acme", user["company_name"])
		assert.Equal(t, "member", user["role"])
		// Password hash must never leak.
		_, exposed := user["password"]
		assert.False(t, exposed)
	})

	t.Run("rejects invalid email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup",
			signupBody("jordan", "not-an-email"), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects weak password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup", map[string]string{
			"nickname": "jordan",
			"email":    "jordan@example.com",
			"password": "short",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup",
			signupBody("someone.else", "kawhi@example.com"), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("rejects taken nickname", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup",
			signupBody("kawhi", "other@example.com"), "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("requires all fields", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/signup",
			map[string]string{"email": "x@example.com"}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestLogin(t *testing.T) {
	s, app := newTestServer(t)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)
	user := &models.User{
		Nickname: "lana",
		Email:    "lana@example.com",
		Password: string(hash),
		Role:     models.RoleMember,
	}
	require.NoError(t, s.db.Create(user).Error)

	t.Run("returns token on valid credentials", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "lana@example.com",
			"password": testPassword,
		}, "")
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		assert.NotEmpty(t, body["token"])
	})

	t.Run("rejects wrong password", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "lana@example.com",
			"password": "Wrong-Password-1!",
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects unknown email", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "ghost@example.com",
			"password": testPassword,
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("rejects suspended account", func(t *testing.T) {
		suspended := &models.User{
			Nickname:    "banned",
			Email:       "banned@example.com",
			Password:    string(hash),
			Role:        models.RoleMember,
			IsSuspended: true,
		}
		require.NoError(t, s.db.Create(suspended).Error)

		resp := doJSON(t, app, http.MethodPost, "/api/auth/login", map[string]string{
			"email":    "banned@example.com",
			"password": testPassword,
		}, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})
}

func TestAuthRequired(t *testing.T) {
	s, app := newTestServer(t)
	user := createUser(t, s, "authcheck", models.RoleMember)

	t.Run("missing token is unauthorized", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, "")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("garbage token is unauthorized", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, "Bearer not.a.jwt")
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid token reaches the handler", func(t *testing.T) {
		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, authHeader(t, s, user))
		require.Equal(t, http.StatusOK, resp.StatusCode)

		body := decodeBody(t, resp)
		data := body["data"].(map[string]any)
		assert.Equal(t, "authcheck", data["nickname"])
	})

	t.Run("token signed with another secret is rejected", func(t *testing.T) {
		other := &Server{config: s.config}
		otherCfg := *s.config
		otherCfg.JWTSecret = "different-secret-0123456789abcdef"
		other.config = &otherCfg

		token, err := other.generateToken(user.ID, user.Nickname)
		require.NoError(t, err)

		resp := doJSON(t, app, http.MethodGet, "/api/users/me", nil, "Bearer "+token)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
