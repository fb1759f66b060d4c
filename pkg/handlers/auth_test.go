package handlers_test

import (
	"net/http"
	"testing"

	"project-pulse-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFirstRegisteredUserBecomesAdmin(t *testing.T) {
	env := newTestEnv(t)

	first := env.register(t, "ana@example.com", "Ana", "")
	assert.Equal(t, models.RoleAdmin, first.User.Role)
	assert.NotEmpty(t, first.AccessToken)
	assert.NotEmpty(t, first.RefreshToken)

	second := env.register(t, "ben@example.com", "Ben", "")
	assert.Equal(t, models.RoleEditor, second.User.Role)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana", "")

	rec, env2 := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
		"name":     "Ana Again",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, env2.Error)
	assert.Equal(t, "CONFLICT", env2.Error.Code)
}

func TestRegisterValidatesPayload(t *testing.T) {
	env := newTestEnv(t)

	rec, out := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    "not-an-email",
		"password": "short",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, out.Error)
	assert.Equal(t, "VALIDATION_ERROR", out.Error.Code)
}

func TestLogin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana", "")

	rec, out := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "hunter2hunter2",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var session models.LoginResponse
	decodeData(t, out, &session)
	assert.Equal(t, "ana@example.com", session.User.Email)
	assert.NotEmpty(t, session.AccessToken)
	require.NotNil(t, session.User.LastActiveAt)
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodPost, "/api/auth/login", "", map[string]string{
		"email":    "ana@example.com",
		"password": "wrong-password",
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestMeRequiresToken(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "ana@example.com", "Ana", "")

	rec, out := env.do(t, http.MethodGet, "/api/auth/me", session.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var user models.User
	decodeData(t, out, &user)
	assert.Equal(t, session.User.ID, user.ID)

	rec, _ = env.do(t, http.MethodGet, "/api/auth/me", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/auth/me", "garbage-token", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "ana@example.com", "Ana", "")

	rec, out := env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": session.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		AccessToken string `json:"access_token"`
	}
	decodeData(t, out, &payload)
	assert.NotEmpty(t, payload.AccessToken)

	// The access token must not work as a refresh token
	rec, _ = env.do(t, http.MethodPost, "/api/auth/refresh", "", map[string]string{
		"refresh_token": session.AccessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "ana@example.com", "Ana", "")

	rec, out := env.do(t, http.MethodPut, "/api/users/profile", session.AccessToken, map[string]string{
		"name":         "Ana Torres",
		"avatar_color": "262 83% 58%",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.User
	decodeData(t, out, &updated)
	assert.Equal(t, "Ana Torres", updated.Name)
	// The response must be the full fresh row, not just the patched fields
	assert.Equal(t, "ana@example.com", updated.Email)
	assert.Equal(t, models.RoleAdmin, updated.Role)
	assert.Equal(t, models.StatusActive, updated.Status)
	assert.False(t, updated.CreatedAt.IsZero())

	fresh, err := env.db.GetUserByID(session.User.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Torres", fresh.Name)
	assert.Equal(t, "262 83% 58%", fresh.AvatarColor)
}

func TestActivityHeartbeat(t *testing.T) {
	env := newTestEnv(t)
	session := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodPost, "/api/users/activity", session.AccessToken, map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code)

	fresh, err := env.db.GetUserByID(session.User.ID)
	require.NoError(t, err)
	assert.NotNil(t, fresh.LastActiveAt)
	assert.Equal(t, models.StatusActive, fresh.Status)
}
