package handlers_test

import (
	"net/http"
	"testing"

	"project-pulse-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListTeamMembers(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	env.register(t, "ben@example.com", "Ben", "")

	rec, out := env.do(t, http.MethodGet, "/api/team", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var members []models.User
	decodeData(t, out, &members)
	require.Len(t, members, 2)
	assert.Equal(t, "ana@example.com", members[0].Email, "roster is ordered by join date")
}

func TestUpdateMemberRole(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	editor := env.register(t, "ben@example.com", "Ben", "")

	rec, _ := env.do(t, http.MethodPut, "/api/team/"+editor.User.ID+"/role", admin.AccessToken, map[string]string{
		"role": "viewer",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	fresh, err := env.db.GetUserByID(editor.User.ID)
	require.NoError(t, err)
	assert.Equal(t, models.RoleViewer, fresh.Role)

	rec, _ = env.do(t, http.MethodPut, "/api/team/"+editor.User.ID+"/role", admin.AccessToken, map[string]string{
		"role": "superuser",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRoleChangeRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	editor := env.register(t, "ben@example.com", "Ben", "")

	rec, _ := env.do(t, http.MethodPut, "/api/team/"+admin.User.ID+"/role", editor.AccessToken, map[string]string{
		"role": "viewer",
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestAdminCannotDemoteThemselves(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodPut, "/api/team/"+admin.User.ID+"/role", admin.AccessToken, map[string]string{
		"role": "editor",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestRemoveMember(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	editor := env.register(t, "ben@example.com", "Ben", "")

	rec, _ := env.do(t, http.MethodDelete, "/api/team/"+editor.User.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, err := env.db.GetUserByID(editor.User.ID)
	assert.Error(t, err)

	// A removed member's token no longer resolves to an account
	rec, _ = env.do(t, http.MethodGet, "/api/auth/me", editor.AccessToken, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAdminCannotRemoveThemselves(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodDelete, "/api/team/"+admin.User.ID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}
