package handlers_test

import (
	"net/http"
	"testing"
	"time"

	"project-pulse-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type invitationResponse struct {
	models.Invitation
	SignupURL string `json:"signup_url"`
}

func (e *testEnv) createInvitation(t *testing.T, token string, body map[string]string) invitationResponse {
	t.Helper()
	rec, out := e.do(t, http.MethodPost, "/api/invitations", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var inv invitationResponse
	decodeData(t, out, &inv)
	return inv
}

func TestCreateMagicLinkInvitation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	inv := env.createInvitation(t, admin.AccessToken, map[string]string{"role": "editor"})
	assert.Empty(t, inv.Email)
	assert.Equal(t, models.RoleEditor, inv.Role)
	assert.Equal(t, models.InvitationPending, inv.Status)
	assert.NotEmpty(t, inv.Token)
	assert.Contains(t, inv.SignupURL, "https://pulse.example.com/signup?invite="+inv.Token)
	assert.WithinDuration(t, time.Now().Add(models.InvitationTTL), inv.ExpiresAt, time.Minute)
}

func TestCreateInvitationRejectsExistingMember(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodPost, "/api/invitations", admin.AccessToken, map[string]string{
		"email": "ana@example.com",
		"role":  "editor",
	})
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestCreateInvitationRequiresAdmin(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "ana@example.com", "Ana", "")
	editor := env.register(t, "ben@example.com", "Ben", "")

	rec, _ := env.do(t, http.MethodPost, "/api/invitations", editor.AccessToken, map[string]string{"role": "editor"})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestVerifyInvitation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	inv := env.createInvitation(t, admin.AccessToken, map[string]string{
		"email": "new@example.com",
		"role":  "viewer",
	})

	// Verify is public, no token needed
	rec, out := env.do(t, http.MethodGet, "/api/invitations/verify?token="+inv.Token, "", nil)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var payload struct {
		Email string          `json:"email"`
		Role  models.UserRole `json:"role"`
	}
	decodeData(t, out, &payload)
	assert.Equal(t, "new@example.com", payload.Email)
	assert.Equal(t, models.RoleViewer, payload.Role)

	rec, _ = env.do(t, http.MethodGet, "/api/invitations/verify?token=bogus", "", nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestVerifyExpiredInvitationLazily(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	// Seed an invitation already past its expiry
	expired := &models.Invitation{
		Role:      models.RoleEditor,
		InvitedBy: admin.User.ID,
		Token:     "expired-token",
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.CreateInvitation(expired))

	rec, out := env.do(t, http.MethodGet, "/api/invitations/verify?token=expired-token", "", nil)
	assert.Equal(t, http.StatusGone, rec.Code)
	require.NotNil(t, out.Error)
	assert.Equal(t, "GONE", out.Error.Code)

	// Expiry was written through on first sight
	fresh, err := env.db.GetInvitationByToken("expired-token")
	require.NoError(t, err)
	assert.Equal(t, models.InvitationExpired, fresh.Status)
}

func TestRegisterWithExpiredInvitation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	expired := &models.Invitation{
		Role:      models.RoleEditor,
		InvitedBy: admin.User.ID,
		Token:     "expired-token",
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, env.db.CreateInvitation(expired))

	rec, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        "late@example.com",
		"password":     "hunter2hunter2",
		"name":         "Late",
		"invite_token": "expired-token",
	})
	assert.Equal(t, http.StatusGone, rec.Code)
}

func TestInvitationIsSingleUse(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	inv := env.createInvitation(t, admin.AccessToken, map[string]string{"role": "editor"})

	env.register(t, "first@example.com", "First", inv.Token)

	// Second redemption is rejected
	rec, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        "second@example.com",
		"password":     "hunter2hunter2",
		"name":         "Second",
		"invite_token": inv.Token,
	})
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/invitations/verify?token="+inv.Token, "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestInvitationEmailMustMatch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	inv := env.createInvitation(t, admin.AccessToken, map[string]string{
		"email": "intended@example.com",
		"role":  "editor",
	})

	rec, _ := env.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        "impostor@example.com",
		"password":     "hunter2hunter2",
		"name":         "Impostor",
		"invite_token": inv.Token,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestCancelInvitation(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	inv := env.createInvitation(t, admin.AccessToken, map[string]string{"role": "editor"})

	rec, _ := env.do(t, http.MethodDelete, "/api/invitations/"+inv.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/invitations/verify?token="+inv.Token, "", nil)
	assert.Equal(t, http.StatusConflict, rec.Code)

	// Cancelling twice conflicts
	rec, _ = env.do(t, http.MethodDelete, "/api/invitations/"+inv.ID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func TestListPendingInvitations(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	env.createInvitation(t, admin.AccessToken, map[string]string{"role": "editor"})
	used := env.createInvitation(t, admin.AccessToken, map[string]string{"role": "viewer"})
	env.register(t, "used@example.com", "Used", used.Token)

	rec, out := env.do(t, http.MethodGet, "/api/invitations", admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var invitations []invitationResponse
	decodeData(t, out, &invitations)
	require.Len(t, invitations, 1)
	assert.Equal(t, models.InvitationPending, invitations[0].Status)
	assert.NotEmpty(t, invitations[0].SignupURL)
}
