package handlers

import (
	"net/http"
	"strings"
	"time"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/middleware"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"

	"golang.org/x/crypto/bcrypt"
)

// AuthHandler serves registration, login, token refresh and profile routes
type AuthHandler struct {
	config     *config.Config
	db         database.Interface
	hub        *realtime.Hub
	jwtService *utils.JWTService
}

// NewAuthHandler creates an auth handler
func NewAuthHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *AuthHandler {
	return &AuthHandler{
		config:     cfg,
		db:         db,
		hub:        hub,
		jwtService: utils.NewJWTService(cfg.JWTSecret),
	}
}

// avatarColors is cycled by registration order
var avatarColors = []string{
	"217 91% 60%",
	"262 83% 58%",
	"25 95% 53%",
	"330 81% 60%",
	"173 80% 40%",
	"160 84% 39%",
}

// Register handles POST /api/auth/register.
// The first account becomes admin; invited accounts take the invite's
// role; everyone else starts as editor.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid registration data", err.Error())
		return
	}
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if _, err := h.db.GetUserByEmail(req.Email); err == nil {
		utils.WriteConflictResponse(w, "An account with this email already exists")
		return
	}

	role := models.RoleEditor
	var invitation *models.Invitation
	if req.InviteToken != "" {
		inv, err := h.db.GetInvitationByToken(req.InviteToken)
		if err != nil {
			utils.WriteNotFoundResponse(w, "Invitation not found")
			return
		}
		if inv.Status != models.InvitationPending {
			utils.WriteConflictResponse(w, "Invitation is no longer valid")
			return
		}
		if inv.Expired(time.Now()) {
			inv.Status = models.InvitationExpired
			_ = h.db.UpdateInvitation(inv)
			utils.WriteGoneResponse(w, "Invitation has expired")
			return
		}
		if inv.Email != "" && !strings.EqualFold(inv.Email, req.Email) {
			utils.WriteForbiddenResponse(w, "Invitation was issued for a different email address")
			return
		}
		role = inv.Role
		invitation = inv
	}

	count, err := h.db.CountUsers()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to check existing accounts")
		return
	}
	if count == 0 {
		role = models.RoleAdmin
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to secure password")
		return
	}

	user := &models.User{
		Email:       req.Email,
		Password:    string(hashed),
		Name:        req.Name,
		Role:        role,
		AvatarColor: avatarColors[count%len(avatarColors)],
		Status:      models.StatusActive,
	}
	if err := h.db.CreateUser(user); err != nil {
		if strings.Contains(err.Error(), "duplicate") {
			utils.WriteConflictResponse(w, "An account with this email already exists")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to create account: "+err.Error())
		return
	}

	if invitation != nil {
		invitation.Status = models.InvitationAccepted
		_ = h.db.UpdateInvitation(invitation)
	}

	accessToken, refreshToken, expiresIn, err := h.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to issue tokens")
		return
	}

	h.hub.Publish(realtime.Event{Table: "users", Type: realtime.EventInsert, ID: user.ID, Record: user})

	utils.WriteCreatedResponse(w, models.LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// Login handles POST /api/auth/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid login data", err.Error())
		return
	}

	user, err := h.db.GetUserByEmail(strings.ToLower(strings.TrimSpace(req.Email)))
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid email or password")
		return
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid email or password")
		return
	}
	if user.Status == models.StatusInactive {
		utils.WriteForbiddenResponse(w, "Account is deactivated")
		return
	}

	now := time.Now().UTC()
	if err := h.db.TouchUserActivity(user.ID, now); err == nil {
		user.LastActiveAt = &now
		user.Status = models.StatusActive
	}

	accessToken, refreshToken, expiresIn, err := h.jwtService.GenerateTokenPair(user.ID, user.Email)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to issue tokens")
		return
	}

	utils.WriteSuccessResponse(w, models.LoginResponse{
		User:         *user,
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		ExpiresIn:    expiresIn,
	})
}

// RefreshToken handles POST /api/auth/refresh
func (h *AuthHandler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil || req.RefreshToken == "" {
		utils.WriteBadRequestResponse(w, "refresh_token is required")
		return
	}

	accessToken, expiresAt, err := h.jwtService.RefreshAccessToken(req.RefreshToken)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Invalid refresh token")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"access_token": accessToken,
		"expires_in":   expiresAt,
	})
}

// Logout handles POST /api/auth/logout. Tokens are stateless, so this
// only acknowledges; clients discard their pair.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	utils.WriteSuccessResponse(w, map[string]string{"message": "Logged out"})
}

// Me handles GET /api/auth/me
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, w, r)
	if !ok {
		return
	}
	utils.WriteSuccessResponse(w, user)
}

// UpdateProfile handles PUT /api/users/profile
func (h *AuthHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, w, r)
	if !ok {
		return
	}

	var req models.UpdateProfileRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	patch := &models.User{
		ID:          user.ID,
		Name:        strings.TrimSpace(req.Name),
		Avatar:      req.Avatar,
		AvatarColor: req.AvatarColor,
	}
	if err := h.db.UpdateUser(patch); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update profile: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "users", Type: realtime.EventUpdate, ID: patch.ID, Record: patch})
	utils.WriteSuccessResponse(w, patch)
}

// Heartbeat handles POST /api/users/activity; clients ping it so the
// team list can show who is around.
func (h *AuthHandler) Heartbeat(w http.ResponseWriter, r *http.Request) {
	principal, ok := middleware.RequireUser(w, r)
	if !ok {
		return
	}
	now := time.Now().UTC()
	if err := h.db.TouchUserActivity(principal.ID, now); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to record activity")
		return
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{"last_active_at": now})
}

// HealthCheck handles GET /
func (h *AuthHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	dbStatus := "ok"
	if err := h.db.HealthCheck(); err != nil {
		status = "degraded"
		dbStatus = err.Error()
	}
	utils.WriteSuccessResponse(w, map[string]interface{}{
		"status":      status,
		"database":    dbStatus,
		"subscribers": h.hub.SubscriberCount(),
		"time":        time.Now().UTC().Format(time.RFC3339),
	})
}
