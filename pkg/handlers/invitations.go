package handlers

import (
	"net/http"
	"strings"
	"time"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// InvitationsHandler serves invite creation, listing and verification
type InvitationsHandler struct {
	config *config.Config
	db     database.Interface
	hub    *realtime.Hub
}

// NewInvitationsHandler creates an invitations handler
func NewInvitationsHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *InvitationsHandler {
	return &InvitationsHandler{config: cfg, db: db, hub: hub}
}

// invitationWithLink decorates an invitation with the signup URL the
// admin copies or forwards.
type invitationWithLink struct {
	models.Invitation
	SignupURL string `json:"signup_url"`
}

// Create handles POST /api/invitations. Admin only. Email empty means
// magic-link mode: the returned URL is the only way in.
func (h *InvitationsHandler) Create(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.db, w, r)
	if !ok {
		return
	}

	var req models.CreateInvitationRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid invitation data", err.Error())
		return
	}
	if !req.Role.Valid() {
		utils.WriteBadRequestResponse(w, "Unknown role: "+string(req.Role))
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email != "" {
		if _, err := h.db.GetUserByEmail(email); err == nil {
			utils.WriteConflictResponse(w, "A member with this email already exists")
			return
		}
	}

	token, err := utils.GenerateURLToken(24)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to generate invitation token")
		return
	}

	inv := &models.Invitation{
		Email:     email,
		Role:      req.Role,
		InvitedBy: admin.ID,
		Token:     token,
		Status:    models.InvitationPending,
		ExpiresAt: time.Now().UTC().Add(models.InvitationTTL),
	}
	if err := h.db.CreateInvitation(inv); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create invitation: "+err.Error())
		return
	}

	result := invitationWithLink{Invitation: *inv, SignupURL: h.config.SignupURL(inv.Token)}
	h.hub.Publish(realtime.Event{Table: "invitations", Type: realtime.EventInsert, ID: inv.ID, Record: inv})
	utils.WriteCreatedResponse(w, result)
}

// ListPending handles GET /api/invitations. Admin only.
func (h *InvitationsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}
	invitations, err := h.db.ListPendingInvitations()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list invitations: "+err.Error())
		return
	}
	result := make([]invitationWithLink, 0, len(invitations))
	for _, inv := range invitations {
		result = append(result, invitationWithLink{Invitation: inv, SignupURL: h.config.SignupURL(inv.Token)})
	}
	utils.WriteSuccessResponse(w, result)
}

// Cancel handles DELETE /api/invitations/{id}. Admin only; the token
// stays in storage with status cancelled so verify can explain itself.
func (h *InvitationsHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}
	inv, err := h.db.GetInvitationByID(chi.URLParam(r, "id"))
	if err != nil {
		utils.WriteNotFoundResponse(w, "Invitation not found")
		return
	}
	if inv.Status != models.InvitationPending {
		utils.WriteConflictResponse(w, "Only pending invitations can be cancelled")
		return
	}

	inv.Status = models.InvitationCancelled
	if err := h.db.UpdateInvitation(inv); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to cancel invitation: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "invitations", Type: realtime.EventUpdate, ID: inv.ID, Record: inv})
	utils.WriteSuccessResponse(w, inv)
}

// Verify handles GET /api/invitations/verify?token=. Unauthenticated;
// the signup page calls it before rendering. Expiry is checked lazily
// here, flipping the stored status on first sight.
func (h *InvitationsHandler) Verify(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		utils.WriteBadRequestResponse(w, "token query parameter is required")
		return
	}

	inv, err := h.db.GetInvitationByToken(token)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Invitation not found")
		return
	}

	switch inv.Status {
	case models.InvitationPending:
		if inv.Expired(time.Now()) {
			inv.Status = models.InvitationExpired
			_ = h.db.UpdateInvitation(inv)
			utils.WriteGoneResponse(w, "Invitation has expired")
			return
		}
	case models.InvitationExpired:
		utils.WriteGoneResponse(w, "Invitation has expired")
		return
	case models.InvitationAccepted:
		utils.WriteConflictResponse(w, "Invitation has already been used")
		return
	case models.InvitationCancelled:
		utils.WriteConflictResponse(w, "Invitation was cancelled")
		return
	}

	utils.WriteSuccessResponse(w, map[string]interface{}{
		"email":      inv.Email,
		"role":       inv.Role,
		"expires_at": inv.ExpiresAt,
	})
}
