package handlers

import (
	"net/http"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// MembersHandler serves the team roster routes
type MembersHandler struct {
	config *config.Config
	db     database.Interface
	hub    *realtime.Hub
}

// NewMembersHandler creates a members handler
func NewMembersHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *MembersHandler {
	return &MembersHandler{config: cfg, db: db, hub: hub}
}

// List handles GET /api/team. Every member sees the whole roster.
func (h *MembersHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	users, err := h.db.ListUsers()
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list team members: "+err.Error())
		return
	}
	utils.WriteSuccessResponse(w, users)
}

// UpdateRole handles PUT /api/team/{id}/role. Admin only; an admin
// cannot demote themselves, so the team always keeps one admin.
func (h *MembersHandler) UpdateRole(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.db, w, r)
	if !ok {
		return
	}
	memberID := chi.URLParam(r, "id")

	var req struct {
		Role models.UserRole `json:"role"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if !req.Role.Valid() {
		utils.WriteBadRequestResponse(w, "Unknown role: "+string(req.Role))
		return
	}
	if memberID == admin.ID && req.Role != models.RoleAdmin {
		utils.WriteConflictResponse(w, "Admins cannot demote themselves")
		return
	}

	member, err := h.db.GetUserByID(memberID)
	if err != nil {
		utils.WriteNotFoundResponse(w, "Team member not found")
		return
	}

	patch := &models.User{ID: member.ID, Role: req.Role}
	if err := h.db.UpdateUser(patch); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update role: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "users", Type: realtime.EventUpdate, ID: patch.ID, Record: patch})
	utils.WriteSuccessResponse(w, patch)
}

// Remove handles DELETE /api/team/{id}. Admin only; self-removal is
// rejected for the same keep-one-admin reason.
func (h *MembersHandler) Remove(w http.ResponseWriter, r *http.Request) {
	admin, ok := requireAdmin(h.db, w, r)
	if !ok {
		return
	}
	memberID := chi.URLParam(r, "id")
	if memberID == admin.ID {
		utils.WriteConflictResponse(w, "Admins cannot remove themselves")
		return
	}

	if err := h.db.DeleteUser(memberID); err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Team member not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to remove team member: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "users", Type: realtime.EventDelete, ID: memberID})
	utils.WriteSuccessResponse(w, map[string]string{"id": memberID})
}
