package handlers

import (
	"net/http"
	"strings"

	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/middleware"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/utils"
)

// currentUser resolves the authenticated principal to its full profile.
// Token claims only carry id and email; role checks need the stored row.
func currentUser(db database.Interface, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	principal, ok := middleware.RequireUser(w, r)
	if !ok {
		return nil, false
	}
	user, err := db.GetUserByID(principal.ID)
	if err != nil {
		utils.WriteUnauthorizedResponse(w, "Account no longer exists")
		return nil, false
	}
	return user, true
}

// requireAdmin resolves the caller and rejects non-admins
func requireAdmin(db database.Interface, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := currentUser(db, w, r)
	if !ok {
		return nil, false
	}
	if user.Role != models.RoleAdmin {
		utils.WriteForbiddenResponse(w, "Admin privileges required")
		return nil, false
	}
	return user, true
}

// requireEditor rejects viewers; editors and admins pass
func requireEditor(db database.Interface, w http.ResponseWriter, r *http.Request) (*models.User, bool) {
	user, ok := currentUser(db, w, r)
	if !ok {
		return nil, false
	}
	if user.Role == models.RoleViewer {
		utils.WriteForbiddenResponse(w, "Write access required")
		return nil, false
	}
	return user, true
}

// boardStatusSet returns the valid status slugs of a board
func boardStatusSet(db database.Interface, boardID string) (map[string]struct{}, error) {
	steps, err := db.ListWorkflowSteps(boardID)
	if err != nil {
		return nil, err
	}
	set := make(map[string]struct{}, len(steps))
	for _, s := range steps {
		set[s.Slug] = struct{}{}
	}
	return set, nil
}

func isNotFound(err error) bool {
	return err != nil && strings.Contains(err.Error(), "not found")
}
