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
	"github.com/google/uuid"
)

// ProjectsHandler serves project (card) routes
type ProjectsHandler struct {
	config *config.Config
	db     database.Interface
	hub    *realtime.Hub
}

// NewProjectsHandler creates a projects handler
func NewProjectsHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *ProjectsHandler {
	return &ProjectsHandler{config: cfg, db: db, hub: hub}
}

func validDate(s string) bool {
	if s == "" {
		return true
	}
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

// ensureSubTaskIDs fills in ids for checklist items created client-side
// without one.
func ensureSubTaskIDs(subTasks []models.SubTask) []models.SubTask {
	for i := range subTasks {
		if subTasks[i].ID == "" {
			subTasks[i].ID = uuid.New().String()
		}
	}
	return subTasks
}

// ListByBoard handles GET /api/projects?board_id=
func (h *ProjectsHandler) ListByBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	boardID := r.URL.Query().Get("board_id")
	if boardID == "" {
		utils.WriteBadRequestResponse(w, "board_id query parameter is required")
		return
	}
	if _, err := h.db.GetBoard(boardID); err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
		return
	}

	projects, err := h.db.ListProjectsByBoard(boardID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list projects: "+err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	utils.WriteSuccessResponse(w, projects)
}

// ListForBoard handles GET /api/boards/{id}/projects
func (h *ProjectsHandler) ListForBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	boardID := chi.URLParam(r, "id")
	if _, err := h.db.GetBoard(boardID); err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
		return
	}
	projects, err := h.db.ListProjectsByBoard(boardID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list projects: "+err.Error())
		return
	}
	if projects == nil {
		projects = []models.Project{}
	}
	utils.WriteSuccessResponse(w, projects)
}

// Create handles POST /api/boards/{id}/projects. The status must name
// one of the board's workflow step slugs.
func (h *ProjectsHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEditor(h.db, w, r)
	if !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	if _, err := h.db.GetBoard(boardID); err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
		return
	}

	var req models.CreateProjectRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid project data", err.Error())
		return
	}
	if req.Priority != "" && !req.Priority.Valid() {
		utils.WriteBadRequestResponse(w, "Unknown priority: "+string(req.Priority))
		return
	}
	if req.Dependency != "" && !req.Dependency.Valid() {
		utils.WriteBadRequestResponse(w, "Unknown dependency state: "+string(req.Dependency))
		return
	}
	if !validDate(req.StartDate) || !validDate(req.DueDate) {
		utils.WriteBadRequestResponse(w, "Dates must use YYYY-MM-DD")
		return
	}

	statuses, err := boardStatusSet(h.db, boardID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load workflow: "+err.Error())
		return
	}
	if _, ok := statuses[req.Status]; !ok {
		utils.WriteBadRequestResponse(w, "Unknown workflow status: "+req.Status)
		return
	}

	project := &models.Project{
		BoardID:     boardID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      req.Status,
		Priority:    req.Priority,
		Dependency:  req.Dependency,
		AssigneeID:  req.AssigneeID,
		CreatedByID: user.ID,
		StartDate:   req.StartDate,
		DueDate:     req.DueDate,
		SubTasks:    ensureSubTaskIDs(req.SubTasks),
	}
	if err := h.db.CreateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create project: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "projects", Type: realtime.EventInsert, BoardID: boardID, ID: project.ID, Record: project})
	utils.WriteCreatedResponse(w, project)
}

// Get handles GET /api/projects/{id}
func (h *ProjectsHandler) Get(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	project, err := h.db.GetProject(chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Project not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load project: "+err.Error())
		return
	}
	utils.WriteSuccessResponse(w, project)
}

// Update handles PUT /api/projects/{id}. Partial patch; a status change
// is validated against the board's workflow.
func (h *ProjectsHandler) Update(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(h.db, w, r); !ok {
		return
	}
	project, err := h.db.GetProject(chi.URLParam(r, "id"))
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Project not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load project: "+err.Error())
		return
	}

	var req models.UpdateProjectRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}

	if req.Title != nil {
		if strings.TrimSpace(*req.Title) == "" {
			utils.WriteBadRequestResponse(w, "Title cannot be empty")
			return
		}
		project.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		project.Description = *req.Description
	}
	if req.Status != nil {
		statuses, err := boardStatusSet(h.db, project.BoardID)
		if err != nil {
			utils.WriteInternalServerErrorResponse(w, "Failed to load workflow: "+err.Error())
			return
		}
		if _, ok := statuses[*req.Status]; !ok {
			utils.WriteBadRequestResponse(w, "Unknown workflow status: "+*req.Status)
			return
		}
		project.Status = *req.Status
	}
	if req.Priority != nil {
		if !req.Priority.Valid() {
			utils.WriteBadRequestResponse(w, "Unknown priority: "+string(*req.Priority))
			return
		}
		project.Priority = *req.Priority
	}
	if req.Dependency != nil {
		if !req.Dependency.Valid() {
			utils.WriteBadRequestResponse(w, "Unknown dependency state: "+string(*req.Dependency))
			return
		}
		project.Dependency = *req.Dependency
	}
	if req.AssigneeID != nil {
		project.AssigneeID = *req.AssigneeID
	}
	if req.StartDate != nil {
		if !validDate(*req.StartDate) {
			utils.WriteBadRequestResponse(w, "Dates must use YYYY-MM-DD")
			return
		}
		project.StartDate = *req.StartDate
	}
	if req.DueDate != nil {
		if !validDate(*req.DueDate) {
			utils.WriteBadRequestResponse(w, "Dates must use YYYY-MM-DD")
			return
		}
		project.DueDate = *req.DueDate
	}
	if req.SubTasks != nil {
		project.SubTasks = ensureSubTaskIDs(*req.SubTasks)
	}

	if err := h.db.UpdateProject(project); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update project: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "projects", Type: realtime.EventUpdate, BoardID: project.BoardID, ID: project.ID, Record: project})
	utils.WriteSuccessResponse(w, project)
}

// Delete handles DELETE /api/projects/{id}
func (h *ProjectsHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(h.db, w, r); !ok {
		return
	}
	projectID := chi.URLParam(r, "id")

	project, err := h.db.GetProject(projectID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Project not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load project: "+err.Error())
		return
	}

	if err := h.db.DeleteProject(projectID); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to delete project: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "projects", Type: realtime.EventDelete, BoardID: project.BoardID, ID: projectID})
	utils.WriteSuccessResponse(w, map[string]string{"id": projectID})
}

// Move handles PATCH /api/projects/{id}/move, the drag-and-drop status
// change. Unknown slugs are rejected, never written through.
func (h *ProjectsHandler) Move(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(h.db, w, r); !ok {
		return
	}
	projectID := chi.URLParam(r, "id")

	project, err := h.db.GetProject(projectID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Project not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load project: "+err.Error())
		return
	}

	var req models.MoveProjectRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid move data", err.Error())
		return
	}

	statuses, err := boardStatusSet(h.db, project.BoardID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load workflow: "+err.Error())
		return
	}
	if _, ok := statuses[req.Status]; !ok {
		utils.WriteBadRequestResponse(w, "Unknown workflow status: "+req.Status)
		return
	}

	moved, err := h.db.UpdateProjectStatus(projectID, req.Status)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to move project: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "projects", Type: realtime.EventUpdate, BoardID: moved.BoardID, ID: moved.ID, Record: moved})
	utils.WriteSuccessResponse(w, moved)
}

// ToggleSubTask handles POST /api/projects/{id}/subtasks/{subTaskId}/toggle.
// The flip happens in storage keyed by subtask id, so two members
// toggling different items at once both land.
func (h *ProjectsHandler) ToggleSubTask(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(h.db, w, r); !ok {
		return
	}
	projectID := chi.URLParam(r, "id")
	subTaskID := chi.URLParam(r, "subTaskId")

	project, err := h.db.ToggleSubTask(projectID, subTaskID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, err.Error())
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to toggle sub task: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "projects", Type: realtime.EventUpdate, BoardID: project.BoardID, ID: project.ID, Record: project})
	utils.WriteSuccessResponse(w, project)
}
