package handlers

import (
	"fmt"
	"hash/fnv"
	"net/http"
	"strings"

	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/models"
	"project-pulse-backend/pkg/realtime"
	"project-pulse-backend/pkg/utils"

	"github.com/go-chi/chi/v5"
)

// BoardsHandler serves board CRUD, workflow editing and legacy settings
type BoardsHandler struct {
	config *config.Config
	db     database.Interface
	hub    *realtime.Hub
}

// NewBoardsHandler creates a boards handler
func NewBoardsHandler(cfg *config.Config, db database.Interface, hub *realtime.Hub) *BoardsHandler {
	return &BoardsHandler{config: cfg, db: db, hub: hub}
}

// normalizeSteps validates submitted steps and assigns slugs/positions.
// Submitted order wins over any client-sent position values.
func normalizeSteps(inputs []models.WorkflowStepInput) ([]models.WorkflowStep, error) {
	if len(inputs) == 0 {
		return nil, fmt.Errorf("workflow needs at least one step")
	}
	seen := make(map[string]struct{}, len(inputs))
	steps := make([]models.WorkflowStep, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, fmt.Errorf("step %d has no name", i+1)
		}
		slug := strings.TrimSpace(in.Slug)
		if slug == "" {
			slug = utils.Slugify(name)
		}
		if slug == "" {
			return nil, fmt.Errorf("step %q yields an empty slug", name)
		}
		if _, dup := seen[slug]; dup {
			return nil, fmt.Errorf("duplicate step slug %q", slug)
		}
		seen[slug] = struct{}{}
		steps = append(steps, models.WorkflowStep{
			Name:          name,
			Slug:          slug,
			ColorDot:      in.ColorDot,
			ColorProgress: in.ColorProgress,
			Position:      i,
		})
	}
	return steps, nil
}

// listETag derives a weak ETag from the board set so clients can skip
// unchanged reloads.
func listETag(boards []models.Board) string {
	h := fnv.New64a()
	for _, b := range boards {
		fmt.Fprintf(h, "%s:%d;", b.ID, b.UpdatedAt.UnixNano())
	}
	return fmt.Sprintf(`W/"%d-%x"`, len(boards), h.Sum64())
}

// ListBoards handles GET /api/boards. Boards are team-global; every
// member sees the same set. ?include_archived=true adds archived ones.
func (h *BoardsHandler) ListBoards(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	includeArchived := utils.GetQueryParam(r, "include_archived", "false") == "true"

	boards, err := h.db.ListBoards(includeArchived)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to list boards: "+err.Error())
		return
	}

	etag := listETag(boards)
	if match := r.Header.Get("If-None-Match"); match != "" && match == etag {
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)

	result := make([]models.BoardWithWorkflow, 0, len(boards))
	for _, b := range boards {
		steps, err := h.db.ListWorkflowSteps(b.ID)
		if err != nil {
			utils.WriteInternalServerErrorResponse(w, "Failed to load workflow: "+err.Error())
			return
		}
		result = append(result, models.BoardWithWorkflow{Board: b, WorkflowSteps: steps})
	}
	utils.WriteSuccessResponse(w, result)
}

// CreateBoard handles POST /api/boards. Admin only. Creating without
// explicit steps applies the default workflow template.
func (h *BoardsHandler) CreateBoard(w http.ResponseWriter, r *http.Request) {
	user, ok := requireAdmin(h.db, w, r)
	if !ok {
		return
	}

	var req models.CreateBoardRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if err := utils.ValidateStruct(&req); err != nil {
		utils.WriteValidationErrorResponse(w, "Invalid board data", err.Error())
		return
	}

	inputs := req.WorkflowSteps
	if len(inputs) == 0 {
		inputs = models.DefaultWorkflowSteps()
	}
	steps, err := normalizeSteps(inputs)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	color := strings.TrimSpace(req.ProjectColor)
	if color == "" {
		color = models.DefaultBoardColor
	}

	board := &models.Board{
		OwnerID:      user.ID,
		Name:         strings.TrimSpace(req.Name),
		TeamTitle:    strings.TrimSpace(req.TeamTitle),
		ProjectColor: color,
	}
	if err := h.db.CreateBoardWithSteps(board, steps); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to create board: "+err.Error())
		return
	}

	result := models.BoardWithWorkflow{Board: *board, WorkflowSteps: steps}
	h.hub.Publish(realtime.Event{Table: "boards", Type: realtime.EventInsert, BoardID: board.ID, ID: board.ID, Record: result})
	utils.WriteCreatedResponse(w, result)
}

// GetBoard handles GET /api/boards/{id}
func (h *BoardsHandler) GetBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := currentUser(h.db, w, r); !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	board, err := h.db.GetBoard(boardID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
		return
	}
	steps, err := h.db.ListWorkflowSteps(boardID)
	if err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to load workflow: "+err.Error())
		return
	}
	utils.WriteSuccessResponse(w, models.BoardWithWorkflow{Board: *board, WorkflowSteps: steps})
}

// UpdateBoard handles PUT /api/boards/{id}. Editors may rename and
// recolor; archiving flips is_archived instead of deleting data.
func (h *BoardsHandler) UpdateBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireEditor(h.db, w, r); !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	board, err := h.db.GetBoard(boardID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load board: "+err.Error())
		return
	}

	var req models.UpdateBoardRequest
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			utils.WriteBadRequestResponse(w, "Board name cannot be empty")
			return
		}
		board.Name = strings.TrimSpace(*req.Name)
	}
	if req.TeamTitle != nil {
		board.TeamTitle = strings.TrimSpace(*req.TeamTitle)
	}
	if req.ProjectColor != nil {
		board.ProjectColor = *req.ProjectColor
	}
	if req.IsArchived != nil {
		board.IsArchived = *req.IsArchived
	}

	if err := h.db.UpdateBoard(board); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to update board: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "boards", Type: realtime.EventUpdate, BoardID: board.ID, ID: board.ID, Record: board})
	utils.WriteSuccessResponse(w, board)
}

// DeleteBoard handles DELETE /api/boards/{id}. Admin only; removes the
// board with its workflow steps and projects.
func (h *BoardsHandler) DeleteBoard(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
		return
	}
	boardID := chi.URLParam(r, "id")

	if err := h.db.DeleteBoard(boardID); err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to delete board: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "boards", Type: realtime.EventDelete, BoardID: boardID, ID: boardID})
	utils.WriteSuccessResponse(w, map[string]string{"id": boardID})
}

// ReplaceWorkflow handles PUT /api/boards/{id}/workflow. Admin only.
// The whole step set is replaced; submitted order defines positions.
func (h *BoardsHandler) ReplaceWorkflow(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireAdmin(h.db, w, r); !ok {
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

	var req struct {
		WorkflowSteps []models.WorkflowStepInput `json:"workflow_steps"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	steps, err := normalizeSteps(req.WorkflowSteps)
	if err != nil {
		utils.WriteBadRequestResponse(w, err.Error())
		return
	}

	if err := h.db.ReplaceWorkflowSteps(boardID, steps); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to replace workflow: "+err.Error())
		return
	}

	h.hub.Publish(realtime.Event{Table: "workflow_steps", Type: realtime.EventUpdate, BoardID: boardID, ID: boardID, Record: steps})
	utils.WriteSuccessResponse(w, steps)
}

// GetSettings handles GET /api/boards/settings, the single-board
// preference row kept for legacy clients.
func (h *BoardsHandler) GetSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := currentUser(h.db, w, r)
	if !ok {
		return
	}
	settings, err := h.db.GetBoardSettings(user.ID)
	if err != nil {
		if isNotFound(err) {
			utils.WriteNotFoundResponse(w, "Board settings not found")
			return
		}
		utils.WriteInternalServerErrorResponse(w, "Failed to load settings: "+err.Error())
		return
	}
	utils.WriteSuccessResponse(w, settings)
}

// UpsertSettings handles PUT /api/boards/settings
func (h *BoardsHandler) UpsertSettings(w http.ResponseWriter, r *http.Request) {
	user, ok := requireEditor(h.db, w, r)
	if !ok {
		return
	}

	var req struct {
		BoardName    string `json:"board_name"`
		TeamTitle    string `json:"team_title"`
		ProjectColor string `json:"project_color"`
	}
	if err := utils.ParseJSONBody(r, &req); err != nil {
		utils.WriteBadRequestResponse(w, "Invalid request body")
		return
	}
	if strings.TrimSpace(req.BoardName) == "" {
		utils.WriteBadRequestResponse(w, "board_name is required")
		return
	}

	settings := &models.BoardSettings{
		OwnerID:      user.ID,
		BoardName:    strings.TrimSpace(req.BoardName),
		TeamTitle:    strings.TrimSpace(req.TeamTitle),
		ProjectColor: req.ProjectColor,
	}
	if err := h.db.UpsertBoardSettings(settings); err != nil {
		utils.WriteInternalServerErrorResponse(w, "Failed to save settings: "+err.Error())
		return
	}
	utils.WriteSuccessResponse(w, settings)
}
