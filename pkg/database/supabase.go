package database

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"project-pulse-backend/pkg/models"
)

// SupabaseDatabase talks to Supabase's PostgREST endpoint. Used for
// hosted deployments without a direct Postgres connection; note that
// multi-row writes are not transactional over REST.
type SupabaseDatabase struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// NewSupabaseDatabase creates a Supabase REST backend
func NewSupabaseDatabase(u, key string) Interface {
	if !strings.HasPrefix(u, "http") {
		u = "https://" + u
	}

	return &SupabaseDatabase{
		baseURL: strings.TrimRight(u, "/"),
		apiKey:  key,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// makeRequest sends a request to PostgREST and returns the raw body
func (db *SupabaseDatabase) makeRequest(method, endpoint string, body interface{}) ([]byte, error) {
	var reqBody io.Reader

	if body != nil {
		jsonData, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reqBody = bytes.NewBuffer(jsonData)
	}

	req, err := http.NewRequest(method, db.baseURL+"/rest/v1"+endpoint, reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("apikey", db.apiKey)
	req.Header.Set("Authorization", "Bearer "+db.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation")

	resp, err := db.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ================= Row codecs =================

// supabaseUserRow maps the users table; password_hash never crosses the
// API boundary via models.User's json tags, so it needs its own codec.
type supabaseUserRow struct {
	ID           string     `json:"id,omitempty"`
	Email        string     `json:"email"`
	PasswordHash string     `json:"password_hash"`
	Name         string     `json:"name"`
	Role         string     `json:"role"`
	Avatar       string     `json:"avatar"`
	AvatarColor  string     `json:"avatar_color"`
	Status       string     `json:"status"`
	LastActiveAt *time.Time `json:"last_active_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at,omitempty"`
	UpdatedAt    time.Time  `json:"updated_at,omitempty"`
}

func (r *supabaseUserRow) toModel() models.User {
	return models.User{
		ID:           r.ID,
		Email:        r.Email,
		Password:     r.PasswordHash,
		Name:         r.Name,
		Role:         models.UserRole(r.Role),
		Avatar:       r.Avatar,
		AvatarColor:  r.AvatarColor,
		Status:       models.UserStatus(r.Status),
		LastActiveAt: r.LastActiveAt,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
}

func decodeRows[T any](data []byte) ([]T, error) {
	var rows []T
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("failed to decode rows: %w", err)
	}
	return rows, nil
}

func firstRow[T any](data []byte, notFound string) (*T, error) {
	rows, err := decodeRows[T](data)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s", notFound)
	}
	return &rows[0], nil
}

// ================= Users =================

func (db *SupabaseDatabase) CreateUser(user *models.User) error {
	if user.Role == "" {
		user.Role = models.RoleEditor
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	payload := map[string]interface{}{
		"email":         user.Email,
		"password_hash": user.Password,
		"name":          user.Name,
		"role":          string(user.Role),
		"avatar":        user.Avatar,
		"avatar_color":  user.AvatarColor,
		"status":        string(user.Status),
	}
	data, err := db.makeRequest("POST", "/users", payload)
	if err != nil {
		return err
	}
	row, err := firstRow[supabaseUserRow](data, "user not created")
	if err != nil {
		return err
	}
	*user = row.toModel()
	return nil
}

func (db *SupabaseDatabase) GetUserByEmail(email string) (*models.User, error) {
	data, err := db.makeRequest("GET", "/users?email=eq."+url.QueryEscape(email), nil)
	if err != nil {
		return nil, err
	}
	row, err := firstRow[supabaseUserRow](data, "user not found")
	if err != nil {
		return nil, err
	}
	u := row.toModel()
	return &u, nil
}

func (db *SupabaseDatabase) GetUserByID(id string) (*models.User, error) {
	data, err := db.makeRequest("GET", "/users?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}
	row, err := firstRow[supabaseUserRow](data, "user not found")
	if err != nil {
		return nil, err
	}
	u := row.toModel()
	return &u, nil
}

func (db *SupabaseDatabase) UpdateUser(user *models.User) error {
	payload := map[string]interface{}{
		"updated_at": time.Now().UTC(),
	}
	if user.Name != "" {
		payload["name"] = user.Name
	}
	if user.Avatar != "" {
		payload["avatar"] = user.Avatar
	}
	if user.AvatarColor != "" {
		payload["avatar_color"] = user.AvatarColor
	}
	if user.Role != "" {
		payload["role"] = string(user.Role)
	}
	if user.Status != "" {
		payload["status"] = string(user.Status)
	}
	data, err := db.makeRequest("PATCH", "/users?id=eq."+url.QueryEscape(user.ID), payload)
	if err != nil {
		return err
	}
	row, err := firstRow[supabaseUserRow](data, "user not found")
	if err != nil {
		return err
	}
	*user = row.toModel()
	return nil
}

func (db *SupabaseDatabase) DeleteUser(id string) error {
	data, err := db.makeRequest("DELETE", "/users?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return err
	}
	if _, err := firstRow[supabaseUserRow](data, "user not found"); err != nil {
		return err
	}
	return nil
}

func (db *SupabaseDatabase) ListUsers() ([]models.User, error) {
	data, err := db.makeRequest("GET", "/users?order=created_at.asc", nil)
	if err != nil {
		return nil, err
	}
	rows, err := decodeRows[supabaseUserRow](data)
	if err != nil {
		return nil, err
	}
	result := make([]models.User, 0, len(rows))
	for i := range rows {
		result = append(result, rows[i].toModel())
	}
	return result, nil
}

func (db *SupabaseDatabase) CountUsers() (int, error) {
	users, err := db.ListUsers()
	if err != nil {
		return 0, err
	}
	return len(users), nil
}

func (db *SupabaseDatabase) TouchUserActivity(id string, at time.Time) error {
	_, err := db.makeRequest("PATCH", "/users?id=eq."+url.QueryEscape(id), map[string]interface{}{
		"last_active_at": at.UTC(),
		"status":         "active",
		"updated_at":     time.Now().UTC(),
	})
	return err
}

// ================= Boards & Workflow Steps =================

func (db *SupabaseDatabase) CreateBoardWithSteps(board *models.Board, steps []models.WorkflowStep) error {
	data, err := db.makeRequest("POST", "/boards", map[string]interface{}{
		"owner_id":      board.OwnerID,
		"name":          board.Name,
		"team_title":    board.TeamTitle,
		"project_color": board.ProjectColor,
		"is_archived":   false,
	})
	if err != nil {
		return err
	}
	created, err := firstRow[models.Board](data, "board not created")
	if err != nil {
		return err
	}
	*board = *created

	if len(steps) == 0 {
		return nil
	}
	payload := make([]map[string]interface{}, 0, len(steps))
	for i := range steps {
		steps[i].BoardID = board.ID
		payload = append(payload, map[string]interface{}{
			"board_id":       board.ID,
			"name":           steps[i].Name,
			"slug":           steps[i].Slug,
			"color_dot":      steps[i].ColorDot,
			"color_progress": steps[i].ColorProgress,
			"position":       steps[i].Position,
		})
	}
	data, err = db.makeRequest("POST", "/workflow_steps", payload)
	if err != nil {
		return fmt.Errorf("board %s created but workflow steps failed: %w", board.ID, err)
	}
	inserted, err := decodeRows[models.WorkflowStep](data)
	if err == nil && len(inserted) == len(steps) {
		copy(steps, inserted)
	}
	return nil
}

func (db *SupabaseDatabase) GetBoard(id string) (*models.Board, error) {
	data, err := db.makeRequest("GET", "/boards?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return firstRow[models.Board](data, "board not found")
}

func (db *SupabaseDatabase) ListBoards(includeArchived bool) ([]models.Board, error) {
	endpoint := "/boards?order=created_at.desc"
	if !includeArchived {
		endpoint += "&is_archived=eq.false"
	}
	data, err := db.makeRequest("GET", endpoint, nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[models.Board](data)
}

func (db *SupabaseDatabase) UpdateBoard(board *models.Board) error {
	payload := map[string]interface{}{
		"is_archived": board.IsArchived,
		"updated_at":  time.Now().UTC(),
	}
	if board.Name != "" {
		payload["name"] = board.Name
	}
	if board.TeamTitle != "" {
		payload["team_title"] = board.TeamTitle
	}
	if board.ProjectColor != "" {
		payload["project_color"] = board.ProjectColor
	}
	data, err := db.makeRequest("PATCH", "/boards?id=eq."+url.QueryEscape(board.ID), payload)
	if err != nil {
		return err
	}
	updated, err := firstRow[models.Board](data, "board not found")
	if err != nil {
		return err
	}
	*board = *updated
	return nil
}

func (db *SupabaseDatabase) DeleteBoard(id string) error {
	// Children first; PostgREST has no cross-table transaction
	if _, err := db.makeRequest("DELETE", "/projects?board_id=eq."+url.QueryEscape(id), nil); err != nil {
		return err
	}
	if _, err := db.makeRequest("DELETE", "/workflow_steps?board_id=eq."+url.QueryEscape(id), nil); err != nil {
		return err
	}
	data, err := db.makeRequest("DELETE", "/boards?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return err
	}
	if _, err := firstRow[models.Board](data, "board not found"); err != nil {
		return err
	}
	return nil
}

func (db *SupabaseDatabase) ListWorkflowSteps(boardID string) ([]models.WorkflowStep, error) {
	data, err := db.makeRequest("GET", "/workflow_steps?board_id=eq."+url.QueryEscape(boardID)+"&order=position.asc", nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[models.WorkflowStep](data)
}

func (db *SupabaseDatabase) ReplaceWorkflowSteps(boardID string, steps []models.WorkflowStep) error {
	if _, err := db.makeRequest("DELETE", "/workflow_steps?board_id=eq."+url.QueryEscape(boardID), nil); err != nil {
		return err
	}
	payload := make([]map[string]interface{}, 0, len(steps))
	for i := range steps {
		steps[i].BoardID = boardID
		payload = append(payload, map[string]interface{}{
			"board_id":       boardID,
			"name":           steps[i].Name,
			"slug":           steps[i].Slug,
			"color_dot":      steps[i].ColorDot,
			"color_progress": steps[i].ColorProgress,
			"position":       steps[i].Position,
		})
	}
	data, err := db.makeRequest("POST", "/workflow_steps", payload)
	if err != nil {
		return err
	}
	inserted, err := decodeRows[models.WorkflowStep](data)
	if err == nil && len(inserted) == len(steps) {
		copy(steps, inserted)
	}
	return nil
}

// ================= Projects =================

func (db *SupabaseDatabase) CreateProject(p *models.Project) error {
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Dependency == "" {
		p.Dependency = models.DependencyNone
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	payload := map[string]interface{}{
		"board_id":    p.BoardID,
		"title":       p.Title,
		"description": p.Description,
		"status":      p.Status,
		"priority":    string(p.Priority),
		"dependency":  string(p.Dependency),
		"sub_tasks":   p.SubTasks,
	}
	if p.AssigneeID != "" {
		payload["assignee_id"] = p.AssigneeID
	}
	if p.CreatedByID != "" {
		payload["created_by_id"] = p.CreatedByID
	}
	if p.StartDate != "" {
		payload["start_date"] = p.StartDate
	}
	if p.DueDate != "" {
		payload["due_date"] = p.DueDate
	}
	data, err := db.makeRequest("POST", "/projects", payload)
	if err != nil {
		return err
	}
	created, err := firstRow[models.Project](data, "project not created")
	if err != nil {
		return err
	}
	*p = *created
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	return nil
}

func (db *SupabaseDatabase) GetProject(id string) (*models.Project, error) {
	data, err := db.makeRequest("GET", "/projects?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}
	p, err := firstRow[models.Project](data, "project not found")
	if err != nil {
		return nil, err
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	return p, nil
}

func (db *SupabaseDatabase) ListProjectsByBoard(boardID string) ([]models.Project, error) {
	data, err := db.makeRequest("GET", "/projects?board_id=eq."+url.QueryEscape(boardID)+"&order=created_at.asc", nil)
	if err != nil {
		return nil, err
	}
	projects, err := decodeRows[models.Project](data)
	if err != nil {
		return nil, err
	}
	for i := range projects {
		if projects[i].SubTasks == nil {
			projects[i].SubTasks = []models.SubTask{}
		}
	}
	return projects, nil
}

func (db *SupabaseDatabase) UpdateProject(p *models.Project) error {
	payload := map[string]interface{}{
		"title":       p.Title,
		"description": p.Description,
		"status":      p.Status,
		"priority":    string(p.Priority),
		"dependency":  string(p.Dependency),
		"sub_tasks":   p.SubTasks,
		"updated_at":  time.Now().UTC(),
	}
	if p.AssigneeID != "" {
		payload["assignee_id"] = p.AssigneeID
	} else {
		payload["assignee_id"] = nil
	}
	if p.StartDate != "" {
		payload["start_date"] = p.StartDate
	} else {
		payload["start_date"] = nil
	}
	if p.DueDate != "" {
		payload["due_date"] = p.DueDate
	} else {
		payload["due_date"] = nil
	}
	data, err := db.makeRequest("PATCH", "/projects?id=eq."+url.QueryEscape(p.ID), payload)
	if err != nil {
		return err
	}
	updated, err := firstRow[models.Project](data, "project not found")
	if err != nil {
		return err
	}
	*p = *updated
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	return nil
}

func (db *SupabaseDatabase) DeleteProject(id string) error {
	data, err := db.makeRequest("DELETE", "/projects?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return err
	}
	if _, err := firstRow[models.Project](data, "project not found"); err != nil {
		return err
	}
	return nil
}

func (db *SupabaseDatabase) UpdateProjectStatus(id, status string) (*models.Project, error) {
	data, err := db.makeRequest("PATCH", "/projects?id=eq."+url.QueryEscape(id), map[string]interface{}{
		"status":     status,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	p, err := firstRow[models.Project](data, "project not found")
	if err != nil {
		return nil, err
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	return p, nil
}

func (db *SupabaseDatabase) ToggleSubTask(projectID, subTaskID string) (*models.Project, error) {
	// Read-modify-write; the REST path has no row locks, so the Postgres
	// backend is preferred when toggle contention matters.
	p, err := db.GetProject(projectID)
	if err != nil {
		return nil, err
	}
	found := false
	for i := range p.SubTasks {
		if p.SubTasks[i].ID == subTaskID {
			p.SubTasks[i].Completed = !p.SubTasks[i].Completed
			found = true
			break
		}
	}
	if !found {
		return nil, fmt.Errorf("sub task not found")
	}
	data, err := db.makeRequest("PATCH", "/projects?id=eq."+url.QueryEscape(projectID), map[string]interface{}{
		"sub_tasks":  p.SubTasks,
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return nil, err
	}
	updated, err := firstRow[models.Project](data, "project not found")
	if err != nil {
		return nil, err
	}
	if updated.SubTasks == nil {
		updated.SubTasks = []models.SubTask{}
	}
	return updated, nil
}

// ================= Invitations =================

func (db *SupabaseDatabase) CreateInvitation(inv *models.Invitation) error {
	payload := map[string]interface{}{
		"role":       string(inv.Role),
		"invited_by": inv.InvitedBy,
		"token":      inv.Token,
		"status":     string(inv.Status),
		"expires_at": inv.ExpiresAt.UTC(),
	}
	if inv.Email != "" {
		payload["email"] = inv.Email
	}
	data, err := db.makeRequest("POST", "/invitations", payload)
	if err != nil {
		return err
	}
	created, err := firstRow[models.Invitation](data, "invitation not created")
	if err != nil {
		return err
	}
	*inv = *created
	return nil
}

func (db *SupabaseDatabase) GetInvitationByToken(token string) (*models.Invitation, error) {
	data, err := db.makeRequest("GET", "/invitations?token=eq."+url.QueryEscape(token), nil)
	if err != nil {
		return nil, err
	}
	return firstRow[models.Invitation](data, "invitation not found")
}

func (db *SupabaseDatabase) GetInvitationByID(id string) (*models.Invitation, error) {
	data, err := db.makeRequest("GET", "/invitations?id=eq."+url.QueryEscape(id), nil)
	if err != nil {
		return nil, err
	}
	return firstRow[models.Invitation](data, "invitation not found")
}

func (db *SupabaseDatabase) ListPendingInvitations() ([]models.Invitation, error) {
	data, err := db.makeRequest("GET", "/invitations?status=eq.pending&order=created_at.desc", nil)
	if err != nil {
		return nil, err
	}
	return decodeRows[models.Invitation](data)
}

func (db *SupabaseDatabase) UpdateInvitation(inv *models.Invitation) error {
	data, err := db.makeRequest("PATCH", "/invitations?id=eq."+url.QueryEscape(inv.ID), map[string]interface{}{
		"status":     string(inv.Status),
		"expires_at": inv.ExpiresAt.UTC(),
		"updated_at": time.Now().UTC(),
	})
	if err != nil {
		return err
	}
	updated, err := firstRow[models.Invitation](data, "invitation not found")
	if err != nil {
		return err
	}
	*inv = *updated
	return nil
}

// ================= Board settings =================

func (db *SupabaseDatabase) GetBoardSettings(ownerID string) (*models.BoardSettings, error) {
	data, err := db.makeRequest("GET", "/board_settings?owner_id=eq."+url.QueryEscape(ownerID), nil)
	if err != nil {
		return nil, err
	}
	return firstRow[models.BoardSettings](data, "board settings not found")
}

func (db *SupabaseDatabase) UpsertBoardSettings(s *models.BoardSettings) error {
	payload := map[string]interface{}{
		"owner_id":      s.OwnerID,
		"board_name":    s.BoardName,
		"team_title":    s.TeamTitle,
		"project_color": s.ProjectColor,
		"updated_at":    time.Now().UTC(),
	}
	// PostgREST upsert keyed on the owner_id unique constraint
	var reqBody io.Reader
	jsonData, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}
	reqBody = bytes.NewBuffer(jsonData)

	req, err := http.NewRequest("POST", db.baseURL+"/rest/v1/board_settings?on_conflict=owner_id", reqBody)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("apikey", db.apiKey)
	req.Header.Set("Authorization", "Bearer "+db.apiKey)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Prefer", "return=representation,resolution=merge-duplicates")

	resp, err := db.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("API request failed with status %d: %s", resp.StatusCode, string(respBody))
	}

	updated, err := firstRow[models.BoardSettings](respBody, "board settings not saved")
	if err != nil {
		return err
	}
	*s = *updated
	return nil
}

// HealthCheck probes the REST endpoint
func (db *SupabaseDatabase) HealthCheck() error {
	_, err := db.makeRequest("GET", "/users?limit=1", nil)
	return err
}

// Close is a no-op for the REST backend
func (db *SupabaseDatabase) Close() error {
	return nil
}
