package database

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"project-pulse-backend/pkg/models"

	"github.com/google/uuid"
)

// MemoryDatabase is a non-durable in-process backend used by tests and
// local development without Postgres.
type MemoryDatabase struct {
	mu sync.RWMutex

	users         map[string]*models.User
	boards        map[string]*models.Board
	workflowSteps map[string][]models.WorkflowStep // keyed by board ID
	projects      map[string]*models.Project
	invitations   map[string]*models.Invitation
	boardSettings map[string]*models.BoardSettings // keyed by owner ID
}

// NewMemoryDatabase creates an empty in-memory backend
func NewMemoryDatabase() *MemoryDatabase {
	return &MemoryDatabase{
		users:         make(map[string]*models.User),
		boards:        make(map[string]*models.Board),
		workflowSteps: make(map[string][]models.WorkflowStep),
		projects:      make(map[string]*models.Project),
		invitations:   make(map[string]*models.Invitation),
		boardSettings: make(map[string]*models.BoardSettings),
	}
}

func copyUser(u *models.User) *models.User {
	c := *u
	if u.LastActiveAt != nil {
		t := *u.LastActiveAt
		c.LastActiveAt = &t
	}
	return &c
}

func copyProject(p *models.Project) *models.Project {
	c := *p
	c.SubTasks = append([]models.SubTask{}, p.SubTasks...)
	return &c
}

// ================= Users =================

func (db *MemoryDatabase) CreateUser(user *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	for _, existing := range db.users {
		if existing.Email == user.Email {
			return fmt.Errorf("duplicate key value violates unique constraint: users_email_key")
		}
	}
	if user.Role == "" {
		user.Role = models.RoleEditor
	}
	if user.Status == "" {
		user.Status = models.StatusActive
	}
	now := time.Now().UTC()
	user.ID = uuid.New().String()
	user.CreatedAt = now
	user.UpdatedAt = now
	db.users[user.ID] = copyUser(user)
	return nil
}

func (db *MemoryDatabase) GetUserByEmail(email string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, u := range db.users {
		if u.Email == email {
			return copyUser(u), nil
		}
	}
	return nil, fmt.Errorf("user not found")
}

func (db *MemoryDatabase) GetUserByID(id string) (*models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	u, ok := db.users[id]
	if !ok {
		return nil, fmt.Errorf("user not found")
	}
	return copyUser(u), nil
}

func (db *MemoryDatabase) UpdateUser(user *models.User) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	existing, ok := db.users[user.ID]
	if !ok {
		return fmt.Errorf("user not found")
	}
	if user.Name != "" {
		existing.Name = user.Name
	}
	if user.Avatar != "" {
		existing.Avatar = user.Avatar
	}
	if user.AvatarColor != "" {
		existing.AvatarColor = user.AvatarColor
	}
	if user.Role != "" {
		existing.Role = user.Role
	}
	if user.Status != "" {
		existing.Status = user.Status
	}
	existing.UpdatedAt = time.Now().UTC()
	*user = *copyUser(existing)
	return nil
}

func (db *MemoryDatabase) DeleteUser(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.users[id]; !ok {
		return fmt.Errorf("user not found")
	}
	delete(db.users, id)
	return nil
}

func (db *MemoryDatabase) ListUsers() ([]models.User, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]models.User, 0, len(db.users))
	for _, u := range db.users {
		result = append(result, *copyUser(u))
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (db *MemoryDatabase) CountUsers() (int, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	return len(db.users), nil
}

func (db *MemoryDatabase) TouchUserActivity(id string, at time.Time) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	u, ok := db.users[id]
	if !ok {
		return fmt.Errorf("user not found")
	}
	t := at.UTC()
	u.LastActiveAt = &t
	u.Status = models.StatusActive
	u.UpdatedAt = time.Now().UTC()
	return nil
}

// ================= Boards & Workflow Steps =================

func (db *MemoryDatabase) CreateBoardWithSteps(board *models.Board, steps []models.WorkflowStep) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	now := time.Now().UTC()
	board.ID = uuid.New().String()
	board.IsArchived = false
	board.CreatedAt = now
	board.UpdatedAt = now
	stored := *board
	db.boards[board.ID] = &stored

	storedSteps := make([]models.WorkflowStep, len(steps))
	for i := range steps {
		steps[i].ID = uuid.New().String()
		steps[i].BoardID = board.ID
		steps[i].CreatedAt = now
		steps[i].UpdatedAt = now
		storedSteps[i] = steps[i]
	}
	db.workflowSteps[board.ID] = storedSteps
	return nil
}

func (db *MemoryDatabase) GetBoard(id string) (*models.Board, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	b, ok := db.boards[id]
	if !ok {
		return nil, fmt.Errorf("board not found")
	}
	c := *b
	return &c, nil
}

func (db *MemoryDatabase) ListBoards(includeArchived bool) ([]models.Board, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	result := make([]models.Board, 0, len(db.boards))
	for _, b := range db.boards {
		if !includeArchived && b.IsArchived {
			continue
		}
		result = append(result, *b)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (db *MemoryDatabase) UpdateBoard(board *models.Board) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	existing, ok := db.boards[board.ID]
	if !ok {
		return fmt.Errorf("board not found")
	}
	if board.Name != "" {
		existing.Name = board.Name
	}
	if board.TeamTitle != "" {
		existing.TeamTitle = board.TeamTitle
	}
	if board.ProjectColor != "" {
		existing.ProjectColor = board.ProjectColor
	}
	existing.IsArchived = board.IsArchived
	existing.UpdatedAt = time.Now().UTC()
	*board = *existing
	return nil
}

func (db *MemoryDatabase) DeleteBoard(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.boards[id]; !ok {
		return fmt.Errorf("board not found")
	}
	delete(db.boards, id)
	delete(db.workflowSteps, id)
	for pid, p := range db.projects {
		if p.BoardID == id {
			delete(db.projects, pid)
		}
	}
	return nil
}

func (db *MemoryDatabase) ListWorkflowSteps(boardID string) ([]models.WorkflowStep, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	steps := append([]models.WorkflowStep{}, db.workflowSteps[boardID]...)
	sort.Slice(steps, func(i, j int) bool { return steps[i].Position < steps[j].Position })
	return steps, nil
}

func (db *MemoryDatabase) ReplaceWorkflowSteps(boardID string, steps []models.WorkflowStep) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.boards[boardID]; !ok {
		return fmt.Errorf("board not found")
	}
	now := time.Now().UTC()
	stored := make([]models.WorkflowStep, len(steps))
	for i := range steps {
		steps[i].ID = uuid.New().String()
		steps[i].BoardID = boardID
		steps[i].CreatedAt = now
		steps[i].UpdatedAt = now
		stored[i] = steps[i]
	}
	db.workflowSteps[boardID] = stored
	return nil
}

// ================= Projects =================

func (db *MemoryDatabase) CreateProject(p *models.Project) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	if _, ok := db.boards[p.BoardID]; !ok {
		return fmt.Errorf("board not found")
	}
	if p.Priority == "" {
		p.Priority = models.PriorityMedium
	}
	if p.Dependency == "" {
		p.Dependency = models.DependencyNone
	}
	if p.SubTasks == nil {
		p.SubTasks = []models.SubTask{}
	}
	now := time.Now().UTC()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	db.projects[p.ID] = copyProject(p)
	return nil
}

func (db *MemoryDatabase) GetProject(id string) (*models.Project, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	p, ok := db.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found")
	}
	return copyProject(p), nil
}

func (db *MemoryDatabase) ListProjectsByBoard(boardID string) ([]models.Project, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var result []models.Project
	for _, p := range db.projects {
		if p.BoardID == boardID {
			result = append(result, *copyProject(p))
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (db *MemoryDatabase) UpdateProject(p *models.Project) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	existing, ok := db.projects[p.ID]
	if !ok {
		return fmt.Errorf("project not found")
	}
	updated := copyProject(p)
	updated.BoardID = existing.BoardID
	updated.CreatedByID = existing.CreatedByID
	updated.CreatedAt = existing.CreatedAt
	updated.UpdatedAt = time.Now().UTC()
	db.projects[p.ID] = updated
	*p = *copyProject(updated)
	return nil
}

func (db *MemoryDatabase) DeleteProject(id string) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	if _, ok := db.projects[id]; !ok {
		return fmt.Errorf("project not found")
	}
	delete(db.projects, id)
	return nil
}

func (db *MemoryDatabase) UpdateProjectStatus(id, status string) (*models.Project, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.projects[id]
	if !ok {
		return nil, fmt.Errorf("project not found")
	}
	p.Status = status
	p.UpdatedAt = time.Now().UTC()
	return copyProject(p), nil
}

func (db *MemoryDatabase) ToggleSubTask(projectID, subTaskID string) (*models.Project, error) {
	db.mu.Lock()
	defer db.mu.Unlock()
	p, ok := db.projects[projectID]
	if !ok {
		return nil, fmt.Errorf("project not found")
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
	p.UpdatedAt = time.Now().UTC()
	return copyProject(p), nil
}

// ================= Invitations =================

func (db *MemoryDatabase) CreateInvitation(inv *models.Invitation) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := time.Now().UTC()
	inv.ID = uuid.New().String()
	inv.CreatedAt = now
	inv.UpdatedAt = now
	c := *inv
	db.invitations[inv.ID] = &c
	return nil
}

func (db *MemoryDatabase) GetInvitationByToken(token string) (*models.Invitation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	for _, inv := range db.invitations {
		if inv.Token == token {
			c := *inv
			return &c, nil
		}
	}
	return nil, fmt.Errorf("invitation not found")
}

func (db *MemoryDatabase) GetInvitationByID(id string) (*models.Invitation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	inv, ok := db.invitations[id]
	if !ok {
		return nil, fmt.Errorf("invitation not found")
	}
	c := *inv
	return &c, nil
}

func (db *MemoryDatabase) ListPendingInvitations() ([]models.Invitation, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	var result []models.Invitation
	for _, inv := range db.invitations {
		if inv.Status == models.InvitationPending {
			result = append(result, *inv)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (db *MemoryDatabase) UpdateInvitation(inv *models.Invitation) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	existing, ok := db.invitations[inv.ID]
	if !ok {
		return fmt.Errorf("invitation not found")
	}
	existing.Status = inv.Status
	existing.ExpiresAt = inv.ExpiresAt
	existing.UpdatedAt = time.Now().UTC()
	*inv = *existing
	return nil
}

// ================= Board settings =================

func (db *MemoryDatabase) GetBoardSettings(ownerID string) (*models.BoardSettings, error) {
	db.mu.RLock()
	defer db.mu.RUnlock()
	s, ok := db.boardSettings[ownerID]
	if !ok {
		return nil, fmt.Errorf("board settings not found")
	}
	c := *s
	return &c, nil
}

func (db *MemoryDatabase) UpsertBoardSettings(s *models.BoardSettings) error {
	db.mu.Lock()
	defer db.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := db.boardSettings[s.OwnerID]; ok {
		existing.BoardName = s.BoardName
		existing.TeamTitle = s.TeamTitle
		existing.ProjectColor = s.ProjectColor
		existing.UpdatedAt = now
		*s = *existing
		return nil
	}
	s.ID = uuid.New().String()
	s.CreatedAt = now
	s.UpdatedAt = now
	c := *s
	db.boardSettings[s.OwnerID] = &c
	return nil
}

// HealthCheck always succeeds for the in-memory backend
func (db *MemoryDatabase) HealthCheck() error {
	return nil
}

// Close discards nothing; memory data lives until process exit
func (db *MemoryDatabase) Close() error {
	return nil
}
