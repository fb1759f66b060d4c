package database

import (
	"fmt"
	"time"

	"project-pulse-backend/pkg/models"
)

// Interface is the storage contract shared by the Postgres, Supabase
// REST and in-memory backends.
type Interface interface {
	// Users / team members
	CreateUser(user *models.User) error
	GetUserByEmail(email string) (*models.User, error)
	GetUserByID(id string) (*models.User, error)
	UpdateUser(user *models.User) error
	DeleteUser(id string) error
	ListUsers() ([]models.User, error)
	CountUsers() (int, error)
	// TouchUserActivity bumps last_active_at and flips status to active.
	TouchUserActivity(id string, at time.Time) error

	// Boards
	// CreateBoardWithSteps inserts the board and its workflow steps in one
	// transaction where the backend supports it.
	CreateBoardWithSteps(board *models.Board, steps []models.WorkflowStep) error
	GetBoard(id string) (*models.Board, error)
	ListBoards(includeArchived bool) ([]models.Board, error)
	UpdateBoard(board *models.Board) error
	DeleteBoard(id string) error

	// Workflow steps
	ListWorkflowSteps(boardID string) ([]models.WorkflowStep, error)
	// ReplaceWorkflowSteps swaps the whole step set of a board
	// (delete-all-then-insert-all; submitted order defines position).
	ReplaceWorkflowSteps(boardID string, steps []models.WorkflowStep) error

	// Projects
	CreateProject(p *models.Project) error
	GetProject(id string) (*models.Project, error)
	ListProjectsByBoard(boardID string) ([]models.Project, error)
	UpdateProject(p *models.Project) error
	DeleteProject(id string) error
	// UpdateProjectStatus writes only the status column and returns the
	// fresh row (drag-and-drop move).
	UpdateProjectStatus(id, status string) (*models.Project, error)
	// ToggleSubTask flips one subtask's completed flag in storage, keyed
	// by subtask id, so concurrent toggles of different subtasks both land.
	ToggleSubTask(projectID, subTaskID string) (*models.Project, error)

	// Invitations
	CreateInvitation(inv *models.Invitation) error
	GetInvitationByToken(token string) (*models.Invitation, error)
	GetInvitationByID(id string) (*models.Invitation, error)
	ListPendingInvitations() ([]models.Invitation, error)
	UpdateInvitation(inv *models.Invitation) error

	// Board settings (legacy single-board preferences)
	GetBoardSettings(ownerID string) (*models.BoardSettings, error)
	UpsertBoardSettings(s *models.BoardSettings) error

	HealthCheck() error
	Close() error
}

// Config selects and parameterizes a backend
type Config struct {
	PostgresDSN string
	SupabaseURL string
	SupabaseKey string
	UseMemoryDB bool
	Debug       bool
}

// NewDatabase picks a backend: Postgres > Supabase REST > memory.
func NewDatabase(config Config) Interface {
	if config.PostgresDSN != "" {
		fmt.Printf("🗄️  Using PostgreSQL database\n")
		return NewPostgresDatabase(config.PostgresDSN)
	}

	if config.SupabaseURL != "" && config.SupabaseKey != "" {
		fmt.Printf("🧰  Using Supabase REST API\n")
		return NewSupabaseDatabase(config.SupabaseURL, config.SupabaseKey)
	}

	if config.UseMemoryDB {
		fmt.Printf("🧪  Using in-memory database (non-durable)\n")
		return NewMemoryDatabase()
	}

	panic("No valid database configuration found. Please configure POSTGRES_DSN, SUPABASE_URL+SUPABASE_SERVICE_KEY, or USE_MEMORY_DB")
}
