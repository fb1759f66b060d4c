package models

import "time"

// Board is a workspace with its own workflow and set of projects
type Board struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	Name         string    `json:"name" db:"name"`
	TeamTitle    string    `json:"team_title" db:"team_title"`
	ProjectColor string    `json:"project_color" db:"project_color"`
	IsArchived   bool      `json:"is_archived" db:"is_archived"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// WorkflowStep is a named, ordered column scoped to one board.
// Slug is the status value projects carry; unique per board.
type WorkflowStep struct {
	ID            string    `json:"id" db:"id"`
	BoardID       string    `json:"board_id" db:"board_id"`
	Name          string    `json:"name" db:"name"`
	Slug          string    `json:"slug" db:"slug"`
	ColorDot      string    `json:"color_dot" db:"color_dot"`
	ColorProgress string    `json:"color_progress" db:"color_progress"`
	Position      int       `json:"position" db:"position"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// BoardWithWorkflow is a board plus its steps ordered by position
type BoardWithWorkflow struct {
	Board
	WorkflowSteps []WorkflowStep `json:"workflow_steps"`
}

// WorkflowStepInput is a step as submitted by clients (create / replace-all)
type WorkflowStepInput struct {
	Name          string `json:"name" validate:"required"`
	Slug          string `json:"slug,omitempty"`
	ColorDot      string `json:"color_dot,omitempty"`
	ColorProgress string `json:"color_progress,omitempty"`
	Position      int    `json:"position"`
}

// CreateBoardRequest creates a board and its initial workflow.
// When WorkflowSteps is empty the default template is used.
type CreateBoardRequest struct {
	Name          string              `json:"name" validate:"required"`
	TeamTitle     string              `json:"team_title" validate:"required"`
	ProjectColor  string              `json:"project_color,omitempty"`
	WorkflowSteps []WorkflowStepInput `json:"workflow_steps,omitempty"`
}

// UpdateBoardRequest is a partial board patch
type UpdateBoardRequest struct {
	Name         *string `json:"name,omitempty"`
	TeamTitle    *string `json:"team_title,omitempty"`
	ProjectColor *string `json:"project_color,omitempty"`
	IsArchived   *bool   `json:"is_archived,omitempty"`
}

// DefaultWorkflowSteps is the template applied to new boards created
// without an explicit workflow.
func DefaultWorkflowSteps() []WorkflowStepInput {
	return []WorkflowStepInput{
		{Name: "Backlog", Slug: "backlog", ColorDot: "status-dot-backlog", ColorProgress: "progress-bar-backlog", Position: 0},
		{Name: "To-Do", Slug: "todo", ColorDot: "status-dot-todo", ColorProgress: "progress-bar-todo", Position: 1},
		{Name: "In Progress", Slug: "in-progress", ColorDot: "status-dot-in-progress", ColorProgress: "progress-bar-in-progress", Position: 2},
		{Name: "Delivered", Slug: "delivered", ColorDot: "status-dot-delivered", ColorProgress: "progress-bar-delivered", Position: 3},
		{Name: "Audit", Slug: "audit", ColorDot: "status-dot-audit", ColorProgress: "progress-bar-audit", Position: 4},
		{Name: "In Production", Slug: "complete", ColorDot: "status-dot-complete", ColorProgress: "progress-bar-complete", Position: 5},
		{Name: "Archived", Slug: "archived", ColorDot: "status-dot-archived", ColorProgress: "progress-bar-archived", Position: 6},
	}
}

// BoardColors is the palette offered at board creation
var BoardColors = []struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}{
	{Name: "Green", Value: "160 84% 39%"},
	{Name: "Blue", Value: "217 91% 60%"},
	{Name: "Purple", Value: "262 83% 58%"},
	{Name: "Orange", Value: "25 95% 53%"},
	{Name: "Pink", Value: "330 81% 60%"},
	{Name: "Teal", Value: "173 80% 40%"},
}

// DefaultBoardColor is used when the create request omits a color
const DefaultBoardColor = "160 84% 39%"

// BoardSettings is the legacy single-board preference row kept for
// clients that predate multi-board support.
type BoardSettings struct {
	ID           string    `json:"id" db:"id"`
	OwnerID      string    `json:"owner_id" db:"owner_id"`
	BoardName    string    `json:"board_name" db:"board_name"`
	TeamTitle    string    `json:"team_title" db:"team_title"`
	ProjectColor string    `json:"project_color" db:"project_color"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}
