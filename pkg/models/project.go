package models

import "time"

// Priority of a project card
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Valid reports whether the priority is one of the known values.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// DependencyStatus marks external blockers on a project
type DependencyStatus string

const (
	DependencyNone    DependencyStatus = "none"
	DependencyWIP     DependencyStatus = "wip"
	DependencyPaused  DependencyStatus = "paused"
	DependencyBlocked DependencyStatus = "blocked"
)

// Valid reports whether the dependency state is one of the known values.
func (d DependencyStatus) Valid() bool {
	switch d {
	case DependencyNone, DependencyWIP, DependencyPaused, DependencyBlocked:
		return true
	}
	return false
}

// SubTask is an embedded checklist item; stored inside the project row,
// not a separate relation.
type SubTask struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// Project is a trackable unit of work (card) on a board.
// Status holds a workflow-step slug of the project's board.
type Project struct {
	ID          string           `json:"id" db:"id"`
	BoardID     string           `json:"board_id" db:"board_id"`
	Title       string           `json:"title" db:"title"`
	Description string           `json:"description,omitempty" db:"description"`
	Status      string           `json:"status" db:"status"`
	Priority    Priority         `json:"priority" db:"priority"`
	Dependency  DependencyStatus `json:"dependency" db:"dependency"`
	AssigneeID  string           `json:"assignee_id,omitempty" db:"assignee_id"`
	CreatedByID string           `json:"created_by_id,omitempty" db:"created_by_id"`
	StartDate   string           `json:"start_date,omitempty" db:"start_date"`
	DueDate     string           `json:"due_date,omitempty" db:"due_date"`
	SubTasks    []SubTask        `json:"sub_tasks" db:"sub_tasks"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time        `json:"updated_at" db:"updated_at"`
}

// CreateProjectRequest creates a card on a board
type CreateProjectRequest struct {
	Title       string           `json:"title" validate:"required"`
	Description string           `json:"description,omitempty"`
	Status      string           `json:"status" validate:"required"`
	Priority    Priority         `json:"priority,omitempty"`
	Dependency  DependencyStatus `json:"dependency,omitempty"`
	AssigneeID  string           `json:"assignee_id,omitempty"`
	StartDate   string           `json:"start_date,omitempty"`
	DueDate     string           `json:"due_date,omitempty"`
	SubTasks    []SubTask        `json:"sub_tasks,omitempty"`
}

// UpdateProjectRequest is a partial project patch; nil fields are kept
type UpdateProjectRequest struct {
	Title       *string           `json:"title,omitempty"`
	Description *string           `json:"description,omitempty"`
	Status      *string           `json:"status,omitempty"`
	Priority    *Priority         `json:"priority,omitempty"`
	Dependency  *DependencyStatus `json:"dependency,omitempty"`
	AssigneeID  *string           `json:"assignee_id,omitempty"`
	StartDate   *string           `json:"start_date,omitempty"`
	DueDate     *string           `json:"due_date,omitempty"`
	SubTasks    *[]SubTask        `json:"sub_tasks,omitempty"`
}

// MoveProjectRequest is the status-only update issued by drag-and-drop
type MoveProjectRequest struct {
	Status string `json:"status" validate:"required"`
}
