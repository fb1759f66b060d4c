package handlers_test

import (
	"net/http"
	"testing"

	"project-pulse-backend/pkg/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (e *testEnv) createProject(t *testing.T, token, boardID string, body map[string]interface{}) models.Project {
	t.Helper()
	rec, out := e.do(t, http.MethodPost, "/api/boards/"+boardID+"/projects", token, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	var project models.Project
	decodeData(t, out, &project)
	return project
}

func TestCreateProject(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")

	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":      "Launch Plan",
		"status":     "backlog",
		"due_date":   "2026-10-15",
		"sub_tasks":  []map[string]interface{}{{"title": "Draft brief"}},
		"dependency": "wip",
	})

	assert.Equal(t, "Launch Plan", project.Title)
	assert.Equal(t, "backlog", project.Status)
	assert.Equal(t, models.PriorityMedium, project.Priority)
	assert.Equal(t, models.DependencyWIP, project.Dependency)
	assert.Equal(t, admin.User.ID, project.CreatedByID)
	require.Len(t, project.SubTasks, 1)
	assert.NotEmpty(t, project.SubTasks[0].ID, "server assigns missing subtask ids")
}

func TestCreateProjectRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")

	rec, out := env.do(t, http.MethodPost, "/api/boards/"+board.ID+"/projects", admin.AccessToken, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "not-a-step",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	require.NotNil(t, out.Error)
	assert.Contains(t, out.Error.Message, "not-a-step")
}

func TestCreateProjectRejectsBadDate(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")

	rec, _ := env.do(t, http.MethodPost, "/api/boards/"+board.ID+"/projects", admin.AccessToken, map[string]interface{}{
		"title":    "Launch Plan",
		"status":   "backlog",
		"due_date": "15/10/2026",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMoveProject(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})

	rec, out := env.do(t, http.MethodPatch, "/api/projects/"+project.ID+"/move", admin.AccessToken, map[string]string{
		"status": "todo",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var moved models.Project
	decodeData(t, out, &moved)
	assert.Equal(t, "todo", moved.Status)
	assert.Equal(t, "Launch Plan", moved.Title)
}

func TestMoveProjectRejectsUnknownStatus(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})

	rec, _ := env.do(t, http.MethodPatch, "/api/projects/"+project.ID+"/move", admin.AccessToken, map[string]string{
		"status": "limbo",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// The stored status is untouched
	fresh, err := env.db.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "backlog", fresh.Status)
}

func TestMoveValidatesAgainstOwnBoardWorkflow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")

	// Swap the workflow so the default slugs no longer exist
	rec, _ := env.do(t, http.MethodPut, "/api/boards/"+board.ID+"/workflow", admin.AccessToken, map[string]interface{}{
		"workflow_steps": []map[string]interface{}{
			{"name": "Queued"},
			{"name": "Done"},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "queued",
	})

	rec, _ = env.do(t, http.MethodPatch, "/api/projects/"+project.ID+"/move", admin.AccessToken, map[string]string{
		"status": "todo", // valid slug elsewhere, not on this board
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestUpdateProjectPartialPatch(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":       "Launch Plan",
		"status":      "backlog",
		"description": "Initial description",
	})

	rec, out := env.do(t, http.MethodPut, "/api/projects/"+project.ID, admin.AccessToken, map[string]interface{}{
		"priority": "high",
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Project
	decodeData(t, out, &updated)
	assert.Equal(t, models.PriorityHigh, updated.Priority)
	assert.Equal(t, "Launch Plan", updated.Title)
	assert.Equal(t, "Initial description", updated.Description)
}

func TestToggleSubTaskEndpoint(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
		"sub_tasks": []map[string]interface{}{
			{"id": "st-1", "title": "Draft brief"},
			{"id": "st-2", "title": "Review copy"},
		},
	})

	rec, out := env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/subtasks/st-2/toggle", admin.AccessToken, map[string]string{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var updated models.Project
	decodeData(t, out, &updated)
	assert.False(t, updated.SubTasks[0].Completed)
	assert.True(t, updated.SubTasks[1].Completed)

	rec, _ = env.do(t, http.MethodPost, "/api/projects/"+project.ID+"/subtasks/missing/toggle", admin.AccessToken, map[string]string{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestViewerCannotMutateProjects(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})

	// Invite a viewer and register through the invite
	rec, out := env.do(t, http.MethodPost, "/api/invitations", admin.AccessToken, map[string]string{"role": "viewer"})
	require.Equal(t, http.StatusCreated, rec.Code)
	var inv struct {
		Token string `json:"token"`
	}
	decodeData(t, out, &inv)
	viewer := env.register(t, "viewer@example.com", "Vic", inv.Token)
	require.Equal(t, models.RoleViewer, viewer.User.Role)

	rec, _ = env.do(t, http.MethodPatch, "/api/projects/"+project.ID+"/move", viewer.AccessToken, map[string]string{"status": "todo"})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Reading still works
	rec, _ = env.do(t, http.MethodGet, "/api/projects?board_id="+board.ID, viewer.AccessToken, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestListProjectsRequiresBoardID(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodGet, "/api/projects", admin.AccessToken, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/projects?board_id=nonexistent", admin.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestDeleteProject(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})

	rec, _ := env.do(t, http.MethodDelete, "/api/projects/"+project.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec, _ = env.do(t, http.MethodGet, "/api/projects/"+project.ID, admin.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
