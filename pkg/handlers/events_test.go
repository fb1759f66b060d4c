package handlers_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventStreamDeliversBoardChanges(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")

	ctx, cancel := context.WithCancel(context.Background())
	req := httptest.NewRequest(http.MethodGet, "/api/events?board_id="+board.ID, nil).WithContext(ctx)
	req.Header.Set("Authorization", "Bearer "+admin.AccessToken)
	rec := httptest.NewRecorder()

	done := make(chan struct{})
	go func() {
		env.router.ServeHTTP(rec, req)
		close(done)
	}()

	// Let the stream attach before mutating
	time.Sleep(50 * time.Millisecond)
	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})
	delRec, _ := env.do(t, http.MethodDelete, "/api/projects/"+project.ID, admin.AccessToken, nil)
	require.Equal(t, http.StatusOK, delRec.Code)
	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	body := rec.Body.String()
	assert.Contains(t, body, ": connected")
	assert.Contains(t, body, "event: change")
	assert.Contains(t, body, `"table":"projects"`)
	assert.Contains(t, body, `"type":"INSERT"`)
	assert.Contains(t, body, `"type":"DELETE"`)
	assert.Equal(t, "text/event-stream", rec.Header().Get("Content-Type"))
}

func TestEventStreamRequiresAuth(t *testing.T) {
	env := newTestEnv(t)

	rec, _ := env.do(t, http.MethodGet, "/api/events", "", nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestEventStreamRejectsUnknownBoard(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")

	rec, _ := env.do(t, http.MethodGet, "/api/events?board_id=nonexistent", admin.AccessToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestEndToEndBoardFlow(t *testing.T) {
	env := newTestEnv(t)
	admin := env.register(t, "ana@example.com", "Ana", "")
	board := env.createBoard(t, admin.AccessToken, "Marketing")
	require.Len(t, board.WorkflowSteps, 7)

	project := env.createProject(t, admin.AccessToken, board.ID, map[string]interface{}{
		"title":  "Launch Plan",
		"status": "backlog",
	})

	rec, _ := env.do(t, http.MethodPatch, "/api/projects/"+project.ID+"/move", admin.AccessToken, map[string]string{
		"status": "todo",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	fresh, err := env.db.GetProject(project.ID)
	require.NoError(t, err)
	assert.Equal(t, "todo", fresh.Status)
}
