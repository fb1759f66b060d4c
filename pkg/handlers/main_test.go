package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	handler "project-pulse-backend/api"
	"project-pulse-backend/pkg/config"
	"project-pulse-backend/pkg/database"
	"project-pulse-backend/pkg/models"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"
)

// testEnv wires the full router against the in-memory backend
type testEnv struct {
	router *chi.Mux
	db     *database.MemoryDatabase
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	cfg := &config.Config{
		Environment:    "test",
		Port:           "3000",
		JWTSecret:      "test-secret",
		UseMemoryDB:    true,
		BaseURL:        "https://pulse.example.com",
		AllowedOrigins: []string{"*"},
	}
	db := database.NewMemoryDatabase()
	return &testEnv{router: handler.Router(cfg, db), db: db}
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
	} `json:"error"`
}

func (e *testEnv) do(t *testing.T, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var reqBody *bytes.Buffer
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reqBody = bytes.NewBuffer(data)
	} else {
		reqBody = bytes.NewBuffer(nil)
	}

	req := httptest.NewRequest(method, path, reqBody)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)

	var env envelope
	if rec.Body.Len() > 0 {
		_ = json.Unmarshal(rec.Body.Bytes(), &env)
	}
	return rec, env
}

func decodeData(t *testing.T, env envelope, v interface{}) {
	t.Helper()
	require.NotNil(t, env.Data)
	require.NoError(t, json.Unmarshal(env.Data, v))
}

// register creates an account and returns its session
func (e *testEnv) register(t *testing.T, email, name, inviteToken string) models.LoginResponse {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":        email,
		"password":     "hunter2hunter2",
		"name":         name,
		"invite_token": inviteToken,
	})
	require.Equal(t, http.StatusCreated, rec.Code, "register %s: %s", email, rec.Body.String())

	var session models.LoginResponse
	decodeData(t, env, &session)
	return session
}

// createBoard makes a board with the default workflow
func (e *testEnv) createBoard(t *testing.T, token, name string) models.BoardWithWorkflow {
	t.Helper()
	rec, env := e.do(t, http.MethodPost, "/api/boards", token, map[string]string{
		"name":       name,
		"team_title": "Core Team",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var board models.BoardWithWorkflow
	decodeData(t, env, &board)
	return board
}
