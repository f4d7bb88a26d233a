package handler_test

import (
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	apiHandler "github.com/taskhive/backend/api/handler"
	"github.com/taskhive/backend/internal/infrastructure/monitor"
	"github.com/taskhive/backend/internal/middleware"
	"github.com/taskhive/backend/internal/router"
	"github.com/taskhive/backend/internal/security"
	"github.com/taskhive/backend/pkg/httpcontext"
	"github.com/taskhive/backend/repository/inmemory"
	accountUC "github.com/taskhive/backend/usecase/account"
	authUC "github.com/taskhive/backend/usecase/auth"
	taskUC "github.com/taskhive/backend/usecase/task"
)

// testServer wires the full request path with in-memory storage: router,
// auth middleware, handlers and usecases, exactly as cmd/server does minus
// postgres, redis and the offline buffer.
type testServer struct {
	handler fasthttp.RequestHandler
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := zap.NewNop()
	users := inmemory.NewUserStorage()
	tasks := inmemory.NewTaskStorage()
	denylist := inmemory.NewDenylist()

	tokens := security.NewTokenService(security.TokenConfig{
		Secret: "test-secret-key",
		Issuer: "taskhive-test",
		TTL:    time.Hour,
	})
	passwords := security.NewPasswordHasher(bcrypt.MinCost)
	adapter := httpcontext.NewAdapter(5 * time.Second)

	auth := authUC.New(users, denylist, tokens, passwords, logger)
	task := taskUC.New(tasks, nil, logger)
	account := accountUC.New(users, nil, logger)

	handlers := router.Handlers{
		Auth:   apiHandler.NewAuthHandler(auth, account, adapter, logger),
		Task:   apiHandler.NewTaskHandler(task, adapter, logger),
		Health: apiHandler.NewHealthHandler(monitor.New(nil, nil, nil, time.Minute, logger), adapter, logger),
	}
	authenticator := middleware.NewAuthenticator(tokens, denylist, auth, adapter, logger)

	return &testServer{handler: router.New(handlers, authenticator.Middleware).Handler}
}

type envelope struct {
	Status string          `json:"status"`
	Code   string          `json:"code"`
	Data   json.RawMessage `json:"data"`
	Error  json.RawMessage `json:"error"`
}

func (s *testServer) do(t *testing.T, method, uri, token string, body interface{}) (int, envelope) {
	t.Helper()

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(method)
	ctx.Request.SetRequestURI(uri)
	if token != "" {
		ctx.Request.Header.Set("Authorization", "Bearer "+token)
	}
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		ctx.Request.Header.SetContentType("application/json")
		ctx.Request.SetBody(raw)
	}

	s.handler(ctx)

	var env envelope
	require.NoError(t, json.Unmarshal(ctx.Response.Body(), &env),
		"body: %s", ctx.Response.Body())
	return ctx.Response.StatusCode(), env
}

func (s *testServer) registerAndLogin(t *testing.T, username string) string {
	t.Helper()

	status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": username,
		"email":    username + "@example.com",
		"password": "Password1",
	})
	require.Equal(t, http.StatusCreated, status)

	status, env := s.do(t, fasthttp.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": username,
		"password": "Password1",
	})
	require.Equal(t, http.StatusOK, status)

	var tokenResp struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &tokenResp))
	require.Equal(t, "bearer", tokenResp.TokenType)
	require.NotEmpty(t, tokenResp.AccessToken)
	return tokenResp.AccessToken
}

func TestRegisterLoginAndTaskFlow(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	status, env := s.do(t, fasthttp.MethodPost, "/api/v1/tasks", token, map[string]string{
		"title":    "Test Task",
		"priority": "high",
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID       string `json:"id"`
		Title    string `json:"title"`
		Priority string `json:"priority"`
		Status   string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))
	assert.Equal(t, "Test Task", created.Title)
	assert.Equal(t, "high", created.Priority)
	assert.Equal(t, "pending", created.Status)
	require.NotEmpty(t, created.ID)

	status, env = s.do(t, fasthttp.MethodGet, "/api/v1/tasks", token, nil)
	require.Equal(t, http.StatusOK, status)

	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	status, env = s.do(t, fasthttp.MethodGet, "/api/v1/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
}

func TestRegister_DuplicateIsBadRequest(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	status, env := s.do(t, fasthttp.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice2",
		"email":    "alice@example.com",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "error", env.Status)
}

func TestRegister_MalformedBody(t *testing.T) {
	s := newTestServer(t)

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/api/v1/auth/register")
	ctx.Request.Header.SetContentType("application/json")
	ctx.Request.SetBodyString(`{"username": "alice",`)

	s.handler(ctx)

	// undecodable bodies are schema failures, same as tag violations
	assert.Equal(t, http.StatusUnprocessableEntity, ctx.Response.StatusCode())
}

func TestRegister_SchemaViolationIsUnprocessable(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/auth/register", "", map[string]string{
		"username": "alice",
		"email":    "not-an-email",
		"password": "Password1",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestLogin_BadPassword(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/auth/login", "", map[string]string{
		"username": "alice",
		"password": "WrongPass1",
	})
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestTasks_RequireToken(t *testing.T) {
	s := newTestServer(t)

	status, _ := s.do(t, fasthttp.MethodGet, "/api/v1/tasks", "", nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestTasks_CrossOwnerAccess(t *testing.T) {
	s := newTestServer(t)
	aliceToken := s.registerAndLogin(t, "alice")
	bobToken := s.registerAndLogin(t, "bob")

	status, env := s.do(t, fasthttp.MethodPost, "/api/v1/tasks", aliceToken, map[string]string{
		"title": "alice's task",
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, _ = s.do(t, fasthttp.MethodGet, "/api/v1/tasks/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, fasthttp.MethodPut, "/api/v1/tasks/"+created.ID, bobToken, map[string]string{
		"title": "hijacked",
	})
	assert.Equal(t, http.StatusForbidden, status)

	status, _ = s.do(t, fasthttp.MethodDelete, "/api/v1/tasks/"+created.ID, bobToken, nil)
	assert.Equal(t, http.StatusForbidden, status)

	// bob's listing stays empty
	status, env = s.do(t, fasthttp.MethodGet, "/api/v1/tasks", bobToken, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Empty(t, listed)
}

func TestTasks_UpdateAndDelete(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	status, env := s.do(t, fasthttp.MethodPost, "/api/v1/tasks", token, map[string]string{
		"title":       "task",
		"description": "keep me",
	})
	require.Equal(t, http.StatusCreated, status)

	var created struct {
		ID string `json:"id"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &created))

	status, env = s.do(t, fasthttp.MethodPut, "/api/v1/tasks/"+created.ID, token, map[string]string{
		"status": "completed",
	})
	require.Equal(t, http.StatusOK, status)

	var updated struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Status      string `json:"status"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "task", updated.Title)
	assert.Equal(t, "keep me", updated.Description)
	assert.Equal(t, "completed", updated.Status)

	status, env = s.do(t, fasthttp.MethodDelete, "/api/v1/tasks/"+created.ID, token, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Contains(t, string(env.Data), "Task deleted successfully")

	status, _ = s.do(t, fasthttp.MethodGet, "/api/v1/tasks/"+created.ID, token, nil)
	assert.Equal(t, http.StatusNotFound, status)
}

func TestTasks_ListFiltersAndPagination(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	for i := 0; i < 3; i++ {
		priority := "low"
		if i == 0 {
			priority = "urgent"
		}
		status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/tasks", token, map[string]string{
			"title":    fmt.Sprintf("task %d", i),
			"priority": priority,
		})
		require.Equal(t, http.StatusCreated, status)
	}

	status, env := s.do(t, fasthttp.MethodGet, "/api/v1/tasks?priority=urgent", token, nil)
	require.Equal(t, http.StatusOK, status)
	var listed []json.RawMessage
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	status, env = s.do(t, fasthttp.MethodGet, "/api/v1/tasks?skip=1&limit=1", token, nil)
	require.Equal(t, http.StatusOK, status)
	listed = nil
	require.NoError(t, json.Unmarshal(env.Data, &listed))
	assert.Len(t, listed, 1)

	status, _ = s.do(t, fasthttp.MethodGet, "/api/v1/tasks?priority=bogus", token, nil)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestTasks_InvalidBody(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/tasks", token, map[string]string{
		"title":    "task",
		"priority": "critical",
	})
	assert.Equal(t, http.StatusUnprocessableEntity, status)

	status, _ = s.do(t, fasthttp.MethodPost, "/api/v1/tasks", token, map[string]string{})
	assert.Equal(t, http.StatusUnprocessableEntity, status)
}

func TestAuthMe(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	status, env := s.do(t, fasthttp.MethodGet, "/api/v1/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)

	var me struct {
		Username string `json:"username"`
		Email    string `json:"email"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &me))
	assert.Equal(t, "alice", me.Username)
	assert.Equal(t, "alice@example.com", me.Email)
	assert.NotContains(t, string(env.Data), "Password1")

	status, env = s.do(t, fasthttp.MethodPut, "/api/v1/auth/me", token, map[string]string{
		"full_name": "Alice Smith",
	})
	require.Equal(t, http.StatusOK, status)

	var updated struct {
		FullName string `json:"full_name"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &updated))
	assert.Equal(t, "Alice Smith", updated.FullName)
}

func TestLogout_InvalidatesToken(t *testing.T) {
	s := newTestServer(t)
	token := s.registerAndLogin(t, "alice")

	status, _ := s.do(t, fasthttp.MethodPost, "/api/v1/auth/logout", token, nil)
	require.Equal(t, http.StatusOK, status)

	status, _ = s.do(t, fasthttp.MethodGet, "/api/v1/auth/me", token, nil)
	assert.Equal(t, http.StatusForbidden, status)
}

func TestHealth_DegradedWithoutDependencies(t *testing.T) {
	s := newTestServer(t)

	status, env := s.do(t, fasthttp.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusServiceUnavailable, status)
	assert.Equal(t, "DEGRADED", env.Code)
}

func TestLoginAccessToken_FormEncoded(t *testing.T) {
	s := newTestServer(t)
	s.registerAndLogin(t, "alice")

	ctx := &fasthttp.RequestCtx{}
	ctx.Request.Header.SetMethod(fasthttp.MethodPost)
	ctx.Request.SetRequestURI("/api/v1/auth/login/access-token")
	ctx.Request.Header.SetContentType("application/x-www-form-urlencoded")
	ctx.Request.SetBodyString("username=alice&password=Password1")

	s.handler(ctx)

	require.Equal(t, http.StatusOK, ctx.Response.StatusCode())
	assert.Contains(t, string(ctx.Response.Body()), "access_token")
}
