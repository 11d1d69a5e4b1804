package api

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tasktracker/config"
	apimiddleware "tasktracker/internal/delivery/api/middleware"
	"tasktracker/internal/delivery/api/router"
	"tasktracker/internal/delivery/api/router/handler"
	"tasktracker/internal/domain/repository"
	"tasktracker/internal/domain/service"
	"tasktracker/internal/infra/auth"
	"tasktracker/internal/infra/metrics"
	"tasktracker/internal/infra/persistence/migrations"
	"tasktracker/internal/infra/persistence/sqlstore"
	"tasktracker/internal/usecase/impl"
)

type testApp struct {
	echo   *echo.Echo
	tokens service.TokenService
	users  repository.UserRepository
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	cfg := &config.Config{}
	cfg.SecretKey.Access = "test-secret"
	cfg.HTTP.MaxRequestBodySize = "100KB"
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLitePath = filepath.Join(t.TempDir(), "tasks.db")
	cfg.Metrics = &config.MetricsConfig{Enabled: true, Path: "/metrics"}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	db, err := sqlstore.Open(cfg, logger)
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, migrations.AutoMigrate(t.Context(), db))

	tokens, err := auth.NewJWTService(cfg)
	require.NoError(t, err)
	m := metrics.New()

	users := sqlstore.NewUserRepository(db)
	accountUC := impl.NewAccountService(impl.AccountServiceParams{
		UserRepo:     users,
		Hasher:       auth.NewBcryptHasherWithCost(4),
		TokenService: tokens,
		Metrics:      m,
		Logger:       logger,
	})
	taskUC := impl.NewTaskService(impl.TaskServiceParams{
		TxManager: sqlstore.NewTransactionManager(db),
		TaskRepo:  sqlstore.NewTaskRepository(db),
		Metrics:   m,
		Logger:    logger,
	})

	routerParams := router.RouterParams{
		AccountHandler: handler.NewAccountHandler(handler.AccountHandlerParams{AccountUC: accountUC, Logger: logger}),
		TaskHandler:    handler.NewTaskHandler(handler.TaskHandlerParams{TaskUC: taskUC, Logger: logger}),
		AuthMiddleware: apimiddleware.NewAuthMiddleware(apimiddleware.AuthMiddlewareParams{TokenService: tokens, Metrics: m, Logger: logger}),
		Metrics:        m,
		Config:         cfg,
	}

	return &testApp{
		echo:   NewEcho(cfg, logger, m, routerParams),
		tokens: tokens,
		users:  users,
	}
}

func (a *testApp) do(t *testing.T, method, path, body, token string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	a.echo.ServeHTTP(rec, req)

	var out map[string]any
	if strings.HasPrefix(rec.Header().Get(echo.HeaderContentType), echo.MIMEApplicationJSON) {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	}

	return rec.Code, out
}

func (a *testApp) registerAndLogin(t *testing.T, username, password string) string {
	t.Helper()

	creds := fmt.Sprintf(`{"username":%q,"password":%q}`, username, password)
	status, _ := a.do(t, http.MethodPost, "/auth/register", creds, "")
	require.Equal(t, http.StatusCreated, status)

	status, body := a.do(t, http.MethodPost, "/auth/login", creds, "")
	require.Equal(t, http.StatusOK, status)
	token, ok := body["access_token"].(string)
	require.True(t, ok)

	return token
}

func TestServer_AccountFlow(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "User registered successfully", body["message"])

	status, body = app.do(t, http.MethodPost, "/auth/register", `{"username":"alice","password":"other"}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "Username already exists", body["message"])
	assert.NotEmpty(t, body["request_id"])

	status, body = app.do(t, http.MethodPost, "/auth/register", `{"username":"bob"}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "VALIDATION_FAILED", body["code"])

	status, body = app.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"wrong"}`, "")
	require.Equal(t, http.StatusUnauthorized, status)
	assert.Equal(t, "Invalid credentials", body["message"])

	status, body = app.do(t, http.MethodPost, "/auth/login", `{"username":"nobody","password":"pw1"}`, "")
	require.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "User not found", body["message"])

	status, body = app.do(t, http.MethodPost, "/auth/login", `{"username":"alice","password":"pw1"}`, "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "alice", body["username"])

	token, ok := body["access_token"].(string)
	require.True(t, ok)
	claims, err := app.tokens.Verify(token)
	require.NoError(t, err)
	alice, err := app.users.FindByUsername(t.Context(), "alice")
	require.NoError(t, err)
	assert.NotZero(t, alice.ID)
	assert.Equal(t, alice.ID, claims.UserID)
}

func TestServer_RegisterLongUsername(t *testing.T) {
	app := newTestApp(t)
	username := strings.Repeat("u", 200)

	token := app.registerAndLogin(t, username, "pw1")

	status, body := app.do(t, http.MethodPost, "/tasks/add", `{"title":"long name"}`, token)
	require.Equal(t, http.StatusCreated, status)
	assert.NotZero(t, body["task_id"])
}

func TestServer_TaskFlow(t *testing.T) {
	app := newTestApp(t)
	token := app.registerAndLogin(t, "alice", "pw1")

	status, body := app.do(t, http.MethodPost, "/tasks/add", `{"title":"buy milk","description":"2 liters"}`, token)
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "Task created successfully", body["message"])
	taskID := int(body["task_id"].(float64))

	status, body = app.do(t, http.MethodGet, "/tasks/", "", token)
	require.Equal(t, http.StatusOK, status)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	task := tasks[0].(map[string]any)
	assert.Equal(t, "buy milk", task["title"])
	assert.Equal(t, "2 liters", task["description"])
	assert.NotEmpty(t, task["created_at"])

	status, _ = app.do(t, http.MethodGet, "/tasks", "", token)
	assert.Equal(t, http.StatusOK, status)

	status, body = app.do(t, http.MethodPut, fmt.Sprintf("/tasks/%d", taskID), `{"title":"buy oat milk"}`, token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Task updated successfully", body["message"])

	_, body = app.do(t, http.MethodGet, "/tasks/", "", token)
	task = body["tasks"].([]any)[0].(map[string]any)
	assert.Equal(t, "buy oat milk", task["title"])
	assert.Equal(t, "2 liters", task["description"])

	status, body = app.do(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), "", token)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "Task deleted successfully", body["message"])

	status, body = app.do(t, http.MethodDelete, fmt.Sprintf("/tasks/%d", taskID), "", token)
	require.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "Task not found", body["message"])

	_, body = app.do(t, http.MethodGet, "/tasks/", "", token)
	assert.Empty(t, body["tasks"])
}

func TestServer_TasksAreScopedToOwner(t *testing.T) {
	app := newTestApp(t)
	alice := app.registerAndLogin(t, "alice", "pw1")
	bob := app.registerAndLogin(t, "bob", "pw2")

	status, body := app.do(t, http.MethodPost, "/tasks/add", `{"title":"alice only"}`, alice)
	require.Equal(t, http.StatusCreated, status)
	path := fmt.Sprintf("/tasks/%d", int(body["task_id"].(float64)))

	_, body = app.do(t, http.MethodGet, "/tasks/", "", bob)
	assert.Empty(t, body["tasks"])

	status, _ = app.do(t, http.MethodPut, path, `{"title":"hijacked"}`, bob)
	assert.Equal(t, http.StatusNotFound, status)

	status, _ = app.do(t, http.MethodDelete, path, "", bob)
	assert.Equal(t, http.StatusNotFound, status)

	_, body = app.do(t, http.MethodGet, "/tasks/", "", alice)
	tasks := body["tasks"].([]any)
	require.Len(t, tasks, 1)
	assert.Equal(t, "alice only", tasks[0].(map[string]any)["title"])
}

func TestServer_AccessGuard(t *testing.T) {
	app := newTestApp(t)
	app.registerAndLogin(t, "alice", "pw1")

	expired, err := app.tokens.IssueWithTTL(1, -time.Minute)
	require.NoError(t, err)

	tests := []struct {
		name        string
		token       string
		wantMessage string
	}{
		{name: "missing", wantMessage: "Token is missing"},
		{name: "expired", token: expired, wantMessage: "Token has expired"},
		{name: "garbage", token: "not-a-jwt", wantMessage: "Invalid token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := app.do(t, http.MethodGet, "/tasks/", "", tt.token)
			assert.Equal(t, http.StatusUnauthorized, status)
			assert.Equal(t, tt.wantMessage, body["message"])
		})
	}
}

func TestServer_HealthAndMetrics(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodGet, "/health", "", "")
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	app.do(t, http.MethodGet, "/tasks/", "", "")

	rec := httptest.NewRecorder()
	app.echo.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `tasktracker_auth_failures_total{reason="missing"} 1`)
	assert.Contains(t, rec.Body.String(), `route="/health"`)
}

func TestServer_UnknownRoute(t *testing.T) {
	app := newTestApp(t)

	status, body := app.do(t, http.MethodGet, "/nope", "", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.Equal(t, "ROUTE_NOT_FOUND", body["code"])
}
